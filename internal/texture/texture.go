// Package texture implements the TEXTURE1/TEXTURE2 + PNAMES codec, including
// Strife 1.1 variant detection and the patch-index renumbering performed
// across a merged texture table (spec §4.3).
package texture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/ordermap"
	"github.com/stuarthighley/wadmerge/internal/wadkind"
)

const patchNameSize = 8

// DefaultNullNames is the fixed set of "null texture" names (spec §4.3 sort)
// — the first TEXTURE1 entry in the IWADs of the games this format
// originates from, a placeholder never meant to be rendered. Doom's is
// AASTINKY; Doom II's is AASHITTY.
var DefaultNullNames = map[string]bool{
	"AASTINKY": true,
	"AASHITTY": true,
}

type name8 [patchNameSize]byte

func (n name8) String() string {
	i := bytes.IndexByte(n[:], 0)
	if i == -1 {
		i = len(n)
	}
	return string(n[:i])
}

func name8FromString(s string) name8 {
	var n name8
	copy(n[:], s)
	return n
}

// PatchDef is one patch reference within a TextureDef (spec §3).
type PatchDef struct {
	XOffset    int16
	YOffset    int16
	PatchName  string // resolved from PNAMES at read time; canonical identity
	PatchIndex int    // valid only at serialization time, stale otherwise
}

// TextureDef is one texture record (spec §3). SourceArc is not part of the
// type's identity or equality — it exists purely so duplicate records can
// name the owning archive (spec §9's "stable archive identifier" realization
// of the otherwise weak back-reference Lumps carry).
type TextureDef struct {
	Name      string
	Width     int16
	Height    int16
	Patches   []PatchDef
	SourceArc string
}

// FullName returns "<archive-basename>:<texture-name>" for duplicate
// reporting.
func (t *TextureDef) FullName() string {
	return t.SourceArc + ":" + t.Name
}

func (t *TextureDef) structurallyEqual(o *TextureDef) bool {
	if t.Name != o.Name || t.Width != o.Width || t.Height != o.Height {
		return false
	}
	if len(t.Patches) != len(o.Patches) {
		return false
	}
	for i := range t.Patches {
		a, b := t.Patches[i], o.Patches[i]
		if a.XOffset != b.XOffset || a.YOffset != b.YOffset || a.PatchName != b.PatchName {
			return false
		}
	}
	return true
}

// Table is the merged set of TextureDefs plus the patch-name list they
// reference, tracking whether the Strife 1.1 wire variant has been latched
// on (spec §4.3).
type Table struct {
	textures      *ordermap.Map[string, *TextureDef]
	patchNames    []string
	patchNamesSet bool
	strifeMode    bool
}

// New returns an empty texture table.
func New() *Table {
	return &Table{textures: ordermap.New[string, *TextureDef]()}
}

// StrifeMode reports whether the Strife 1.1 variant has latched (spec §8
// Strife latch invariant).
func (t *Table) StrifeMode() bool {
	return t.strifeMode
}

// Textures returns every TextureDef in insertion order.
func (t *Table) Textures() []*TextureDef {
	return t.textures.Values()
}

// wire record sizes (spec §4.3)
const (
	doomHeaderSize   = 22
	strifeHeaderSize = 18
	doomPatchSize    = 10
	strifePatchSize  = 6
)

// ReadFrom reads PNAMES then TEXTURE1 (then TEXTURE2 if present) from arc,
// appending every texture found to the table under its name. No-op if either
// PNAMES or TEXTURE1 is absent (spec §4.3 failure semantics).
func (t *Table) ReadFrom(arc *archive.Archive) error {
	const op = "texture.ReadFrom"

	pnamesLump, ok := arc.Lump("PNAMES")
	if !ok {
		return nil
	}
	texture1Lump, ok := arc.Lump("TEXTURE1")
	if !ok {
		return nil
	}
	pnamesLump.Used = true

	patchNames, err := readPNames(pnamesLump.Data)
	if err != nil {
		return wadkind.New(wadkind.IO, op, err)
	}

	texture1Lump.Used = true
	if err := t.readTextureLump(texture1Lump.Data, patchNames, arc.Basename); err != nil {
		return err
	}

	if texture2Lump, ok := arc.Lump("TEXTURE2"); ok {
		texture2Lump.Used = true
		if err := t.readTextureLump(texture2Lump.Data, patchNames, arc.Basename); err != nil {
			return err
		}
	}

	return nil
}

func readPNames(data []byte) ([]string, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("PNAMES lump too small")
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	want := int(4 + count*patchNameSize)
	if len(data) < want {
		return nil, fmt.Errorf("PNAMES lump truncated")
	}
	names := make([]string, count)
	for i := range names {
		var n name8
		copy(n[:], data[4+i*patchNameSize:4+(i+1)*patchNameSize])
		names[i] = strings.ToUpper(n.String())
	}
	return names, nil
}

func (t *Table) readTextureLump(data []byte, patchNames []string, sourceArc string) error {
	const op = "texture.readTextureLump"

	if len(data) < 4 {
		return wadkind.New(wadkind.IO, op, fmt.Errorf("lump too small"))
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	offsetsEnd := 4 + int(count)*4
	if len(data) < offsetsEnd {
		return wadkind.New(wadkind.IO, op, fmt.Errorf("lump truncated"))
	}

	for i := 0; i < int(count); i++ {
		offset := int(binary.LittleEndian.Uint32(data[4+i*4 : 8+i*4]))
		tex, err := t.readOneTexture(data, offset, patchNames)
		if err != nil {
			return err
		}
		tex.SourceArc = sourceArc
		t.textures.Add(tex.Name, tex)
	}
	return nil
}

// readOneTexture decodes a single texture record starting at offset,
// handling Strife variant detection per spec §4.3: after name + 4 unused
// bytes + width + height, the next uint16 is either zero (Doom: a second
// unused uint16 follows, then patch count) or the patch count itself
// (Strife: no second unused uint16, and patch records omit their trailing 4
// unused bytes too). The first non-zero value latches strifeMode for the
// table's remaining reads and for serialization.
func (t *Table) readOneTexture(data []byte, offset int, patchNames []string) (*TextureDef, error) {
	const op = "texture.readOneTexture"

	if offset < 0 || offset+16 > len(data) {
		return nil, wadkind.New(wadkind.IO, op, fmt.Errorf("texture offset %d out of range", offset))
	}

	var nameBuf name8
	copy(nameBuf[:], data[offset:offset+8])
	name := nameBuf.String()
	pos := offset + 8 + 4 // skip name + 4 unused bytes

	width := int16(binary.LittleEndian.Uint16(data[pos : pos+2]))
	height := int16(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
	pos += 4

	probe := binary.LittleEndian.Uint16(data[pos : pos+2])
	pos += 2

	var numPatches uint16
	if probe != 0 {
		t.strifeMode = true
	}
	if t.strifeMode {
		numPatches = probe
	} else {
		pos += 2 // remaining 2 bytes of the second unused field (non-Strife only)
		numPatches = binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2
	}

	patchRecSize := doomPatchSize
	if t.strifeMode {
		patchRecSize = strifePatchSize
	}

	patches := make([]PatchDef, numPatches)
	for i := 0; i < int(numPatches); i++ {
		if pos+patchRecSize > len(data) {
			return nil, wadkind.New(wadkind.IO, op, fmt.Errorf("patch record out of range"))
		}
		xoff := int16(binary.LittleEndian.Uint16(data[pos : pos+2]))
		yoff := int16(binary.LittleEndian.Uint16(data[pos+2 : pos+4]))
		idx := binary.LittleEndian.Uint16(data[pos+4 : pos+6])
		if int(idx) >= len(patchNames) {
			return nil, wadkind.New(wadkind.Integrity, op, fmt.Errorf("patch index %d out of range for %d patch names", idx, len(patchNames)))
		}
		patches[i] = PatchDef{
			XOffset:   xoff,
			YOffset:   yoff,
			PatchName: patchNames[idx],
		}
		pos += patchRecSize
	}

	return &TextureDef{Name: name, Width: width, Height: height, Patches: patches}, nil
}

// MergeWith folds other into t: new names are appended, existing names are
// compared structurally (name, width, height, each patch's x/y/name — the
// numeric patch index is explicitly excluded) and equal definitions are kept
// silently while unequal ones overwrite and log a duplicate record (spec
// §4.3 mergeWith).
func (t *Table) MergeWith(other *Table, log *duplog.Log) {
	for _, tex := range other.Textures() {
		existing, ok := t.textures.Get(tex.Name)
		if !ok {
			t.textures.Add(tex.Name, tex)
			continue
		}
		if existing.structurallyEqual(tex) {
			continue
		}
		t.textures.Update(tex.Name, tex)
		if log != nil {
			log.Add(duplog.Record{
				Op:    duplog.Overwrite,
				Kind:  "texture",
				NameA: existing.FullName(),
				NameB: tex.FullName(),
			})
		}
	}
}

// UpdatePatchNames rebuilds the patch-name list from the union of PatchNames
// in use across all textures (first-seen order) and rewrites every
// PatchDef's PatchIndex to its new position. Must be called exactly once
// before serialization (spec §4.3).
func (t *Table) UpdatePatchNames() {
	seen := make(map[string]int)
	var names []string
	for _, tex := range t.textures.Values() {
		for i := range tex.Patches {
			p := &tex.Patches[i]
			idx, ok := seen[p.PatchName]
			if !ok {
				idx = len(names)
				seen[p.PatchName] = idx
				names = append(names, p.PatchName)
			}
			p.PatchIndex = idx
		}
	}
	t.patchNames = names
	t.patchNamesSet = true
}

// PatchNames returns the rebuilt patch-name list; only meaningful after
// UpdatePatchNames.
func (t *Table) PatchNames() []string {
	return t.patchNames
}

// Sort orders textures ascending by name, with names in nullNames pinned to
// sort before all others (spec §4.3 sort — the "null texture" pinned-top
// exception). If more than one null name is present this is a likely user
// error but sorting proceeds by their natural name order regardless.
func (t *Table) Sort(nullNames map[string]bool) {
	t.textures.SortFunc(func(a, b *TextureDef) bool {
		aNull, bNull := nullNames[a.Name], nullNames[b.Name]
		if aNull != bNull {
			return aNull
		}
		return a.Name < b.Name
	})
}

// WriteTo produces a PNAMES lump and a TEXTURE1 lump containing every
// texture in the table, regardless of how many were originally read from
// TEXTURE2 (spec §4.3 writeTo — TEXTURE2 is never written).
func (t *Table) WriteTo(arc *archive.Archive) error {
	const op = "texture.WriteTo"

	if !t.patchNamesSet {
		return wadkind.New(wadkind.Integrity, op, fmt.Errorf("UpdatePatchNames must be called before WriteTo"))
	}

	var pnamesBuf bytes.Buffer
	binary.Write(&pnamesBuf, binary.LittleEndian, uint32(len(t.patchNames)))
	for _, n := range t.patchNames {
		nb := name8FromString(n)
		pnamesBuf.Write(nb[:])
	}
	arc.AddLump(&archive.Lump{Name: "PNAMES", Data: pnamesBuf.Bytes()})

	textures := t.textures.Values()

	headerSize := doomHeaderSize
	patchSize := doomPatchSize
	if t.strifeMode {
		headerSize = strifeHeaderSize
		patchSize = strifePatchSize
	}

	offsets := make([]uint32, len(textures))
	bodyOffset := uint32(4 + 4*len(textures))
	for i, tex := range textures {
		offsets[i] = bodyOffset
		bodyOffset += uint32(headerSize + patchSize*len(tex.Patches))
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(textures)))
	binary.Write(&buf, binary.LittleEndian, offsets)

	for _, tex := range textures {
		nb := name8FromString(tex.Name)
		buf.Write(nb[:])
		binary.Write(&buf, binary.LittleEndian, int32(0)) // unused
		binary.Write(&buf, binary.LittleEndian, tex.Width)
		binary.Write(&buf, binary.LittleEndian, tex.Height)
		if t.strifeMode {
			binary.Write(&buf, binary.LittleEndian, uint16(len(tex.Patches)))
		} else {
			binary.Write(&buf, binary.LittleEndian, int32(0)) // unused
			binary.Write(&buf, binary.LittleEndian, uint16(len(tex.Patches)))
		}
		for _, p := range tex.Patches {
			binary.Write(&buf, binary.LittleEndian, p.XOffset)
			binary.Write(&buf, binary.LittleEndian, p.YOffset)
			binary.Write(&buf, binary.LittleEndian, uint16(p.PatchIndex))
			if !t.strifeMode {
				binary.Write(&buf, binary.LittleEndian, int32(0)) // unused
			}
		}
	}

	arc.AddLump(&archive.Lump{Name: "TEXTURE1", Data: buf.Bytes()})
	return nil
}
