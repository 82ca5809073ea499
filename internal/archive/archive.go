// Package archive implements the binary WAD container codec: header, lump
// directory, and offset fixup on write (spec §4.2). It owns nothing about any
// particular lump's meaning — a Lump is just a name and a byte blob.
package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/stuarthighley/wadmerge/internal/ordermap"
	"github.com/stuarthighley/wadmerge/internal/wadkind"
)

// Type distinguishes IWAD from PWAD. The distinction is a header tag only;
// there is no structural difference (spec GLOSSARY).
type Type int

const (
	IWAD Type = iota
	PWAD
)

func (t Type) magic() string {
	if t == IWAD {
		return "IWAD"
	}
	return "PWAD"
}

func typeFromMagic(magic string) (Type, bool) {
	switch magic {
	case "IWAD":
		return IWAD, true
	case "PWAD":
		return PWAD, true
	default:
		return 0, false
	}
}

const (
	headerSize    = 12
	dirEntrySize  = 16
	nameFieldSize = 8
)

type binHeader struct {
	Magic        [4]byte
	NumLumps     uint32
	InfoTableOfs uint32
}

type binDirEntry struct {
	Offset uint32
	Size   uint32
	Name   name8
}

// name8 is the 8-byte NUL-padded ASCII name field used for lump and patch
// names on the wire.
type name8 [nameFieldSize]byte

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

// Lump is a named byte blob, plus bookkeeping the merge core needs for
// conflict reporting (spec §3).
type Lump struct {
	Name        string
	Data        []byte
	Used        bool
	SourceArc   string // basename of the owning archive, for reporting only
	SourceIndex int    // original directory index within SourceArc
}

// FullName returns the "<archive-basename>:<lump-name>" form used in
// duplicate records (spec §3 DuplicateRecord).
func (l *Lump) FullName() string {
	return l.SourceArc + ":" + l.Name
}

// Archive is a typed, ordered container of Lumps (spec §3 Archive).
type Archive struct {
	Type     Type
	Basename string
	lumps    *ordermap.Map[string, *Lump]
}

// New creates an empty archive of the given type, ready for AddLump.
func New(t Type, basename string) *Archive {
	return &Archive{Type: t, Basename: basename, lumps: ordermap.New[string, *Lump]()}
}

// Len returns the number of lumps, including shadowed duplicate names.
func (a *Archive) Len() int {
	return a.lumps.Len()
}

// At returns the lump at directory position i.
func (a *Archive) At(i int) *Lump {
	_, l := a.lumps.At(i)
	return l
}

// Lump returns the most recently inserted lump under name (spec §9's
// resolution of duplicate names: the latest insertion wins lookup, not the
// first).
func (a *Archive) Lump(name string) (*Lump, bool) {
	return a.lumps.Get(name)
}

// IndexOf returns the directory position of name's most recent binding, or -1.
func (a *Archive) IndexOf(name string) int {
	return a.lumps.IndexOf(name)
}

// AddLump appends a lump to the directory, unconditionally (spec §4.1 Add
// semantics apply: a second add under an existing name shadows for lookup but
// both remain in iteration order).
func (a *Archive) AddLump(l *Lump) {
	a.lumps.Add(l.Name, l)
}

// Lumps returns every lump in directory order.
func (a *Archive) Lumps() []*Lump {
	return a.lumps.Values()
}

// Read loads an entire WAD file into memory: header, directory, and every
// lump's bytes (spec §4.2 read contract).
func Read(path string) (*Archive, error) {
	const op = "archive.Read"

	f, err := os.Open(path)
	if err != nil {
		return nil, wadkind.New(wadkind.IO, op, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, wadkind.New(wadkind.IO, op, err)
	}
	fileSize := info.Size()

	var hdr binHeader
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return nil, wadkind.New(wadkind.IO, op, err)
	}

	magic := string(hdr.Magic[:])
	typ, ok := typeFromMagic(magic)
	if !ok {
		return nil, wadkind.New(wadkind.InvalidFormat, op, fmt.Errorf("bad magic %q", magic))
	}

	dirOfs := int64(hdr.InfoTableOfs)
	if dirOfs < headerSize || dirOfs > fileSize {
		return nil, wadkind.New(wadkind.CorruptHeader, op, fmt.Errorf("directory offset %d out of bounds for file size %d", dirOfs, fileSize))
	}

	if _, err := f.Seek(dirOfs, io.SeekStart); err != nil {
		return nil, wadkind.New(wadkind.IO, op, err)
	}

	numLumps := int(hdr.NumLumps)
	entries := make([]binDirEntry, numLumps)
	if err := binary.Read(f, binary.LittleEndian, entries); err != nil {
		return nil, wadkind.New(wadkind.IO, op, err)
	}

	basename := basenameOf(path)
	arc := New(typ, basename)
	for i, e := range entries {
		data := make([]byte, e.Size)
		if e.Size > 0 {
			if _, err := f.Seek(int64(e.Offset), io.SeekStart); err != nil {
				return nil, wadkind.New(wadkind.IO, op, err)
			}
			if _, err := io.ReadFull(f, data); err != nil {
				return nil, wadkind.New(wadkind.IO, op, err)
			}
		}
		arc.AddLump(&Lump{
			Name:        e.Name.String(),
			Data:        data,
			SourceArc:   basename,
			SourceIndex: i,
		})
	}

	return arc, nil
}

// Write serializes the archive: lumps packed back-to-back starting at byte
// 12, followed by the directory (spec §4.2 write contract). Offsets are
// always recomputed; the header's lump count reflects the lumps actually
// written (spec §9 open question resolution).
func (a *Archive) Write(w io.Writer) error {
	const op = "archive.Write"

	lumps := a.lumps.Values()

	hdr := binHeader{
		Magic:    [4]byte{},
		NumLumps: uint32(len(lumps)),
	}
	copy(hdr.Magic[:], a.Type.magic())

	offset := int64(headerSize)
	entries := make([]binDirEntry, len(lumps))
	for i, l := range lumps {
		entries[i] = binDirEntry{
			Offset: uint32(offset),
			Size:   uint32(len(l.Data)),
			Name:   name8FromString(l.Name),
		}
		offset += int64(len(l.Data))
	}
	hdr.InfoTableOfs = uint32(offset)

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return wadkind.New(wadkind.IO, op, err)
	}
	for _, l := range lumps {
		if _, err := w.Write(l.Data); err != nil {
			return wadkind.New(wadkind.IO, op, err)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, entries); err != nil {
		return wadkind.New(wadkind.IO, op, err)
	}
	return nil
}

// WriteFile is a convenience wrapper over Write that creates (or truncates)
// path and closes the handle exactly once on success (spec §5 resource
// release — the partial file is left on disk if the write fails).
func (a *Archive) WriteFile(path string) error {
	const op = "archive.WriteFile"

	f, err := os.Create(path)
	if err != nil {
		return wadkind.New(wadkind.IO, op, err)
	}
	if err := a.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func basenameOf(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' && path[i] != '\\' {
		i--
	}
	return path[i+1:]
}
