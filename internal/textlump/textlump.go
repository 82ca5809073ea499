// Package textlump implements the whitelist-gated text-lump merger (spec
// §4.6), grounded on the same fixed-table, name-driven dispatch used by the
// rest of the merge core (e.g. namespace's alias table) generalized from a
// single lookup value to a whitelist of names.
package textlump

import (
	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/ordermap"
)

// Whitelist is the fixed set of ASCII lump names eligible for text merging:
// Doom, Hexen, ZDoom, Skulltag, and Doomsday configuration-lump names (spec
// §4.6). Encoding is never interpreted for any of these; bytes are opaque.
var Whitelist = map[string]bool{
	"DECORATE":  true,
	"LANGUAGE":  true,
	"DEHACKED":  true,
	"MAPINFO":   true,
	"ZMAPINFO":  true,
	"EMAPINFO":  true,
	"UMAPINFO":  true,
	"GAMEINFO":  true,
	"SNDINFO":   true,
	"SNDSEQ":    true,
	"SBARINFO":  true,
	"MENUDEF":   true,
	"GLDEFS":    true,
	"MODELDEF":  true,
	"KEYCONF":   true,
	"LOCKDEFS":  true,
	"ALTHUDCF":  true,
	"X11R6RGB":  true,
	"ANIMDEFS":  true,
	"TERRAIN":   true,
	"VOXELDEF":  true,
	"CVARINFO":  true,
	"S_SKIN":    true,
	"SKYDEFS":   true,
	"FONTDEFS":  true,
	"TEAMINFO":  true,
	"CRSHNDDF":  true,
	"TRNSLATE":  true,
	"XLAT":      true,
	"EVENTS":    true,
	"DSDHACKED": true,
	"SECRETS":   true,
	"EMENUS":    true,
	"INTERMIS":  true,
	"BRGHTMPS":  true,
	"FINALE":    true,
	"FINALEB":   true,
	"CREDIT":    true,
	"HELP":      true,
	"HELP1":     true,
	"HELP2":     true,
	"RESPFILE":  true,
	"COMPLVL":   true,
	"OPTIONS":   true,
	"OPTIONS2":  true,
	"OPTIONS3":  true,
}

// Merge is the accumulated text-lump table, keyed by lump name.
type Merge struct {
	lumps  *ordermap.Map[string, []byte]
	source map[string]string // lump name -> FullName of its most recent contributor
}

// New returns an empty text-lump merge table.
func New() *Merge {
	return &Merge{lumps: ordermap.New[string, []byte](), source: map[string]string{}}
}

// ScanInto appends every unclaimed, whitelisted lump from arc into the merge
// table: a fresh copy if the name is new, or the existing bytes plus a
// single 0x0A separator plus the new bytes if the name already has an entry
// (spec §4.6), logging that concatenation as a duplog.Merge record (spec
// §4.9). Matched lumps are marked Used.
func (m *Merge) ScanInto(arc *archive.Archive, log *duplog.Log) {
	for _, l := range arc.Lumps() {
		if l.Used || !Whitelist[l.Name] {
			continue
		}
		l.Used = true

		existing, ok := m.lumps.Get(l.Name)
		if !ok {
			fresh := make([]byte, len(l.Data))
			copy(fresh, l.Data)
			m.lumps.Add(l.Name, fresh)
			m.source[l.Name] = l.FullName()
			continue
		}
		merged := make([]byte, 0, len(existing)+1+len(l.Data))
		merged = append(merged, existing...)
		merged = append(merged, 0x0A)
		merged = append(merged, l.Data...)
		m.lumps.Update(l.Name, merged)

		log.Add(duplog.Record{Op: duplog.Merge, Kind: "text lump", NameA: m.source[l.Name], NameB: l.FullName()})
		m.source[l.Name] = l.FullName()
	}
}

// Names returns every merged lump name in table order: first-seen, or by
// name once Sort has run.
func (m *Merge) Names() []string {
	return m.lumps.Keys()
}

// Sort orders merged text lumps ascending by name (spec §6 --sort-text).
func (m *Merge) Sort() {
	m.lumps.Sort()
}

// Get returns the merged bytes for name.
func (m *Merge) Get(name string) ([]byte, bool) {
	return m.lumps.Get(name)
}

// WriteTo appends every merged text lump to out, in the order Names returns
// (spec §4.8 output ordering: text lumps as a single block).
func (m *Merge) WriteTo(out *archive.Archive) {
	for _, name := range m.Names() {
		data, _ := m.Get(name)
		out.AddLump(&archive.Lump{Name: name, Data: data})
	}
}
