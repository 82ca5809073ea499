// Package mapextract implements the marker-anchored map-lump scanner (spec
// §4.4). It generalizes the teacher's ReadLevel per-lump-name switch into a
// state machine that recognizes whole map lump runs instead of decoding
// individual lumps.
package mapextract

import (
	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/ordermap"
)

// Format identifies the map's lump layout.
type Format int

const (
	Doom Format = iota
	Hexen
	UDMF
)

func (f Format) String() string {
	switch f {
	case Hexen:
		return "hexen"
	case UDMF:
		return "udmf"
	default:
		return "doom"
	}
}

// knownMapLump is the fixed set of lump names that continue a Doom/Hexen map
// run once THINGS has opened it (spec §4.4).
var knownMapLump = map[string]bool{
	"THINGS":   true,
	"VERTEXES": true,
	"SIDEDEFS": true,
	"SECTORS":  true,
	"SEGS":     true,
	"SSECTORS": true,
	"NODES":    true,
	"LINEDEFS": true,
	"REJECT":   true,
	"BLOCKMAP": true,
	"BEHAVIOR": true,
	"SCRIPTS":  true,
}

// Marker is one recognized map: its marker lump name, detected format, the
// source archive it came from, and the half-open [Start,End) index range
// into that archive's lump list covering the map's data lumps (the marker
// lump itself is excluded from the range for Doom/Hexen maps; see spec §4.4).
type Marker struct {
	Name      string
	Format    Format
	SourceArc string
	Start     int
	End       int
}

// Table is the merged set of map Markers, keyed by marker name so that a
// later map with the same name overwrites an earlier one (spec §4.4 emit
// rule).
type Table struct {
	markers *ordermap.Map[string, *Marker]
}

// New returns an empty map table.
func New() *Table {
	return &Table{markers: ordermap.New[string, *Marker]()}
}

// Markers returns every recognized map in insertion order.
func (t *Table) Markers() []*Marker {
	return t.markers.Values()
}

// Sort orders maps ascending by marker name (spec §6 --sort-maps).
func (t *Table) Sort() {
	t.markers.Sort()
}

// ScanInto runs the marker-anchored state machine over arc's lumps, claiming
// (Lump.Used = true) the marker lump and every data lump belonging to a
// recognized map, and adding each resulting Marker to t. A map with a name
// already present in t overwrites the earlier one and a duplicate record is
// logged (spec §4.4).
func (t *Table) ScanInto(arc *archive.Archive, log *duplog.Log) {
	lumps := arc.Lumps()

	const (
		stateOut = iota
		stateIn
	)

	state := stateOut
	var cur *Marker

	for i, l := range lumps {
		switch state {
		case stateOut:
			switch l.Name {
			case "THINGS":
				cur = beginMarker(lumps, i, Doom, arc.Basename)
				state = stateIn
			case "TEXTMAP":
				cur = beginMarker(lumps, i, UDMF, arc.Basename)
				cur.Start = i
				l.Used = true
				state = stateIn
			}

		case stateIn:
			if cur.Format == UDMF {
				l.Used = true
				if l.Name == "ENDMAP" {
					cur.End = i + 1
					t.emit(cur, log)
					cur = nil
					state = stateOut
				}
				continue
			}

			// Doom/Hexen.
			if l.Name == "BEHAVIOR" {
				cur.Format = Hexen
				l.Used = true
				continue
			}
			if knownMapLump[l.Name] {
				l.Used = true
				if i == len(lumps)-1 {
					cur.End = i + 1
					t.emit(cur, log)
					cur = nil
					state = stateOut
				}
				continue
			}

			// Not a map lump: close without claiming it.
			cur.End = i
			t.emit(cur, log)
			cur = nil
			state = stateOut

			// Re-evaluate this same lump as a possible new map opener.
			switch l.Name {
			case "THINGS":
				cur = beginMarker(lumps, i, Doom, arc.Basename)
				state = stateIn
			case "TEXTMAP":
				cur = beginMarker(lumps, i, UDMF, arc.Basename)
				cur.Start = i
				l.Used = true
				state = stateIn
			}
		}
	}

	// A Doom/Hexen map still open when the lumps run out (its last lump was
	// THINGS or BEHAVIOR) ends at the end of the archive.
	if cur != nil && cur.Format != UDMF {
		cur.End = len(lumps)
		t.emit(cur, log)
	}
}

// beginMarker names the new map after the previous lump (the actual marker,
// e.g. MAP01) and claims both it and the current opening lump (spec §4.4 OUT
// transitions). When there is no previous lump the marker name falls back to
// the opening lump's own name.
func beginMarker(lumps []*archive.Lump, i int, format Format, sourceArc string) *Marker {
	name := lumps[i].Name
	if i > 0 {
		name = lumps[i-1].Name
		lumps[i-1].Used = true
	}
	lumps[i].Used = true
	return &Marker{Name: name, Format: format, SourceArc: sourceArc, Start: i}
}

func (t *Table) emit(m *Marker, log *duplog.Log) {
	if existing, ok := t.markers.Get(m.Name); ok && log != nil {
		log.Add(duplog.Record{
			Op:    duplog.Overwrite,
			Kind:  "map",
			NameA: existing.SourceArc + ":" + existing.Name,
			NameB: m.SourceArc + ":" + m.Name,
		})
	}
	t.markers.Update(m.Name, m)
}

// WriteTo serializes every map in the table: an empty marker lump followed
// by its claimed data-lump range copied verbatim from the source archive
// (spec §4.4 serialization). The source archive for each marker must still
// be reachable by the caller; WriteTo takes the already-resolved source
// lumps directly to avoid re-opening archives.
func (t *Table) WriteTo(out *archive.Archive, sourceLumps func(sourceArc string) []*archive.Lump) {
	for _, m := range t.Markers() {
		out.AddLump(&archive.Lump{Name: m.Name, Data: []byte{}})
		lumps := sourceLumps(m.SourceArc)
		for i := m.Start; i < m.End && i < len(lumps); i++ {
			out.AddLump(lumps[i])
		}
	}
}
