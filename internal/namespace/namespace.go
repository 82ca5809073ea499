// Package namespace implements the namespace partitioner (spec §4.5),
// grounded on the teacher's bounded F_START/F_END and S_START/S_END scans in
// readFlats and readSprites, generalized into a single pass that recognizes
// any aliased namespace and leaves a loose bucket for everything else.
package namespace

import (
	"bytes"

	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/ordermap"
)

const looseName = ""

// Fold maps a raw "*_START"/"*_END" prefix onto its canonical namespace name
// (spec §9 alias folding). Unrecognized prefixes pass through unchanged, so
// folding is idempotent: folding an already-canonical name (e.g. the literal
// "FF") returns it as-is (spec §9 open question resolution).
func Fold(prefix string) string {
	switch prefix {
	case "F", "F1", "F2", "F3":
		return "FF"
	case "S":
		return "SS"
	case "P", "P1", "P2", "P3":
		return "PP"
	default:
		return prefix
	}
}

func startPrefix(name string) (string, bool) {
	const suffix = "_START"
	if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
		return "", false
	}
	return name[:len(name)-len(suffix)], true
}

func isEndMarker(name string) bool {
	const suffix = "_END"
	return len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix
}

// Bucket is one namespace's (or the loose bucket's) ordered set of lumps.
type Bucket struct {
	Name  string
	lumps *ordermap.Map[string, *archive.Lump]
}

func newBucket(name string) *Bucket {
	return &Bucket{Name: name, lumps: ordermap.New[string, *archive.Lump]()}
}

// Lumps returns the bucket's lumps in insertion order.
func (b *Bucket) Lumps() []*archive.Lump {
	return b.lumps.Values()
}

// Table holds every partitioned namespace plus the loose bucket (spec §4.5).
type Table struct {
	buckets *ordermap.Map[string, *Bucket]
}

// New returns an empty namespace table, with the loose bucket pre-created so
// it is always emitted even when empty is filtered out by the caller.
func New() *Table {
	t := &Table{buckets: ordermap.New[string, *Bucket]()}
	t.buckets.Add(looseName, newBucket(looseName))
	return t
}

// Bucket returns the named namespace bucket, or the loose bucket for "".
func (t *Table) Bucket(name string) (*Bucket, bool) {
	return t.buckets.Get(name)
}

// Namespaces returns every non-loose bucket with at least one lump, in
// first-seen order.
func (t *Table) Namespaces() []*Bucket {
	var out []*Bucket
	for _, b := range t.buckets.Values() {
		if b.Name != looseName && len(b.Lumps()) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Loose returns the loose-lump bucket.
func (t *Table) Loose() *Bucket {
	b, _ := t.Bucket(looseName)
	return b
}

// ScanInto partitions arc's unclaimed lumps (Lump.Used == false) into
// namespaces and the loose bucket (spec §4.5). Every lump it places is
// marked Used, including the zero-size start markers and the zero-size end
// markers that close an open namespace, which are not added to any bucket. A
// zero-size end marker seen while no namespace is open goes into the loose
// bucket like any other lump.
func (t *Table) ScanInto(arc *archive.Archive, log *duplog.Log) {
	var open *Bucket

	for _, l := range arc.Lumps() {
		if l.Used {
			continue
		}

		if len(l.Data) == 0 {
			if prefix, ok := startPrefix(l.Name); ok {
				name := Fold(prefix)
				bucket, ok := t.buckets.Get(name)
				if !ok {
					bucket = newBucket(name)
					t.buckets.Add(name, bucket)
				}
				open = bucket
				l.Used = true
				continue
			}
			if isEndMarker(l.Name) && open != nil {
				open = nil
				l.Used = true
				continue
			}
		}

		l.Used = true
		dest := t.Loose()
		if open != nil {
			dest = open
		}
		t.place(dest, l, log)
	}
}

func (t *Table) place(b *Bucket, l *archive.Lump, log *duplog.Log) {
	existing, ok := b.lumps.Get(l.Name)
	if !ok {
		b.lumps.Add(l.Name, l)
		return
	}
	if bytes.Equal(existing.Data, l.Data) {
		return
	}
	b.lumps.Update(l.Name, l)
	if log != nil {
		kind := "loose lump"
		if b.Name != looseName {
			kind = "namespace lump"
		}
		log.Add(duplog.Record{
			Op:    duplog.Overwrite,
			Kind:  kind,
			NameA: existing.FullName(),
			NameB: l.FullName(),
		})
	}
}

// endMarkerName returns the short-form end marker used on write (spec §4.5
// serialization): S_END for SS, F_END for FF, otherwise <name>_END.
func endMarkerName(namespaceName string) string {
	switch namespaceName {
	case "SS":
		return "S_END"
	case "FF":
		return "F_END"
	default:
		return namespaceName + "_END"
	}
}

// WriteTo emits every non-empty namespace as <name>_START, its lumps in
// order, and a short-form end marker, followed by every loose lump with no
// bracketing markers (spec §4.5). Most callers that need to place loose
// lumps elsewhere in the output's fixed section order (spec §4.8) should use
// WriteNamespaces and Loose directly instead.
func (t *Table) WriteTo(out *archive.Archive) {
	t.WriteNamespaces(out)
	for _, l := range t.Loose().Lumps() {
		out.AddLump(l)
	}
}

// WriteNamespaces emits only the bracketed namespaces, none of the loose
// bucket (spec §4.8 output ordering keeps loose lumps in a separate block).
func (t *Table) WriteNamespaces(out *archive.Archive) {
	for _, b := range t.Namespaces() {
		out.AddLump(&archive.Lump{Name: b.Name + "_START", Data: []byte{}})
		for _, l := range b.Lumps() {
			out.AddLump(l)
		}
		out.AddLump(&archive.Lump{Name: endMarkerName(b.Name), Data: []byte{}})
	}
}

// SortNamespaces orders the lumps within every namespace bucket ascending by
// name (spec §6 --sort-ns).
func (t *Table) SortNamespaces() {
	for _, b := range t.buckets.Values() {
		if b.Name != looseName {
			b.lumps.Sort()
		}
	}
}

// SortLoose orders the loose bucket's lumps ascending by name (spec §6
// --sort-loose).
func (t *Table) SortLoose() {
	t.Loose().lumps.Sort()
}

// PruneAgainst drops every lump from the PP namespace whose name is not
// present in live (the texture codec's rebuilt patch-name list), when the
// driver's optional filter-patches option is enabled (spec §4.5 optional
// prune).
func (t *Table) PruneAgainst(live map[string]bool) {
	b, ok := t.buckets.Get("PP")
	if !ok {
		return
	}
	kept := ordermap.New[string, *archive.Lump]()
	for _, l := range b.Lumps() {
		if live[l.Name] {
			kept.Add(l.Name, l)
		}
	}
	b.lumps = kept
}
