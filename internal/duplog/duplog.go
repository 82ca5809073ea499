// Package duplog implements the append-only duplicate-conflict log (spec
// §4.9) and its column-aligned report writer. Every merge-aware codec
// package (texture, mapextract, namespace, textlump, animswitch) appends
// Records to a Log as it resolves conflicts; duplicate resolutions are never
// errors (spec §7), only log entries.
package duplog

import (
	"fmt"
	"io"
)

// Op identifies whether a conflict was resolved by combining both values
// (merge, e.g. text-lump concatenation) or by replacing the prior value
// (overwrite).
type Op int

const (
	Merge Op = iota
	Overwrite
)

func (o Op) String() string {
	if o == Overwrite {
		return "overwrite"
	}
	return "merge"
}

// Record describes one resolved conflict (spec §3 DuplicateRecord). Kind is
// a human label such as "texture" or "map" that, combined with Op, produces
// the report's first column, e.g. "overwrite texture".
type Record struct {
	Op    Op
	Kind  string
	NameA string
	NameB string
}

func (r Record) label() string {
	return r.Op.String() + " " + r.Kind
}

// Log is an append-only, ordered list of Records.
type Log struct {
	records []Record
}

// New returns an empty Log.
func New() *Log {
	return &Log{}
}

// Add appends a Record.
func (l *Log) Add(r Record) {
	l.records = append(l.records, r)
}

// Records returns every logged Record in append order.
func (l *Log) Records() []Record {
	return l.records
}

// Len returns the number of logged conflicts.
func (l *Log) Len() int {
	return len(l.records)
}

// WriteReport serializes the log as a human-readable, column-aligned report:
// three columns, with the operation label first and the two fully qualified
// resource names following (spec §4.9). The first two columns are padded to
// the maximum width seen across the whole list; the last is written as is.
func (l *Log) WriteReport(w io.Writer) error {
	var labelWidth, aWidth int
	for _, r := range l.records {
		if n := len(r.label()); n > labelWidth {
			labelWidth = n
		}
		if n := len(r.NameA); n > aWidth {
			aWidth = n
		}
	}

	for _, r := range l.records {
		if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s\n", labelWidth, r.label(), aWidth, r.NameA, r.NameB); err != nil {
			return err
		}
	}
	return nil
}
