// Package animswitch implements the ANIMATED and SWITCHES codecs (spec
// §4.7), grounded on the teacher's readBlockmap inner loop: both lumps are
// not length-prefixed and are instead read record-by-record until a
// sentinel record is hit, exactly like the blockmap's 0xffff-terminated
// per-block line list.
package animswitch

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/ordermap"
	"github.com/stuarthighley/wadmerge/internal/wadkind"
)

const nameFieldSize = 9

type name9 [nameFieldSize]byte

func (n name9) String() string {
	i := bytes.IndexByte(n[:], 0)
	if i == -1 {
		i = len(n)
	}
	return string(n[:i])
}

func name9FromString(s string) name9 {
	var n name9
	copy(n[:], s)
	return n
}

// AnimKind distinguishes an ANIMATED record's subject.
type AnimKind uint8

const (
	AnimTexture AnimKind = 0
	AnimFlat    AnimKind = 1
)

// AnimDef is one ANIMATED record (spec §4.7).
type AnimDef struct {
	Kind  AnimKind
	Last  string
	First string
	Speed uint32
}

func (a AnimDef) key() string { return a.First + "\x00" + a.Last }

// SwitchDef is one SWITCHES record (spec §4.7).
type SwitchDef struct {
	Off      string
	On       string
	Selector uint16
}

func (s SwitchDef) key() string { return s.Off + "\x00" + s.On }

const (
	animRecordSize   = 23
	switchRecordSize = 20
)

type binAnimRecord struct {
	Type  uint8
	Last  name9
	First name9
	Speed uint32
}

type binSwitchRecord struct {
	Off      name9
	On       name9
	Selector uint16
}

// Table holds the merged ANIMATED and SWITCHES definitions, each deduped by
// its own key (spec §4.7 dedup rule: animations by (first,last), switches by
// (off,on); the IWAD selector and speed are not part of identity).
type Table struct {
	anims    *ordermap.Map[string, AnimDef]
	switches *ordermap.Map[string, SwitchDef]
}

// New returns an empty animation/switch table.
func New() *Table {
	return &Table{
		anims:    ordermap.New[string, AnimDef](),
		switches: ordermap.New[string, SwitchDef](),
	}
}

// Anims returns every AnimDef in first-seen order.
func (t *Table) Anims() []AnimDef {
	return t.anims.Values()
}

// Switches returns every SwitchDef in first-seen order.
func (t *Table) Switches() []SwitchDef {
	return t.switches.Values()
}

// ReadFrom reads ANIMATED then SWITCHES from arc, if present, merging each
// into the table and logging overwrites to log (spec §4.7). Matched lumps
// are marked Used.
func (t *Table) ReadFrom(arc *archive.Archive, log *duplog.Log) error {
	if l, ok := arc.Lump("ANIMATED"); ok {
		l.Used = true
		defs, err := readAnimated(l.Data)
		if err != nil {
			return wadkind.New(wadkind.Integrity, "animswitch.ReadFrom", err)
		}
		for _, a := range defs {
			t.addAnim(a, log)
		}
	}
	if l, ok := arc.Lump("SWITCHES"); ok {
		l.Used = true
		defs, err := readSwitches(l.Data)
		if err != nil {
			return wadkind.New(wadkind.Integrity, "animswitch.ReadFrom", err)
		}
		for _, s := range defs {
			t.addSwitch(s, log)
		}
	}
	return nil
}

// addAnim adds a to the table, or, if an AnimDef with the same (first,last)
// key already exists, unconditionally overwrites it and logs the conflict
// (spec §4.7 dedup rule — the key defines the match, not full-record
// equality, unlike the texture codec's structural-equality exception).
func (t *Table) addAnim(a AnimDef, log *duplog.Log) {
	if existing, ok := t.anims.Get(a.key()); ok {
		t.anims.Update(a.key(), a)
		if log != nil {
			log.Add(duplog.Record{Op: duplog.Overwrite, Kind: "animation", NameA: existing.First + "/" + existing.Last, NameB: a.First + "/" + a.Last})
		}
		return
	}
	t.anims.Add(a.key(), a)
}

// addSwitch is addAnim's counterpart for SWITCHES, keyed on (off,on).
func (t *Table) addSwitch(s SwitchDef, log *duplog.Log) {
	if existing, ok := t.switches.Get(s.key()); ok {
		t.switches.Update(s.key(), s)
		if log != nil {
			log.Add(duplog.Record{Op: duplog.Overwrite, Kind: "switch", NameA: existing.Off + "/" + existing.On, NameB: s.Off + "/" + s.On})
		}
		return
	}
	t.switches.Add(s.key(), s)
}

// readAnimated decodes 23-byte records until a record whose type byte is
// 0xFF (spec §4.7). Reaching EOF without that sentinel is an IntegrityError.
func readAnimated(data []byte) ([]AnimDef, error) {
	var defs []AnimDef
	r := bytes.NewReader(data)
	for {
		var rec binAnimRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("unterminated ANIMATED stream: %w", err)
		}
		if rec.Type == 0xFF {
			return defs, nil
		}
		defs = append(defs, AnimDef{
			Kind:  AnimKind(rec.Type),
			Last:  rec.Last.String(),
			First: rec.First.String(),
			Speed: rec.Speed,
		})
	}
}

// readSwitches decodes 20-byte records until a record whose IWAD selector is
// 0 (spec §4.7). Reaching EOF without that sentinel is an IntegrityError.
func readSwitches(data []byte) ([]SwitchDef, error) {
	var defs []SwitchDef
	r := bytes.NewReader(data)
	for {
		var rec binSwitchRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("unterminated SWITCHES stream: %w", err)
		}
		if rec.Selector == 0 {
			return defs, nil
		}
		defs = append(defs, SwitchDef{
			Off:      rec.Off.String(),
			On:       rec.On.String(),
			Selector: rec.Selector,
		})
	}
}

// WriteTo serializes the table as ANIMATED and SWITCHES lumps, each
// terminated by its sentinel record with remaining fields zero-filled (spec
// §4.7). Lumps are omitted entirely when the table holds no definitions of
// that kind.
func (t *Table) WriteTo(out *archive.Archive) error {
	const op = "animswitch.WriteTo"

	if anims := t.Anims(); len(anims) > 0 {
		var buf bytes.Buffer
		for _, a := range anims {
			if err := binary.Write(&buf, binary.LittleEndian, binAnimRecord{
				Type:  uint8(a.Kind),
				Last:  name9FromString(a.Last),
				First: name9FromString(a.First),
				Speed: a.Speed,
			}); err != nil {
				return wadkind.New(wadkind.IO, op, err)
			}
		}
		if err := binary.Write(&buf, binary.LittleEndian, binAnimRecord{Type: 0xFF}); err != nil {
			return wadkind.New(wadkind.IO, op, err)
		}
		out.AddLump(&archive.Lump{Name: "ANIMATED", Data: buf.Bytes()})
	}

	if switches := t.Switches(); len(switches) > 0 {
		var buf bytes.Buffer
		for _, s := range switches {
			if err := binary.Write(&buf, binary.LittleEndian, binSwitchRecord{
				Off:      name9FromString(s.Off),
				On:       name9FromString(s.On),
				Selector: s.Selector,
			}); err != nil {
				return wadkind.New(wadkind.IO, op, err)
			}
		}
		if err := binary.Write(&buf, binary.LittleEndian, binSwitchRecord{}); err != nil {
			return wadkind.New(wadkind.IO, op, err)
		}
		out.AddLump(&archive.Lump{Name: "SWITCHES", Data: buf.Bytes()})
	}

	return nil
}
