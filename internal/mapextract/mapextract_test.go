package mapextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
)

func addLump(arc *archive.Archive, name string) {
	arc.AddLump(&archive.Lump{Name: name, Data: []byte{}})
}

func TestHexenMapWithBehaviorIsCaptured(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	addLump(arc, "MAP01")
	for _, n := range []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP", "BEHAVIOR"} {
		addLump(arc, n)
	}
	addLump(arc, "SOMEOTHER")

	table := New()
	table.ScanInto(arc, duplog.New())

	require.Len(t, table.Markers(), 1)
	m := table.Markers()[0]
	assert.Equal(t, "MAP01", m.Name)
	assert.Equal(t, Hexen, m.Format)
	assert.Equal(t, 11, m.End-m.Start)

	other, ok := arc.Lump("SOMEOTHER")
	require.True(t, ok)
	assert.False(t, other.Used, "trailing non-map lump must not be claimed")
}

func TestDoomMapEndsAtArchiveEnd(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	addLump(arc, "E1M1")
	for _, n := range []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP"} {
		addLump(arc, n)
	}

	table := New()
	table.ScanInto(arc, duplog.New())

	require.Len(t, table.Markers(), 1)
	m := table.Markers()[0]
	assert.Equal(t, "E1M1", m.Name)
	assert.Equal(t, Doom, m.Format)
	assert.Equal(t, 10, m.End-m.Start)
}

func TestUDMFMapCapturesThroughEndmap(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	addLump(arc, "MAP01")
	addLump(arc, "TEXTMAP")
	addLump(arc, "ZNODES")
	addLump(arc, "ENDMAP")
	addLump(arc, "AFTER")

	table := New()
	table.ScanInto(arc, duplog.New())

	require.Len(t, table.Markers(), 1)
	m := table.Markers()[0]
	assert.Equal(t, "MAP01", m.Name)
	assert.Equal(t, UDMF, m.Format)
	assert.Equal(t, 3, m.End-m.Start) // TEXTMAP, ZNODES, ENDMAP

	after, ok := arc.Lump("AFTER")
	require.True(t, ok)
	assert.False(t, after.Used)
}

func TestDuplicateMapNameOverwritesAndLogs(t *testing.T) {
	arcA := archive.New(archive.PWAD, "a.wad")
	addLump(arcA, "MAP01")
	addLump(arcA, "THINGS")
	addLump(arcA, "LINEDEFS")

	arcB := archive.New(archive.PWAD, "b.wad")
	addLump(arcB, "MAP01")
	addLump(arcB, "THINGS")

	table := New()
	log := duplog.New()
	table.ScanInto(arcA, log)
	table.ScanInto(arcB, log)

	require.Len(t, table.Markers(), 1)
	require.Equal(t, 1, log.Len())
	assert.Equal(t, duplog.Overwrite, log.Records()[0].Op)
	assert.Equal(t, "b.wad:MAP01", log.Records()[0].NameB)
}
