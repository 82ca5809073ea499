package textlump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
)

func TestMergeAppendsWithNewlineSeparator(t *testing.T) {
	arcA := archive.New(archive.PWAD, "a.wad")
	arcA.AddLump(&archive.Lump{Name: "DECORATE", Data: []byte("A\n")})

	arcB := archive.New(archive.PWAD, "b.wad")
	arcB.AddLump(&archive.Lump{Name: "DECORATE", Data: []byte("B\n")})

	log := duplog.New()
	merge := New()
	merge.ScanInto(arcA, log)
	merge.ScanInto(arcB, log)

	got, ok := merge.Get("DECORATE")
	require.True(t, ok)
	assert.Equal(t, []byte("A\n\nB\n"), got)
	require.Equal(t, 1, log.Len())
	assert.Equal(t, "text lump", log.Records()[0].Kind)
}

func TestNonWhitelistedLumpIsIgnored(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	arc.AddLump(&archive.Lump{Name: "PLAYPAL", Data: []byte{0x01}})

	merge := New()
	merge.ScanInto(arc, duplog.New())

	assert.Empty(t, merge.Names())
	l, _ := arc.Lump("PLAYPAL")
	assert.False(t, l.Used)
}

func TestFirstOccurrenceCopiesBytesIndependently(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	data := []byte("hello")
	arc.AddLump(&archive.Lump{Name: "LANGUAGE", Data: data})

	merge := New()
	merge.ScanInto(arc, duplog.New())

	got, ok := merge.Get("LANGUAGE")
	require.True(t, ok)
	data[0] = 'X'
	assert.Equal(t, []byte("hello"), got, "merge must copy, not alias, the source bytes")
}
