package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
)

func TestShortFormSpriteNamespaceRoundTrips(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	arc.AddLump(&archive.Lump{Name: "SS_START", Data: []byte{}})
	arc.AddLump(&archive.Lump{Name: "SPRITE1", Data: []byte("x")})
	arc.AddLump(&archive.Lump{Name: "S_END", Data: []byte{}})

	table := New()
	table.ScanInto(arc, duplog.New())

	require.Len(t, table.Namespaces(), 1)
	ns := table.Namespaces()[0]
	assert.Equal(t, "SS", ns.Name)
	require.Len(t, ns.Lumps(), 1)
	assert.Equal(t, "SPRITE1", ns.Lumps()[0].Name)

	out := archive.New(archive.PWAD, "out.wad")
	table.WriteTo(out)

	require.Equal(t, 3, out.Len())
	assert.Equal(t, "SS_START", out.At(0).Name)
	assert.Equal(t, "SPRITE1", out.At(1).Name)
	assert.Equal(t, "S_END", out.At(2).Name)
}

func TestFoldAliasesPatchNamespace(t *testing.T) {
	assert.Equal(t, "PP", Fold("P1"))
	assert.Equal(t, "PP", Fold("P"))
	assert.Equal(t, "FF", Fold("F3"))
	assert.Equal(t, "SS", Fold("S"))
	assert.Equal(t, "PP", Fold("PP"), "folding an already-canonical name must be idempotent")
}

func TestLooseLumpsBypassBrackets(t *testing.T) {
	arc := archive.New(archive.PWAD, "a.wad")
	arc.AddLump(&archive.Lump{Name: "STANDALONE", Data: []byte("hi")})

	table := New()
	table.ScanInto(arc, duplog.New())

	assert.Empty(t, table.Namespaces())
	require.Len(t, table.Loose().Lumps(), 1)
	assert.Equal(t, "STANDALONE", table.Loose().Lumps()[0].Name)
}

func TestConflictingNamespaceLumpOverwritesAndLogs(t *testing.T) {
	arcA := archive.New(archive.PWAD, "a.wad")
	arcA.AddLump(&archive.Lump{Name: "F_START", Data: []byte{}})
	arcA.AddLump(&archive.Lump{Name: "FLOOR1", Data: []byte("one")})
	arcA.AddLump(&archive.Lump{Name: "F_END", Data: []byte{}})

	arcB := archive.New(archive.PWAD, "b.wad")
	arcB.AddLump(&archive.Lump{Name: "F_START", Data: []byte{}})
	arcB.AddLump(&archive.Lump{Name: "FLOOR1", Data: []byte("two")})
	arcB.AddLump(&archive.Lump{Name: "F_END", Data: []byte{}})

	table := New()
	log := duplog.New()
	table.ScanInto(arcA, log)
	table.ScanInto(arcB, log)

	require.Len(t, table.Namespaces(), 1)
	ns := table.Namespaces()[0]
	require.Len(t, ns.Lumps(), 1)
	assert.Equal(t, []byte("two"), ns.Lumps()[0].Data)

	require.Equal(t, 1, log.Len())
	assert.Equal(t, duplog.Overwrite, log.Records()[0].Op)
}

func TestEqualNamespaceLumpDoesNotLog(t *testing.T) {
	arcA := archive.New(archive.PWAD, "a.wad")
	arcA.AddLump(&archive.Lump{Name: "F_START", Data: []byte{}})
	arcA.AddLump(&archive.Lump{Name: "FLOOR1", Data: []byte("same")})
	arcA.AddLump(&archive.Lump{Name: "F_END", Data: []byte{}})

	arcB := archive.New(archive.PWAD, "b.wad")
	arcB.AddLump(&archive.Lump{Name: "F_START", Data: []byte{}})
	arcB.AddLump(&archive.Lump{Name: "FLOOR1", Data: []byte("same")})
	arcB.AddLump(&archive.Lump{Name: "F_END", Data: []byte{}})

	table := New()
	log := duplog.New()
	table.ScanInto(arcA, log)
	table.ScanInto(arcB, log)

	assert.Equal(t, 0, log.Len())
}
