package merge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmerge/internal/archive"
)

func writeWad(t *testing.T, dir, name string, lumps []*archive.Lump) string {
	t.Helper()
	a := archive.New(archive.PWAD, name)
	for _, l := range lumps {
		a.AddLump(l)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, a.WriteFile(path))
	return path
}

func TestRunRejectsSingleInput(t *testing.T) {
	_, err := Run(context.Background(), []string{"only.wad"}, DefaultOptions())
	require.Error(t, err)
}

func TestRunMergesNamespacesMapsAndLooseLumps(t *testing.T) {
	dir := t.TempDir()

	pathA := writeWad(t, dir, "a.wad", []*archive.Lump{
		{Name: "STANDALONE", Data: []byte("one")},
		{Name: "MAP01", Data: []byte{}},
		{Name: "THINGS", Data: []byte{}},
		{Name: "LINEDEFS", Data: []byte{}},
		{Name: "SS_START", Data: []byte{}},
		{Name: "SPRITE1", Data: []byte("s1")},
		{Name: "S_END", Data: []byte{}},
	})

	pathB := writeWad(t, dir, "b.wad", []*archive.Lump{
		{Name: "OTHER", Data: []byte("two")},
	})

	opts := DefaultOptions()
	opts.OutputPath = filepath.Join(dir, "merged.wad")

	result, err := Run(context.Background(), []string{pathA, pathB}, opts)
	require.NoError(t, err)
	require.NotNil(t, result.Output)

	names := make([]string, result.Output.Len())
	for i := 0; i < result.Output.Len(); i++ {
		names[i] = result.Output.At(i).Name
	}

	// Writing a.wad cuts the 10-byte name STANDALONE to its 8-byte wire form.
	assert.Contains(t, names, "STANDALO")
	assert.Contains(t, names, "OTHER")
	assert.Contains(t, names, "MAP01")
	assert.Contains(t, names, "THINGS")
	assert.Contains(t, names, "LINEDEFS")
	assert.Contains(t, names, "SS_START")
	assert.Contains(t, names, "SPRITE1")
	assert.Contains(t, names, "S_END")

	require.NoError(t, result.Output.WriteFile(opts.OutputPath))
	_, err = os.Stat(opts.OutputPath)
	require.NoError(t, err)
}

func TestRunSkipsBadMagicInputButContinues(t *testing.T) {
	dir := t.TempDir()
	badPath := filepath.Join(dir, "bad.wad")
	require.NoError(t, os.WriteFile(badPath, []byte("XXXX\x00\x00\x00\x00\x0c\x00\x00\x00"), 0o644))

	goodA := writeWad(t, dir, "a.wad", []*archive.Lump{{Name: "FOO", Data: []byte("x")}})
	goodB := writeWad(t, dir, "b.wad", []*archive.Lump{{Name: "BAR", Data: []byte("y")}})

	result, err := Run(context.Background(), []string{badPath, goodA, goodB}, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, result.SkippedArc, badPath)
}
