package duplog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportColumnAligned(t *testing.T) {
	log := New()
	log.Add(Record{Op: Overwrite, Kind: "texture", NameA: "a.wad:AASHITTY", NameB: "b.wad:AASHITTY"})
	log.Add(Record{Op: Merge, Kind: "text lump", NameA: "a.wad:DECORATE", NameB: "b.wad:DECORATE"})

	var sb strings.Builder
	require.NoError(t, log.WriteReport(&sb))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	// Both label columns should be the same width, so the name columns start
	// at the same offset on every line.
	assert.Contains(t, lines[0], "overwrite texture")
	assert.Contains(t, lines[1], "merge text lump")
	assert.Equal(t, strings.Index(lines[0], "a.wad:"), strings.Index(lines[1], "a.wad:"))
	assert.Equal(t, strings.Index(lines[0], "b.wad:"), strings.Index(lines[1], "b.wad:"))
}

func TestLenAndRecordsOrder(t *testing.T) {
	log := New()
	assert.Equal(t, 0, log.Len())
	log.Add(Record{Op: Merge, Kind: "map", NameA: "x", NameB: "y"})
	log.Add(Record{Op: Overwrite, Kind: "map", NameA: "p", NameB: "q"})
	require.Equal(t, 2, log.Len())
	assert.Equal(t, "x", log.Records()[0].NameA)
	assert.Equal(t, "p", log.Records()[1].NameA)
}
