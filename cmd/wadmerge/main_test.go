package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadmerge/internal/wadkind"
)

func TestExitCodeForMapsWadkindKinds(t *testing.T) {
	cases := []struct {
		kind wadkind.Kind
		want int
	}{
		{wadkind.InvalidFormat, -2},
		{wadkind.CorruptHeader, -3},
		{wadkind.Integrity, -4},
		{wadkind.IO, -5},
		{wadkind.UserAbort, -6},
	}
	for _, c := range cases {
		err := wadkind.New(c.kind, "test", errors.New("boom"))
		require.Equal(t, c.want, exitCodeFor(err))
	}
}

func TestExitCodeForUnwrappedError(t *testing.T) {
	require.Equal(t, -1, exitCodeFor(errors.New("plain")))
}
