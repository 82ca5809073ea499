// Package merge implements the merge driver (spec §4.8): it loads every
// input archive in order, feeds each one through the texture, animation,
// map, text, and namespace readers in that fixed sequence, then assembles
// and serializes the output archive.
package merge

import (
	"context"
	"fmt"

	"github.com/stuarthighley/wadmerge/internal/animswitch"
	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/mapextract"
	"github.com/stuarthighley/wadmerge/internal/namespace"
	"github.com/stuarthighley/wadmerge/internal/textlump"
	"github.com/stuarthighley/wadmerge/internal/texture"
	"github.com/stuarthighley/wadmerge/internal/wadkind"
)

// Options configures one merge run (spec §6 CLI surface, minus the pieces
// that are purely collaborator-layer concerns like the overwrite prompt).
type Options struct {
	OutputPath    string
	FilterPatches bool
	MergeText     bool
	SortNamespace bool
	SortMaps      bool
	SortTextures  bool
	SortText      bool
	SortLoose     bool

	// NullTextureNames is the pinned-top name set for SortTextures (spec
	// §4.3). Nil falls back to texture.DefaultNullNames.
	NullTextureNames map[string]bool

	// OnArchive, if set, is called with the 0-based index and path of each
	// input just before it is read, so a caller can drive a progress bar.
	OnArchive func(i int, path string)
}

// DefaultOptions mirrors the CLI's documented defaults (spec §6).
func DefaultOptions() Options {
	return Options{
		OutputPath:    "merged.wad",
		FilterPatches: true,
		MergeText:     true,
		SortNamespace: true,
		SortMaps:      true,
		SortTextures:  false,
		SortText:      true,
		SortLoose:     false,

		NullTextureNames: texture.DefaultNullNames,
	}
}

// Result is what a successful or partially successful Run produced.
type Result struct {
	Output     *archive.Archive
	DupLog     *duplog.Log
	SkippedArc []string // paths of inputs that failed to read and were skipped
}

// Run loads every archive in paths, merges them per opts, and returns the
// assembled (not yet written) output archive plus the duplicate log (spec
// §4.8). An input rejected as InvalidFormat or CorruptHeader is skipped and
// its path recorded in Result.SkippedArc (spec §7 propagation); every other
// error, including an IO failure opening or reading an input, is fatal to
// the merge.
func Run(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if len(paths) < 2 {
		return nil, wadkind.New(wadkind.IO, "merge.Run", fmt.Errorf("at least 2 input archives required, got %d", len(paths)))
	}

	log := duplog.New()
	textures := texture.New()
	anims := animswitch.New()
	maps := mapextract.New()
	text := textlump.New()
	namespaces := namespace.New()

	var inputs []*archive.Archive
	var skipped []string

	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, wadkind.New(wadkind.IO, "merge.Run", err)
		}
		if opts.OnArchive != nil {
			opts.OnArchive(i, p)
		}

		arc, err := archive.Read(p)
		if err != nil {
			if isFatalForArchive(err) {
				skipped = append(skipped, p)
				continue
			}
			return nil, err
		}
		inputs = append(inputs, arc)

		// Fixed per-input order: textures, animations, maps, text, namespaces
		// (spec §4.8).
		per := texture.New()
		if err := per.ReadFrom(arc); err != nil {
			return nil, err
		}
		textures.MergeWith(per, log)

		if err := anims.ReadFrom(arc, log); err != nil {
			return nil, err
		}
		maps.ScanInto(arc, log)
		if opts.MergeText {
			text.ScanInto(arc, log)
		}
		namespaces.ScanInto(arc, log)
	}

	if len(inputs) < 2 {
		return nil, wadkind.New(wadkind.IO, "merge.Run", fmt.Errorf("fewer than 2 input archives could be read"))
	}

	textures.UpdatePatchNames()

	if opts.FilterPatches {
		live := make(map[string]bool)
		for _, n := range textures.PatchNames() {
			live[n] = true
		}
		namespaces.PruneAgainst(live)
	}

	if opts.SortTextures {
		nullNames := opts.NullTextureNames
		if nullNames == nil {
			nullNames = texture.DefaultNullNames
		}
		textures.Sort(nullNames)
	}
	if opts.SortMaps {
		maps.Sort()
	}
	if opts.SortNamespace {
		namespaces.SortNamespaces()
	}
	if opts.SortText {
		text.Sort()
	}
	if opts.SortLoose {
		namespaces.SortLoose()
	}

	out := archive.New(archive.PWAD, basenameOf(opts.OutputPath))

	for _, l := range namespaces.Loose().Lumps() {
		out.AddLump(l)
	}
	text.WriteTo(out)
	if err := anims.WriteTo(out); err != nil {
		return nil, err
	}
	if err := textures.WriteTo(out); err != nil {
		return nil, err
	}
	maps.WriteTo(out, func(sourceArc string) []*archive.Lump {
		for _, arc := range inputs {
			if arc.Basename == sourceArc {
				return arc.Lumps()
			}
		}
		return nil
	})
	namespaces.WriteNamespaces(out)

	return &Result{Output: out, DupLog: log, SkippedArc: skipped}, nil
}

// isFatalForArchive reports whether err is an archive-level read failure
// that the driver should skip-and-continue on, rather than abort the whole
// merge (spec §7 propagation: InvalidFormat/CorruptHeader are fatal only to
// the offending archive).
func isFatalForArchive(err error) bool {
	e, ok := err.(*wadkind.Error)
	if !ok {
		return false
	}
	return e.Kind == wadkind.InvalidFormat || e.Kind == wadkind.CorruptHeader
}

func basenameOf(path string) string {
	i := len(path) - 1
	for i >= 0 && path[i] != '/' && path[i] != '\\' {
		i--
	}
	return path[i+1:]
}
