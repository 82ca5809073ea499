package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stuarthighley/wadmerge/internal/duplog"
	"github.com/stuarthighley/wadmerge/internal/merge"
	"github.com/stuarthighley/wadmerge/internal/progress"
	"github.com/stuarthighley/wadmerge/internal/wadkind"
)

func runMerge(cmd *cobra.Command, args []string) error {
	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = "merged.wad"
	}

	if !cfg.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			if !confirmOverwrite(outputPath) {
				return wadkind.New(wadkind.UserAbort, "wadmerge", errors.New("user declined to overwrite "+outputPath))
			}
		}
	}

	opts := merge.DefaultOptions()
	opts.OutputPath = outputPath
	opts.FilterPatches = cfg.FilterPatches
	opts.MergeText = cfg.MergeText
	opts.SortNamespace = cfg.SortNamespace
	opts.SortMaps = cfg.SortMaps
	opts.SortTextures = cfg.SortTextures
	opts.SortText = cfg.SortText
	opts.SortLoose = cfg.SortLoose

	bar := progress.New(len(args), !cfg.NoProgress)
	opts.OnArchive = bar.Advance

	result, err := merge.Run(context.Background(), args, opts)
	bar.Finish()
	if err != nil {
		return err
	}

	for _, p := range result.SkippedArc {
		slog.Warn("skipped unreadable archive", "path", p)
	}

	if err := result.Output.WriteFile(outputPath); err != nil {
		return err
	}
	slog.Info("wrote merged archive", "path", outputPath, "lumps", result.Output.Len())

	if result.DupLog.Len() > 0 {
		slog.Info("resolved conflicts", "count", result.DupLog.Len())
		if cfg.DupLogPath != "" {
			if err := writeDupLog(result.DupLog, cfg.DupLogPath); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeDupLog(log *duplog.Log, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return wadkind.New(wadkind.IO, "wadmerge.writeDupLog", err)
	}
	defer f.Close()
	if err := log.WriteReport(f); err != nil {
		return wadkind.New(wadkind.IO, "wadmerge.writeDupLog", err)
	}
	return nil
}

// confirmOverwrite reads a single line from stdin; only "y" or "yes"
// (case-insensitive) confirms. No interactive-prompt library appears
// anywhere in the retrieved pack, so this is the one deliberately
// stdlib-only sliver of the CLI.
func confirmOverwrite(path string) bool {
	fmt.Fprintf(os.Stderr, "%s already exists, overwrite? [y/N] ", path)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

func exitCodeFor(err error) int {
	var e *wadkind.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case wadkind.InvalidFormat:
			return -2
		case wadkind.CorruptHeader:
			return -3
		case wadkind.Integrity:
			return -4
		case wadkind.IO:
			return -5
		case wadkind.UserAbort:
			return -6
		}
	}
	return -1
}

func printLicense() {
	fmt.Println(licenseText)
}

const licenseText = `wadmerge is distributed without warranty, for use merging Doom-family WAD
archives. See the archive format notes in README/spec documentation for the
exact on-disk layout this tool reads and writes.`
