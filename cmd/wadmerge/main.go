package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stuarthighley/wadmerge/internal/config"
	"github.com/stuarthighley/wadmerge/internal/logging"
)

var (
	cfg     *config.Config
	cfgFile string

	output        string
	overwrite     bool
	filterPatches bool
	mergeText     bool
	sortNS        bool
	sortMaps      bool
	sortTextures  bool
	sortText      bool
	sortLoose     bool
	dupLogPath    string
	logLevel      string
	logFormat     string
	noProgress    bool
	showLicense   bool
)

var rootCmd = &cobra.Command{
	Use:   "wadmerge ARCHIVE ARCHIVE [ARCHIVE...]",
	Short: "Merge Doom-family WAD archives into a single PWAD",
	Long: `wadmerge combines two or more WAD archives into a single merged PWAD,
resolving texture, map, namespace, text-lump, and animation/switch conflicts
according to a fixed merge order and logging every resolved conflict.`,
	Args: cobra.MinimumNArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("output") {
			cfg.Output = output
		}
		if cmd.Flags().Changed("overwrite") {
			cfg.Overwrite = overwrite
		}
		if cmd.Flags().Changed("filter-patches") {
			cfg.FilterPatches = filterPatches
		}
		if cmd.Flags().Changed("merge-text") {
			cfg.MergeText = mergeText
		}
		if cmd.Flags().Changed("sort-ns") {
			cfg.SortNamespace = sortNS
		}
		if cmd.Flags().Changed("sort-maps") {
			cfg.SortMaps = sortMaps
		}
		if cmd.Flags().Changed("sort-textures") {
			cfg.SortTextures = sortTextures
		}
		if cmd.Flags().Changed("sort-text") {
			cfg.SortText = sortText
		}
		if cmd.Flags().Changed("sort-loose") {
			cfg.SortLoose = sortLoose
		}
		if cmd.Flags().Changed("dup-log") {
			cfg.DupLogPath = dupLogPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		if cmd.Flags().Changed("no-progress") {
			cfg.NoProgress = noProgress
		}

		slog.SetDefault(logging.New(cfg.LogLevel, cfg.LogFormat))

		return nil
	},
	RunE: runMerge,
}

func main() {
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + "\nUse -l/--license to print licensing information.\n")

	if showLicenseRequested() {
		printLicense()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func showLicenseRequested() bool {
	for _, a := range os.Args[1:] {
		if a == "-l" || a == "--license" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default wadmerge.yaml in home or pwd)")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output archive path (default merged.wad)")
	rootCmd.Flags().BoolVarP(&overwrite, "overwrite", "w", false, "suppress the interactive overwrite prompt")
	rootCmd.Flags().BoolVar(&filterPatches, "filter-patches", true, "prune the PP namespace against live patch names")
	rootCmd.Flags().BoolVar(&mergeText, "merge-text", true, "merge whitelisted text lumps")
	rootCmd.Flags().BoolVar(&sortNS, "sort-ns", true, "sort namespace lumps by name")
	rootCmd.Flags().BoolVar(&sortMaps, "sort-maps", true, "sort map markers by name")
	rootCmd.Flags().BoolVar(&sortTextures, "sort-textures", false, "sort textures by name")
	rootCmd.Flags().BoolVar(&sortText, "sort-text", true, "sort merged text lumps by name")
	rootCmd.Flags().BoolVar(&sortLoose, "sort-loose", false, "sort loose lumps by name")
	rootCmd.Flags().StringVar(&dupLogPath, "dup-log", "", "path to write the duplicate-conflict report")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	rootCmd.Flags().BoolVarP(&showLicense, "license", "l", false, "print license information and exit")
}
