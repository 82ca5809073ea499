package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stuarthighley/wadmerge/internal/animswitch"
	"github.com/stuarthighley/wadmerge/internal/archive"
	"github.com/stuarthighley/wadmerge/internal/mapextract"
	"github.com/stuarthighley/wadmerge/internal/namespace"
	"github.com/stuarthighley/wadmerge/internal/texture"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect ARCHIVE",
	Short: "Print a lump-type inventory of a WAD archive",
	Long: `inspect opens an archive (an input or a freshly merged output) through
the same codec packages the merge driver uses — texture, animswitch,
mapextract, namespace, in the driver's own fixed order — and prints the
resulting lump-type counts and level names. It decodes no pixel data or
level geometry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arc, err := archive.Read(args[0])
		if err != nil {
			return err
		}

		textures := texture.New()
		if err := textures.ReadFrom(arc); err != nil {
			return err
		}
		anims := animswitch.New()
		if err := anims.ReadFrom(arc, nil); err != nil {
			return err
		}
		maps := mapextract.New()
		maps.ScanInto(arc, nil)
		namespaces := namespace.New()
		namespaces.ScanInto(arc, nil)

		fmt.Printf("%s\n", args[0])
		fmt.Printf("  lumps:     %d\n", arc.Len())
		fmt.Printf("  textures:  %d\n", len(textures.Textures()))
		fmt.Printf("  anims:     %d\n", len(anims.Anims()))
		fmt.Printf("  switches:  %d\n", len(anims.Switches()))

		for _, ns := range []string{"FF", "SS", "PP"} {
			if b, ok := namespaces.Bucket(ns); ok {
				fmt.Printf("  %-9s %d\n", namespaceLabel(ns)+":", len(b.Lumps()))
			}
		}
		fmt.Printf("  loose:     %d\n", len(namespaces.Loose().Lumps()))

		markers := maps.Markers()
		fmt.Printf("  levels:    %d\n", len(markers))
		for _, m := range markers {
			fmt.Printf("    %s (%s)\n", m.Name, m.Format)
		}

		return nil
	},
}

func namespaceLabel(ns string) string {
	switch ns {
	case "FF":
		return "flats"
	case "SS":
		return "sprites"
	case "PP":
		return "patches"
	default:
		return ns
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
