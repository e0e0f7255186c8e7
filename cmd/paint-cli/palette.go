package main

import (
	"fmt"

	"github.com/fpang/paint-visualizer/internal/cli"
	"github.com/fpang/paint-visualizer/internal/palette"
	"github.com/spf13/cobra"
)

var nearestFlag string

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the preset paint colours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if nearestFlag == "" {
			return cli.FormatPalette(out, palette.Presets())
		}

		c, err := palette.Nearest(nearestFlag)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Closest preset to %s:\n", nearestFlag)
		return cli.FormatPalette(out, []palette.ColorOption{c})
	},
}

func init() {
	paletteCmd.Flags().StringVar(&nearestFlag, "nearest", "", "Show the preset perceptually closest to this hex colour")
}
