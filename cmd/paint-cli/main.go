package main

import (
	"os"

	"github.com/fpang/paint-visualizer/internal/logging"
	"github.com/spf13/cobra"
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "paint-cli",
	Short: "Repaint the walls in a room photo from the command line",
	Long: `Paint CLI sends a room photo to Gemini and saves a copy with the walls
repainted in the chosen colour.

Examples:
  paint-cli palette
  paint-cli palette --nearest "#2b4a6f"
  paint-cli repaint --image living-room.jpg --color "Navy Blue"
  paint-cli repaint -i bedroom.png -c "#123456" -o bedroom-blue.png
  paint-cli repaint   # Interactive: native file dialog and colour prompt`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func init() {
	rootCmd.AddCommand(repaintCmd, paletteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
