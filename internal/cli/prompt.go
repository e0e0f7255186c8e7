package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fpang/paint-visualizer/internal/palette"
)

// PromptForColor lists the presets on out and reads a choice from in. The
// answer may be a list number, a preset name, or a hex value.
func PromptForColor(in io.Reader, out io.Writer) (palette.ColorOption, error) {
	presets := palette.Presets()
	if err := FormatPalette(out, presets); err != nil {
		return palette.ColorOption{}, err
	}

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Color (number, name or #RRGGBB): ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" {
			c, resolveErr := palette.Resolve(input)
			if resolveErr == nil {
				return c, nil
			}
			fmt.Fprintln(out, resolveErr)
		}
		if err != nil {
			return palette.ColorOption{}, fmt.Errorf("no color chosen: %w", err)
		}
	}
}
