package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fpang/paint-visualizer/internal/cli"
	"github.com/fpang/paint-visualizer/internal/config"
	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/palette"
	"github.com/fpang/paint-visualizer/internal/picker"
	"github.com/fpang/paint-visualizer/internal/repaint"
	"github.com/fpang/paint-visualizer/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CLI flags
var (
	imageFlag    string
	colorFlag    string
	outFlag      string
	modelFlag    string
	timeoutFlag  time.Duration
	validateFlag bool
)

var repaintCmd = &cobra.Command{
	Use:   "repaint",
	Short: "Repaint the walls in one photo",
	Args:  cobra.NoArgs,
	RunE:  runRepaint,
}

func init() {
	f := repaintCmd.Flags()
	f.StringVarP(&imageFlag, "image", "i", "", "Room photo (opens a file dialog when omitted)")
	f.StringVarP(&colorFlag, "color", "c", "", "Preset id, preset name, or #RRGGBB (prompts when omitted)")
	f.StringVarP(&outFlag, "out", "o", "", "Output file (default <image>-<color><ext> next to the photo)")
	f.StringVarP(&modelFlag, "model", "m", "", "Gemini image model (default "+repaint.DefaultModelName+")")
	f.DurationVar(&timeoutFlag, "timeout", 0, "Timeout for the repaint call (overrides PAINT_REQUEST_TIMEOUT)")
	f.BoolVar(&validateFlag, "validate-key", false, "Check the API key before repainting")
}

func runRepaint(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	if modelFlag != "" {
		cfg.Gemini.Model = modelFlag
	}
	if timeoutFlag > 0 {
		cfg.Gemini.Timeout = timeoutFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imagePath := imageFlag
	if imagePath == "" {
		imagePath, err = pickImage(ctx)
		if err != nil {
			return err
		}
	}
	imagePath, err = cli.ResolveImageFile(imagePath)
	if err != nil {
		return err
	}

	var color palette.ColorOption
	if colorFlag != "" {
		color, err = palette.Resolve(colorFlag)
	} else {
		color, err = cli.PromptForColor(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}

	img, err := imagedata.FromFile(imagePath, imagedata.Options{
		MaxBytes:     cfg.Image.MaxUploadBytes,
		MaxDimension: cfg.Image.MaxDimension,
	})
	if err != nil {
		return err
	}

	apiKey := cli.InitAPIKey(ctx, !validateFlag)
	gemini := repaint.NewGeminiClient(apiKey,
		repaint.WithModel(cfg.Gemini.Model),
		repaint.WithBaseURL(cfg.Gemini.BaseURL),
		repaint.WithTimeout(cfg.Gemini.Timeout),
	)

	ctrl := session.NewController(gemini, session.WithSessionID("cli"))
	defer ctrl.Close()
	ctrl.SetSourceImage(img)
	ctrl.SelectColor(color)

	fmt.Fprintf(cmd.OutOrStdout(), "Repainting %s in %s (%s) with %s...\n",
		filepath.Base(imagePath), color.Name, color.Hex, gemini.Model())

	start := time.Now()
	if !ctrl.Repaint(ctx) {
		return errors.New("repaint was not started")
	}
	snap := ctrl.Snapshot()
	if snap.Status != session.StatusSuccess {
		return errors.New(snap.Error)
	}

	outPath := outFlag
	if outPath == "" {
		outPath = defaultOutputPath(imagePath, color, snap.Result)
	}
	if err := os.WriteFile(outPath, snap.Result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	log.Info().Str("out", outPath).Int("bytes", len(snap.Result.Data)).Msg("Repainted image saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s)\n", outPath, cli.FormatDurationShort(time.Since(start)))
	return nil
}

// defaultOutputPath names the result after the photo and colour, using the
// extension of the returned image format.
func defaultOutputPath(imagePath string, color palette.ColorOption, result imagedata.Image) string {
	base := strings.TrimSuffix(imagePath, filepath.Ext(imagePath))
	name := strings.ToLower(strings.ReplaceAll(color.Name, " ", "-"))
	if color.IsCustom() {
		name = strings.TrimPrefix(color.Hex, "#")
	}
	return base + "-" + name + result.Extension()
}

func pickImage(ctx context.Context) (string, error) {
	path, err := picker.SelectImage(ctx)
	if errors.Is(err, picker.ErrCanceled) {
		return "", errors.New("no image selected")
	}
	if err != nil {
		return "", fmt.Errorf("file dialog failed (pass --image instead): %w", err)
	}
	return path, nil
}
