package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fpang/paint-visualizer/internal/cli"
	"github.com/fpang/paint-visualizer/internal/config"
	"github.com/fpang/paint-visualizer/internal/imagedata"
	"github.com/fpang/paint-visualizer/internal/logging"
	"github.com/fpang/paint-visualizer/internal/metrics"
	"github.com/fpang/paint-visualizer/internal/repaint"
	"github.com/fpang/paint-visualizer/internal/session"
	"github.com/fpang/paint-visualizer/internal/web"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// CLI flags
var (
	portFlag         int
	hostFlag         string
	modelFlag        string
	envFileFlag      string
	historyLimitFlag int
	skipValidateFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "paint-web",
	Short: "Web UI for visualizing wall paint colours",
	Long: `Paint Web starts a local web server for the Wall Paint Visualizer. Upload a
photo of a room, pick a paint colour from the palette or a custom hex value,
and Gemini repaints the walls while keeping everything else unchanged.

Examples:
  paint-web
  paint-web --port 9090
  paint-web --model gemini-3-pro-image-preview
  paint-web --history-limit 20`,
	RunE: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on (overrides PAINT_PORT)")
	rootCmd.Flags().StringVar(&hostFlag, "host", "127.0.0.1", "Interface to bind (overrides PAINT_HOST)")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Gemini image model (default "+repaint.DefaultModelName+")")
	rootCmd.Flags().StringVar(&envFileFlag, "env-file", ".env", "Optional dotenv file to load before reading the environment")
	rootCmd.Flags().IntVar(&historyLimitFlag, "history-limit", 0, "Versions kept per session, 0 = unlimited (overrides PAINT_HISTORY_LIMIT)")
	rootCmd.Flags().BoolVar(&skipValidateFlag, "skip-validation", false, "Do not check the API key at startup")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) error {
	start := time.Now()
	logging.Init()

	cfg, err := config.Load(envFileFlag)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	logging.SetLevel(cfg.Log.Level)

	metrics.SetService("paint-web")
	if cfg.Metrics.Enabled {
		metrics.SetOutput(os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiKey := cli.InitAPIKey(ctx, cfg.Gemini.SkipValidation)

	gemini := repaint.NewGeminiClient(apiKey,
		repaint.WithModel(cfg.Gemini.Model),
		repaint.WithBaseURL(cfg.Gemini.BaseURL),
		repaint.WithTimeout(cfg.Gemini.Timeout),
	)

	sessions := session.NewManager(gemini, session.ManagerConfig{
		IdleTTL:      cfg.Session.IdleTTL,
		HistoryLimit: cfg.Session.HistoryLimit,
	})
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	server := web.New(sessions, web.Options{
		Ingest: imagedata.Options{
			MaxBytes:     cfg.Image.MaxUploadBytes,
			MaxDimension: cfg.Image.MaxDimension,
		},
		BaseContext: ctx,
		Model:       gemini.Model(),
	})

	addr := net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Graceful shutdown incomplete")
		}
	}()

	logging.NewStartupLogger("paint-web").
		Version(version).
		Listen(addr).
		Model(gemini.Model()).
		Feature("metrics", cfg.Metrics.Enabled).
		Feature("keyValidation", !cfg.Gemini.SkipValidation).
		Config("historyLimit", strconv.Itoa(cfg.Session.HistoryLimit)).
		Config("sessionIdleTTL", cfg.Session.IdleTTL.String()).
		Config("requestTimeout", cfg.Gemini.Timeout.String()).
		Config("maxUploadBytes", strconv.FormatInt(cfg.Image.MaxUploadBytes, 10)).
		Config("maxImageDimension", strconv.Itoa(cfg.Image.MaxDimension)).
		InitDuration(time.Since(start)).
		Log()

	fmt.Printf("\n  Wall Paint Visualizer: http://%s\n\n", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server failed")
		return err
	}
	return nil
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.HTTP.Port = portFlag
	}
	if flags.Changed("host") {
		cfg.HTTP.Host = hostFlag
	}
	if flags.Changed("model") {
		cfg.Gemini.Model = modelFlag
	}
	if flags.Changed("history-limit") {
		cfg.Session.HistoryLimit = historyLimitFlag
	}
	if flags.Changed("skip-validation") {
		cfg.Gemini.SkipValidation = skipValidateFlag
	}
}
