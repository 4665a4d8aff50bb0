package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"station-scraper/bot"
	"station-scraper/config"
	"station-scraper/converter"
	"station-scraper/fetcher"
	"station-scraper/logging"
	"station-scraper/server"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "station-scraper",
	Short:         "Converts danskejernbaner.dk station pages to Wikidata QuickStatements.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errConversionFailed marks runs whose error line was already printed
var errConversionFailed = errors.New("conversion failed")

var stationCmd = &cobra.Command{
	Use:   "station <url>",
	Short: "Converts a single station page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), converter.Request{StationURL: args[0]})
	},
}

var lineItem string

var lineCmd = &cobra.Command{
	Use:   "line <url> [--lineq Q123]",
	Short: "Converts every station linked from a line page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd.Context(), converter.Request{LineURL: args[0], LineID: lineItem})
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [--addr :8080]",
	Short: "Serves conversions over HTTP at /convert?lineurl=&lineq=&stationurl=",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		addr := a.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		return server.Run(cmd.Context(), addr, server.NewRouter(a.conv))
	},
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Runs the Telegram bot (token in STATION_BOT_TOKEN).",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := strings.TrimSpace(os.Getenv("STATION_BOT_TOKEN"))
		if token == "" {
			return errors.New("STATION_BOT_TOKEN environment variable is not set")
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		b, err := bot.New(token, a.conv, a.cfg.Telegram)
		if err != nil {
			return err
		}
		return b.Run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	lineCmd.Flags().StringVar(&lineItem, "lineq", "", "Wikidata item of the line, e.g. Q115408461")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")

	rootCmd.AddCommand(stationCmd, lineCmd, serveCmd, botCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errConversionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	fetcher fetcher.ClosableFetcher
	conv    *converter.Converter
}

func (a *app) close() {
	if err := a.fetcher.Close(); err != nil {
		slog.Warn("failed to close fetcher", "err", err)
	}
}

// setup loads configuration and wires logger, fetcher and converter
func setup() (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	f, err := fetcher.New(cfg.Fetch)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	conv, err := converter.New(f, cfg)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &app{cfg: cfg, fetcher: f, conv: conv}, nil
}

// loadConfig loads configuration from file or returns defaults when the file does not exist
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.LoadConfig(path)
}

// runOnce prints one conversion to stdout; an "Error: ..." result exits non-zero
func runOnce(ctx context.Context, req converter.Request) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	result := a.conv.Convert(ctx, req)
	fmt.Print(result)
	if strings.HasPrefix(result, "Error: ") {
		fmt.Println()
		return errConversionFailed
	}
	return nil
}
