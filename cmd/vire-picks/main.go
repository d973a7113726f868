package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bobmcallan/vire-picks/internal/app"
	"github.com/bobmcallan/vire-picks/internal/common"
	"github.com/bobmcallan/vire-picks/internal/config"
	"github.com/bobmcallan/vire-picks/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string {
	return strings.Join(*c, ",")
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

const shutdownGrace = 10 * time.Second

var (
	configFiles configPaths
	envFile     = flag.String("env", ".env", "Dotenv file loaded before VIRE_* overrides")
	serverPort  = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP = flag.Int("p", 0, "Server port (shorthand)")
	serverHost  = flag.String("host", "", "Server host (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	config.LoadVersionFromFile()
	if *showVersion {
		fmt.Printf("vire-picks version %s\n", config.GetFullVersion())
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		common.NewDefaultLogger().Error().Err(err).Msg("failed to load configuration")
		return 1
	}
	if issues := cfg.Validate(); len(issues) > 0 {
		printIssues(issues)
		return 1
	}

	logger := setupLogger(cfg)
	logger.Info().
		Str("listen", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))).
		Str("environment", cfg.Environment).
		Str("config_files", strings.Join(configFiles, ",")).
		Str("snapshot", cfg.Data.SnapshotPath).
		Str("equity", cfg.Data.EquityPath).
		Str("version", config.GetFullVersion()).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize application")
		return 1
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error().Err(err).Msg("application shutdown failed")
		}
	}()

	if err := serve(server.New(application), logger, cfg.BaseURL()); err != nil {
		logger.Error().Err(err).Msg("server failed")
		return 1
	}
	logger.Info().Msg("server stopped")
	return 0
}

// loadConfig layers .env, the discovered or named TOML files, VIRE_*
// variables and finally the command-line flags.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(*envFile); err != nil {
		return nil, fmt.Errorf("env file %s: %w", *envFile, err)
	}

	if len(configFiles) == 0 {
		if path, ok := firstExisting(configSearchPaths()); ok {
			configFiles = append(configFiles, path)
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		return nil, err
	}

	port := *serverPort
	if *serverPortP != 0 {
		port = *serverPortP
	}
	config.ApplyFlagOverrides(cfg, port, *serverHost)
	return cfg, nil
}

func printIssues(issues []string) {
	var b strings.Builder
	b.WriteString("\nConfiguration error:\n\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "  - %s\n", issue)
	}
	b.WriteString("\nSet values in vire-picks.toml, VIRE_* environment variables, or CLI flags.\n")
	fmt.Fprint(os.Stderr, b.String())
}

// serve runs srv until it fails or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to shutdownGrace.
func serve(srv *server.Server, logger *common.Logger, url string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	logger.Info().Str("url", url).Msg("dashboard ready")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func firstExisting(paths []string) (string, bool) {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, then the working directory.
func configSearchPaths() []string {
	candidates := []string{
		"vire-picks.toml",
		"config/vire-picks.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "vire-picks.toml"),
		filepath.Join(binDir, "config", "vire-picks.toml"),
	}
	return dedupePaths(append(paths, candidates...))
}

// dedupePaths drops entries that resolve to an absolute path already seen.
func dedupePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

// setupLogger creates an arbor logger based on config.
func setupLogger(cfg *config.Config) *common.Logger {
	return common.NewLoggerFromConfig(common.LoggingConfig{
		Level:      cfg.Logging.Level,
		Outputs:    cfg.Logging.Outputs,
		FilePath:   cfg.Logging.FilePath,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}
