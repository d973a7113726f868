package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Data        DataConfig    `toml:"data"`
	Page        PageConfig    `toml:"page"`
	Widget      WidgetConfig  `toml:"widget"`
	Chart       ChartConfig   `toml:"chart"`
	Support     SupportConfig `toml:"support"`
	MCP         MCPConfig     `toml:"mcp"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// DataConfig locates the two input documents.
type DataConfig struct {
	SnapshotPath string `toml:"snapshot_path"`
	EquityPath   string `toml:"equity_path"`
	Cache        bool   `toml:"cache"`
	CacheEntries int    `toml:"cache_entries"`
}

// PageConfig is the process-wide page setup (title, icon, layout).
type PageConfig struct {
	Title  string `toml:"title"`
	Icon   string `toml:"icon"`
	Layout string `toml:"layout"`
}

// WidgetConfig holds the TradingView display options.
type WidgetConfig struct {
	ScriptURL         string `toml:"script_url"`
	Height            int    `toml:"height"`
	FrameHeight       int    `toml:"frame_height"`
	Interval          string `toml:"interval"`
	Timezone          string `toml:"timezone"`
	Theme             string `toml:"theme"`
	Style             string `toml:"style"`
	Locale            string `toml:"locale"`
	ToolbarBg         string `toml:"toolbar_bg"`
	AllowSymbolChange bool   `toml:"allow_symbol_change"`
}

// ChartConfig holds the client-side charting library location.
type ChartConfig struct {
	PlotlyURL string `toml:"plotly_url"`
}

// SupportConfig holds the payment QR image locations.
type SupportConfig struct {
	WeChatQRURL string `toml:"wechat_qr_url"`
	AlipayQRURL string `toml:"alipay_qr_url"`
}

// MCPConfig toggles the /mcp endpoint.
type MCPConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode reports whether the environment is "dev".
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// BaseURL returns the server's own base URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

// Validate returns a list of human-readable problems with mandatory fields.
func (c *Config) Validate() []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if strings.TrimSpace(c.Data.SnapshotPath) == "" {
		issues = append(issues, "data.snapshot_path is required (VIRE_SNAPSHOT_PATH)")
	}
	if strings.TrimSpace(c.Data.EquityPath) == "" {
		issues = append(issues, "data.equity_path is required (VIRE_EQUITY_PATH)")
	}
	if c.Data.Cache && c.Data.CacheEntries <= 0 {
		issues = append(issues, "data.cache_entries must be positive when data.cache is enabled")
	}
	if c.Widget.Height <= 0 {
		issues = append(issues, "widget.height must be positive")
	}
	return issues
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files (default ".env")
// into the process environment. Variables that are already set win.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides applies VIRE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VIRE_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("VIRE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VIRE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if path := os.Getenv("VIRE_SNAPSHOT_PATH"); path != "" {
		config.Data.SnapshotPath = path
	}
	if path := os.Getenv("VIRE_EQUITY_PATH"); path != "" {
		config.Data.EquityPath = path
	}
	if cache := os.Getenv("VIRE_DATA_CACHE"); cache != "" {
		if b, err := strconv.ParseBool(cache); err == nil {
			config.Data.Cache = b
		}
	}
	if enabled := os.Getenv("VIRE_MCP_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.MCP.Enabled = b
		}
	}
	if level := os.Getenv("VIRE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("VIRE_LOG_OUTPUTS"); outputs != "" {
		var list []string
		for _, o := range strings.Split(outputs, ",") {
			if o = strings.TrimSpace(o); o != "" {
				list = append(list, o)
			}
		}
		config.Logging.Outputs = list
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
