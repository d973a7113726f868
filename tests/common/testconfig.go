package common

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// TestConfig is read from tests/ui/test_config.toml.
type TestConfig struct {
	Results ResultsConfig `toml:"results"`
	Server  ServerConfig  `toml:"server"`
	Browser BrowserFile   `toml:"browser"`
}

type ResultsConfig struct {
	Dir string `toml:"dir"`
}

type ServerConfig struct {
	URL string `toml:"url"`
}

type BrowserFile struct {
	Headless    bool `toml:"headless"`
	TimeoutSecs int  `toml:"timeout_seconds"`
}

var testConfigFiles = []string{"tests/ui/test_config.toml", "test_config.toml"}

var (
	loadConfig = sync.OnceValue(readTestConfig)
	resultsDir = sync.OnceValue(makeResultsDir)
)

func defaultTestConfig() *TestConfig {
	return &TestConfig{
		Results: ResultsConfig{Dir: "tests/results"},
		Server:  ServerConfig{URL: "http://localhost:8501"},
		Browser: BrowserFile{Headless: true, TimeoutSecs: 30},
	}
}

// readTestConfig applies the first readable config file over the defaults.
// VIRE_TEST_HEADLESS overrides the browser mode.
func readTestConfig() *TestConfig {
	cfg := defaultTestConfig()
	for _, path := range testConfigFiles {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if toml.Unmarshal(raw, cfg) == nil {
			break
		}
	}
	if v, err := strconv.ParseBool(os.Getenv("VIRE_TEST_HEADLESS")); err == nil {
		cfg.Browser.Headless = v
	}
	return cfg
}

// LoadTestConfig returns the process-wide test configuration.
func LoadTestConfig() *TestConfig {
	return loadConfig()
}

func makeResultsDir() string {
	base := LoadTestConfig().Results.Dir
	if !filepath.IsAbs(base) {
		base = filepath.Join(FindProjectRoot(), base)
	}
	dir := filepath.Join(base, time.Now().Format("2006-01-02-15-04-05"))
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// GetResultsDir returns where screenshots and container logs go for this run.
// VIRE_TEST_RESULTS_DIR replaces the timestamped default.
func GetResultsDir() string {
	if dir := os.Getenv("VIRE_TEST_RESULTS_DIR"); dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return dir
	}
	return resultsDir()
}

// GetTestURL returns VIRE_TEST_URL, falling back to the configured server.
func GetTestURL() string {
	if url := os.Getenv("VIRE_TEST_URL"); url != "" {
		return url
	}
	return LoadTestConfig().Server.URL
}
