package common

import (
	"bytes"
	"os"
	"testing"
)

func TestNewLoggerFromConfig_DefaultsToConsole(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	// Must not panic
	logger.Info().Str("snapshot", "today.json").Msg("loaded")
	logger.Debug().Int("picks", 10).Msg("debug")
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	logger.Info().Str("key", "value").Msg("should be discarded")
	logger.Error().Err(nil).Msg("should be discarded")
}

func TestNewLogger_DoesNotWriteToStdout(t *testing.T) {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLoggerFromConfig(LoggingConfig{Level: "info", Outputs: []string{"console"}})
	logger.Info().Msg("this must go to stderr")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewSilentLogger()
	correlated := logger.WithCorrelationId("req-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance")
	}
}

func TestFileWriterConfig_Defaults(t *testing.T) {
	wc := fileWriterConfig(LoggingConfig{})
	if wc.FileName != defaultLogFile {
		t.Errorf("expected file %q, got %q", defaultLogFile, wc.FileName)
	}
	if wc.MaxSize != defaultLogSize {
		t.Errorf("expected max size %d, got %d", defaultLogSize, wc.MaxSize)
	}
	if wc.MaxBackups != defaultLogBackups {
		t.Errorf("expected %d backups, got %d", defaultLogBackups, wc.MaxBackups)
	}
}

func TestFileWriterConfig_UsesConfiguredValues(t *testing.T) {
	wc := fileWriterConfig(LoggingConfig{FilePath: "/tmp/picks.log", MaxSizeMB: 2, MaxBackups: 3})
	if wc.FileName != "/tmp/picks.log" {
		t.Errorf("expected /tmp/picks.log, got %q", wc.FileName)
	}
	if wc.MaxSize != 2*1024*1024 {
		t.Errorf("expected 2MB, got %d", wc.MaxSize)
	}
	if wc.MaxBackups != 3 {
		t.Errorf("expected 3 backups, got %d", wc.MaxBackups)
	}
}
