// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := Load("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoad_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
log_level: debug
audio:
  sample_rate: 48000
  frames_per_buffer: 2048
analysis:
  window: hamming
  window_length: 4096
  hop_length: 1024
tuner:
  instrument: guitar
  reference_a4: 442
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, expected debug", cfg.LogLevel)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("sample_rate = %d, expected 48000", cfg.Audio.SampleRate)
	}
	if cfg.Analysis.Window != "hamming" || cfg.Analysis.WindowLength != 4096 {
		t.Errorf("analysis = %+v, expected hamming/4096", cfg.Analysis)
	}
	if cfg.Tuner.ReferenceA4 != 442 {
		t.Errorf("reference_a4 = %.1f, expected 442", cfg.Tuner.ReferenceA4)
	}
	// Unset sections keep their defaults.
	if cfg.Transport.WebSocketPort != "8080" {
		t.Errorf("websocket_port = %q, expected default 8080", cfg.Transport.WebSocketPort)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		yaml string
	}{
		{"sample rate too low", "audio:\n  sample_rate: 4000\n"},
		{"hop above window", "analysis:\n  window_length: 512\n  hop_length: 1024\n"},
		{"reference out of range", "tuner:\n  reference_a4: 500\n"},
		{"inverted pitch range", "tuner:\n  min_hz: 800\n  max_hz: 100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, tt.yaml)
			if _, err := Load(path); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ENV_SAMPLE_RATE", "48000")
	t.Setenv("ENV_WEBSOCKET_PORT", "9090")
	t.Setenv("ENV_LOG_LEVEL", "warn")

	path := writeTempConfig(t, "audio:\n  sample_rate: 44100\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("env override lost: sample_rate = %d, expected 48000", cfg.Audio.SampleRate)
	}
	if cfg.Transport.WebSocketPort != "9090" {
		t.Errorf("env override lost: websocket_port = %q, expected 9090", cfg.Transport.WebSocketPort)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env override lost: log_level = %q, expected warn", cfg.LogLevel)
	}
}
