// SPDX-License-Identifier: MIT

// Package config loads the application configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration, loaded from YAML.
type Config struct {
	Debug     bool            `yaml:"debug"`     // Verbose logging and debug features.
	LogLevel  string          `yaml:"log_level"` // "debug", "info", "warn", "error".
	Audio     AudioConfig     `yaml:"audio"`     // Capture settings.
	Analysis  AnalysisConfig  `yaml:"analysis"`  // Framing and windowing defaults.
	Tuner     TunerConfig     `yaml:"tuner"`     // Live tuner settings.
	Recording RecordingConfig `yaml:"recording"` // WAV recording settings.
	Transport TransportConfig `yaml:"transport"` // Outbound update stream.
}

// AudioConfig holds capture device settings.
type AudioConfig struct {
	InputDevice     int  `yaml:"input_device"`      // PortAudio device index (-1 for default).
	SampleRate      int  `yaml:"sample_rate"`       // Sample rate in Hz.
	FramesPerBuffer int  `yaml:"frames_per_buffer"` // Samples delivered per capture callback.
	LowLatency      bool `yaml:"low_latency"`       // Request low latency from the device.
}

// AnalysisConfig holds the default framing used by batch analysis and
// the live pipeline.
type AnalysisConfig struct {
	Window       string `yaml:"window"`        // "hann", "hamming", "blackman", "rectangular".
	WindowLength int    `yaml:"window_length"` // Frame length in samples.
	HopLength    int    `yaml:"hop_length"`    // Hop between frame starts in samples.
}

// TunerConfig holds pitch detection and tuning reference settings.
type TunerConfig struct {
	Instrument       string  `yaml:"instrument"`        // Built-in instrument table name ("" for none).
	ReferenceA4      float64 `yaml:"reference_a4"`      // A4 tuning reference in Hz.
	MinHz            float64 `yaml:"min_hz"`            // Lowest detectable fundamental.
	MaxHz            float64 `yaml:"max_hz"`            // Highest detectable fundamental.
	SilenceThreshold float64 `yaml:"silence_threshold"` // RMS below which frames are unvoiced.
	GateThreshold    float64 `yaml:"gate_threshold"`    // Peak amplitude below which analysis is skipped (0 disables).
}

// RecordingConfig holds WAV recording settings.
type RecordingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
}

// TransportConfig holds settings for the outbound WebSocket stream.
type TransportConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketPort    string        `yaml:"websocket_port"`
	MinSendInterval  time.Duration `yaml:"min_send_interval"` // Broadcast rate limit.
}

// Load reads configuration from the YAML file at path. An empty path
// falls back to "config.yaml" in the working directory, and built-in
// defaults when no file exists. Environment overrides apply after the
// file, and the final result is validated.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:     -1,
			SampleRate:      44100,
			FramesPerBuffer: 1024,
			LowLatency:      false,
		},
		Analysis: AnalysisConfig{
			Window:       "hann",
			WindowLength: 2048,
			HopLength:    512,
		},
		Tuner: TunerConfig{
			Instrument:       "",
			ReferenceA4:      440,
			MinHz:            50,
			MaxHz:            1000,
			SilenceThreshold: 0.001,
			GateThreshold:    0,
		},
		Recording: RecordingConfig{
			Enabled:   false,
			OutputDir: "./recordings",
		},
		Transport: TransportConfig{
			WebSocketEnabled: false,
			WebSocketPort:    "8080",
			MinSendInterval:  33 * time.Millisecond,
		},
	}
}

// Validate checks ranges and relationships the YAML schema cannot
// express.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate %d outside 8000-192000", c.Audio.SampleRate)
	}
	if c.Audio.FramesPerBuffer < 1 || c.Audio.FramesPerBuffer > 8192 {
		return fmt.Errorf("audio.frames_per_buffer %d outside 1-8192", c.Audio.FramesPerBuffer)
	}
	if c.Analysis.WindowLength < 2 {
		return fmt.Errorf("analysis.window_length %d must be at least 2", c.Analysis.WindowLength)
	}
	if c.Analysis.HopLength < 1 || c.Analysis.HopLength > c.Analysis.WindowLength {
		return fmt.Errorf("analysis.hop_length %d outside 1-%d", c.Analysis.HopLength, c.Analysis.WindowLength)
	}
	if c.Tuner.ReferenceA4 < 400 || c.Tuner.ReferenceA4 > 480 {
		return fmt.Errorf("tuner.reference_a4 %.1f outside 400-480", c.Tuner.ReferenceA4)
	}
	if c.Tuner.MinHz <= 0 || c.Tuner.MaxHz <= c.Tuner.MinHz {
		return fmt.Errorf("tuner pitch range %.1f-%.1f invalid", c.Tuner.MinHz, c.Tuner.MaxHz)
	}
	if c.Transport.WebSocketEnabled && c.Transport.WebSocketPort == "" {
		return fmt.Errorf("transport.websocket_port must be set when the stream is enabled")
	}
	return nil
}

func (cfg *Config) applyEnvOverrides() {
	// ENV_{...} overrides beat file values; useful in containers.

	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Debug = bVal
		}
	}
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok {
		cfg.LogLevel = val
	}
	if val, ok := os.LookupEnv("ENV_INPUT_DEVICE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			cfg.Audio.InputDevice = iVal
		}
	}
	if val, ok := os.LookupEnv("ENV_SAMPLE_RATE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			cfg.Audio.SampleRate = iVal
		}
	}
	if val, ok := os.LookupEnv("ENV_WEBSOCKET_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Transport.WebSocketEnabled = bVal
		}
	}
	if val, ok := os.LookupEnv("ENV_WEBSOCKET_PORT"); ok {
		cfg.Transport.WebSocketPort = val
	}
	if val, ok := os.LookupEnv("ENV_MIN_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			cfg.Transport.MinSendInterval = dur
		}
	}
}
