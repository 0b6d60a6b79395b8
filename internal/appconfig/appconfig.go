// internal/appconfig/appconfig.go
// Package appconfig holds the merged textbench configuration and its defaults.
package appconfig

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultIterations is the number of timed calls made per benchmark loop.
	DefaultIterations = 1000
	// defaultBridgeInitTimeout bounds the bridge initialize handshake.
	defaultBridgeInitTimeout = 10 * time.Second
	// defaultLogFile is used when no log file is configured.
	defaultLogFile = "textbench.log"
)

// Backend names accepted by the backend setting.
const (
	BackendNative = "native"
	BackendBridge = "bridge"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug             bool   `json:"debug" mapstructure:"debug"`
	Iterations        int    `json:"iterations" mapstructure:"iterations"`
	Backend           string `json:"backend" mapstructure:"backend"`
	BridgeBinary      string `json:"bridgeBinary,omitempty" mapstructure:"bridgeBinary"`
	BridgeInitTimeout int    `json:"bridgeInitTimeout,omitempty" mapstructure:"bridgeInitTimeout"`
	Metrics           bool   `json:"metrics" mapstructure:"metrics"`
	ExportPath        string `json:"export,omitempty" mapstructure:"export"`
	LogFile           string `json:"logFile,omitempty" mapstructure:"logFile"`
	ConfigPath        string `json:"-" mapstructure:"-"`
}

// Default returns the configuration used when neither flags nor a file set a value.
func Default() Config {
	return Config{
		Iterations: DefaultIterations,
		Backend:    BackendNative,
	}
}

// IterationCount returns the configured loop count, falling back to DefaultIterations.
func (c Config) IterationCount() int {
	if c.Iterations <= 0 {
		return DefaultIterations
	}
	return c.Iterations
}

// BackendName returns the normalized backend name.
func (c Config) BackendName() string {
	name := strings.ToLower(strings.TrimSpace(c.Backend))
	if name == "" {
		return BackendNative
	}
	return name
}

// BridgeInitTimeoutDuration returns how long the bridge handshake may take.
func (c Config) BridgeInitTimeoutDuration() time.Duration {
	if c.BridgeInitTimeout <= 0 {
		return defaultBridgeInitTimeout
	}
	return time.Duration(c.BridgeInitTimeout) * time.Second
}

// BridgeBinaryPath returns the binary spawned for the bridge backend. When
// unset, the running executable is reused.
func (c Config) BridgeBinaryPath() (string, error) {
	if b := strings.TrimSpace(c.BridgeBinary); b != "" {
		return b, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve bridge binary: %w", err)
	}
	return exe, nil
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// Validate reports settings that would make a run meaningless.
func (c Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("invalid configuration: iterations must be positive, got %d", c.Iterations)
	}
	switch c.BackendName() {
	case BackendNative, BackendBridge:
	default:
		return fmt.Errorf("invalid configuration: unknown backend %q (want %q or %q)", c.Backend, BackendNative, BackendBridge)
	}
	if c.BridgeInitTimeout < 0 {
		return fmt.Errorf("invalid configuration: bridgeInitTimeout must not be negative")
	}
	return nil
}
