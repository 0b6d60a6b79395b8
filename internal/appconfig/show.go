package appconfig

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg *Config) {
	fallback := Default()
	if cfg == nil {
		cfg = &fallback
	}

	heading := lipgloss.NewRenderer(out).NewStyle().Bold(true)

	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, heading.Render("Current configuration:"))
	fmt.Fprintf(out, "  Debug:               %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Iterations:          %d\n", cfg.IterationCount())
	fmt.Fprintf(out, "  Backend:             %s\n", cfg.BackendName())
	if cfg.BackendName() == BackendBridge {
		if bin, err := cfg.BridgeBinaryPath(); err == nil {
			fmt.Fprintf(out, "  Bridge Binary:       %s\n", bin)
		}
		fmt.Fprintf(out, "  Bridge Init Timeout: %s\n", cfg.BridgeInitTimeoutDuration())
	}
	fmt.Fprintf(out, "  Metrics:             %v\n", cfg.Metrics)
	fmt.Fprintf(out, "  Export:              %s\n", cfg.ExportPath)
	fmt.Fprintf(out, "  Log File:            %s\n", cfg.LogFilePath())

	if cfg.Debug {
		fmt.Fprintln(out)
		pp.Fprintln(out, *cfg)
	}
}
