// internal/backend/backend.go
package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/mwiater/textbench/internal/appconfig"
	"github.com/mwiater/textbench/internal/bridge"
	"github.com/mwiater/textbench/internal/logging"
	"github.com/mwiater/textbench/internal/metrics"
	"github.com/mwiater/textbench/internal/textproc"
)

var startBridge = func(ctx context.Context, cfg *appconfig.Config) (textproc.Processor, io.Closer, error) {
	client, err := bridge.Start(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, client, nil
}

// Backend is the Processor selected by configuration, plus whatever must be
// released once the run is over.
type Backend struct {
	textproc.Processor
	// Name is the configured backend name.
	Name string
	// Metrics is non-nil when call metrics are enabled.
	Metrics *metrics.Aggregator
	closer  io.Closer
}

// Description returns a short label used in report banners.
func (b *Backend) Description() string {
	switch b.Name {
	case appconfig.BackendBridge:
		return "Go → bridge process → Go"
	default:
		return "in-process Go"
	}
}

// Close releases a spawned bridge process, if any.
func (b *Backend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// New selects and configures the Processor named by cfg.Backend and wraps it
// with metrics collection if enabled.
func New(ctx context.Context, cfg *appconfig.Config) (*Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to backend factory")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Backend{Name: cfg.BackendName()}
	switch b.Name {
	case appconfig.BackendBridge:
		proc, closer, err := startBridge(ctx, cfg)
		if err != nil {
			logging.LogEvent("bridge backend unavailable: %v", err)
			return nil, err
		}
		b.Processor = proc
		b.closer = closer
		logging.LogEvent("bridge backend ready")
	default:
		b.Processor = textproc.NewNative()
	}

	if cfg.Metrics {
		mp := metrics.NewProcessor(b.Processor, nil)
		b.Processor = mp
		b.Metrics = mp.Aggregator()
	}

	return b, nil
}
