// internal/metrics/provider.go
package metrics

import (
	"context"
	"time"

	"github.com/mwiater/textbench/internal/logging"
	"github.com/mwiater/textbench/internal/textproc"
)

// Processor is a decorator that wraps a textproc.Processor to record call metrics.
type Processor struct {
	wrapped    textproc.Processor
	aggregator *Aggregator
	now        func() time.Time
}

// NewProcessor creates a metrics-enabled processor that wraps an existing one.
func NewProcessor(wrapped textproc.Processor, aggregator *Aggregator) *Processor {
	logging.LogEvent("[METRICS] Wrapping processor with metrics processor")
	if aggregator == nil {
		aggregator = NewAggregator()
	}
	return &Processor{wrapped: wrapped, aggregator: aggregator, now: time.Now}
}

// Aggregator returns the aggregator receiving this processor's records.
func (p *Processor) Aggregator() *Aggregator {
	return p.aggregator
}

// ParseCSV times the wrapped ParseCSV call.
func (p *Processor) ParseCSV(ctx context.Context, text string) (string, error) {
	start := p.now()
	out, err := p.wrapped.ParseCSV(ctx, text)
	p.aggregator.Record(textproc.OpParseCSV, p.now().Sub(start), err)
	return out, err
}

// JoinWords times the wrapped JoinWords call.
func (p *Processor) JoinWords(ctx context.Context, words []string) (string, error) {
	start := p.now()
	out, err := p.wrapped.JoinWords(ctx, words)
	p.aggregator.Record(textproc.OpJoinWords, p.now().Sub(start), err)
	return out, err
}
