// Package benchmark drives the CSV and word-join demonstration against a
// text-processing backend and times repeated calls to it.
package benchmark

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/mwiater/textbench/internal/logging"
	"github.com/mwiater/textbench/internal/metrics"
	"github.com/mwiater/textbench/internal/textproc"
)

const ruleWidth = 50

// SampleCSV is the fixed CSV input: a header row and three data rows.
const SampleCSV = `Name,Age,City
Alice,30,New York
Bob,25,Los Angeles
Charlie,35,Chicago`

// SampleWords returns the fixed word list, in order.
func SampleWords() []string {
	return []string{"apple", "banana", "cherry", "date", "elderberry", "fig", "grape", "honeydew", "kiwi", "lemon", "mango"}
}

// Driver runs the demonstration script against a Processor.
type Driver struct {
	Out        io.Writer
	Processor  textproc.Processor
	Iterations int
	// Label names the backend in banners, e.g. "in-process Go".
	Label string
	// Metrics, when set, is reported after the timed loops.
	Metrics *metrics.Aggregator

	CSV   string
	Words []string
	Clock func() time.Time
}

// NewDriver returns a Driver using the sample inputs.
func NewDriver(out io.Writer, proc textproc.Processor, iterations int, label string) *Driver {
	return &Driver{
		Out:        out,
		Processor:  proc,
		Iterations: iterations,
		Label:      label,
		CSV:        SampleCSV,
		Words:      SampleWords(),
		Clock:      time.Now,
	}
}

// Run prints the greeting, one parse result, a timed parse loop, one join
// result and a timed join loop, in that order. The first capability error
// stops the run.
func (d *Driver) Run(ctx context.Context) (Report, error) {
	if d.Processor == nil {
		return Report{}, fmt.Errorf("benchmark driver requires a processor")
	}
	if d.Iterations <= 0 {
		return Report{}, fmt.Errorf("iterations must be positive, got %d", d.Iterations)
	}

	out := d.Out
	if out == nil {
		out = io.Discard
	}
	title := lipgloss.NewRenderer(out).NewStyle().Bold(true)
	success := color.New(color.FgGreen)
	label := d.Label
	if label == "" {
		label = "textbench"
	}

	report := Report{Backend: label, Iterations: d.Iterations}

	fmt.Fprintln(out, title.Render("Hello from textbench! in Go 🐹"))
	fmt.Fprintln(out, rule("="))

	fmt.Fprintf(out, "Parsing CSV data via %s:\n", label)
	fmt.Fprintln(out, rule("-"))
	parsed, err := d.Processor.ParseCSV(ctx, d.CSV)
	if err != nil {
		return report, fmt.Errorf("parse csv: %w", err)
	}
	fmt.Fprintln(out, parsed)
	fmt.Fprintln(out, rule("="))
	success.Fprintf(out, "🎉 %s integration complete!\n", label)

	fmt.Fprintln(out)
	fmt.Fprintln(out, rule("="))
	fmt.Fprintln(out, title.Render(fmt.Sprintf("⏱️  Benchmarking CSV parsing via %s...", label)))
	fmt.Fprintf(out, "Running %s iterations...\n", FormatCount(d.Iterations))
	logging.LogEvent("benchmarking %s for %d iterations via %s", textproc.OpParseCSV, d.Iterations, label)

	csvSample, err := d.timeLoop(ctx, func(ctx context.Context) error {
		_, err := d.Processor.ParseCSV(ctx, d.CSV)
		return err
	})
	if err != nil {
		return report, fmt.Errorf("benchmark parse csv: %w", err)
	}
	report.Results = append(report.Results, newResult(textproc.OpParseCSV, csvSample))
	d.printSample(out, csvSample)
	fmt.Fprintln(out, rule("="))

	fmt.Fprintln(out)
	fmt.Fprintln(out, rule("="))
	fmt.Fprintln(out, title.Render(fmt.Sprintf("⏱️  Benchmarking []string → join → string via %s...", label)))
	fmt.Fprintf(out, "Running %s iterations...\n", FormatCount(d.Iterations))

	joined, err := d.Processor.JoinWords(ctx, d.Words)
	if err != nil {
		return report, fmt.Errorf("join words: %w", err)
	}
	fmt.Fprintln(out, joined)
	logging.LogEvent("benchmarking %s for %d iterations via %s", textproc.OpJoinWords, d.Iterations, label)

	joinSample, err := d.timeLoop(ctx, func(ctx context.Context) error {
		_, err := d.Processor.JoinWords(ctx, d.Words)
		return err
	})
	if err != nil {
		return report, fmt.Errorf("benchmark join words: %w", err)
	}
	report.Results = append(report.Results, newResult(textproc.OpJoinWords, joinSample))
	d.printSample(out, joinSample)
	fmt.Fprintln(out, rule("="))

	if d.Metrics != nil {
		report.Operations = d.Metrics.Snapshot()
		printOperations(out, title, report.Operations)
	}

	fmt.Fprintln(out)
	success.Fprintf(out, "🏁 Benchmark run via %s complete.\n", label)
	return report, nil
}

// timeLoop calls op Iterations times between two clock reads.
func (d *Driver) timeLoop(ctx context.Context, op func(context.Context) error) (Sample, error) {
	sw := StartStopwatch(d.Clock)
	for i := 0; i < d.Iterations; i++ {
		if err := op(ctx); err != nil {
			return Sample{}, fmt.Errorf("iteration %d: %w", i+1, err)
		}
	}
	return sw.Stop(d.Iterations), nil
}

func (d *Driver) printSample(out io.Writer, s Sample) {
	fmt.Fprintf(out, "Completed in %s seconds\n", FormatSeconds(s.Elapsed()))
	fmt.Fprintf(out, "Operations/sec: %s\n", FormatOps(s.Throughput()))
	logging.LogEvent("loop complete: iterations=%d elapsed=%s ops/sec=%.0f", s.Iterations, s.Elapsed(), s.Throughput())
}

func printOperations(out io.Writer, title lipgloss.Style, ops []metrics.OperationStats) {
	if len(ops) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule("="))
	fmt.Fprintln(out, title.Render("📈 Per-call latency"))
	for _, op := range ops {
		fmt.Fprintf(out, "%s: %s calls, %s errors, mean %s (min %s, max %s, stddev %s)\n",
			op.Operation,
			printer.Sprintf("%d", op.Calls),
			printer.Sprintf("%d", op.Errors),
			formatMicros(op.LatencyMicros.Mean),
			formatMicros(op.LatencyMicros.Min),
			formatMicros(op.LatencyMicros.Max),
			formatMicros(op.LatencyMicros.StdDev()),
		)
	}
	fmt.Fprintln(out, rule("="))
}
