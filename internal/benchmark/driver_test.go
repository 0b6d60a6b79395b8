package benchmark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/textbench/internal/metrics"
	"github.com/mwiater/textbench/internal/textproc"
)

// countingProcessor records every call and checks the arguments it receives.
type countingProcessor struct {
	parseResult string
	joinResult  string

	parseCalls int
	joinCalls  int
	parseErrAt int
	joinErrAt  int

	unexpectedCSV   int
	unexpectedWords int
}

func (p *countingProcessor) ParseCSV(_ context.Context, text string) (string, error) {
	p.parseCalls++
	if text != SampleCSV {
		p.unexpectedCSV++
	}
	if p.parseErrAt > 0 && p.parseCalls == p.parseErrAt {
		return "", errors.New("malformed csv")
	}
	return p.parseResult, nil
}

func (p *countingProcessor) JoinWords(_ context.Context, words []string) (string, error) {
	p.joinCalls++
	if !slices.Equal(words, SampleWords()) {
		p.unexpectedWords++
	}
	if p.joinErrAt > 0 && p.joinCalls == p.joinErrAt {
		return "", errors.New("unsupported input")
	}
	return p.joinResult, nil
}

func newTestDriver(out *bytes.Buffer, proc textproc.Processor, iterations int) *Driver {
	d := NewDriver(out, proc, iterations, "stub")
	d.Clock = steppingClock(2 * time.Second)
	return d
}

func TestSampleInputs(t *testing.T) {
	words := SampleWords()
	if len(words) != 11 || words[0] != "apple" || words[10] != "mango" {
		t.Fatalf("unexpected word list: %v", words)
	}
	records, err := textproc.ParseRecords(SampleCSV)
	if err != nil {
		t.Fatalf("sample csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus three rows, got %d", len(records))
	}
}

func TestRunInvokesEachOperationIterationsTimes(t *testing.T) {
	proc := &countingProcessor{parseResult: "OK", joinResult: "joined"}
	var out bytes.Buffer

	report, err := newTestDriver(&out, proc, 1000).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// one warm-up call precedes each timed loop
	if proc.parseCalls != 1001 {
		t.Fatalf("ParseCSV calls = %d, want 1001", proc.parseCalls)
	}
	if proc.joinCalls != 1001 {
		t.Fatalf("JoinWords calls = %d, want 1001", proc.joinCalls)
	}
	if proc.unexpectedCSV != 0 || proc.unexpectedWords != 0 {
		t.Fatalf("unexpected arguments: csv=%d words=%d", proc.unexpectedCSV, proc.unexpectedWords)
	}

	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %+v", report.Results)
	}
	for _, r := range report.Results {
		if r.Sample.Iterations != 1000 {
			t.Fatalf("%s iterations = %d", r.Operation, r.Sample.Iterations)
		}
		if r.ElapsedSeconds != 2 || r.OpsPerSecond != 500 {
			t.Fatalf("%s elapsed/ops = %v/%v", r.Operation, r.ElapsedSeconds, r.OpsPerSecond)
		}
	}
	if report.Results[0].Operation != textproc.OpParseCSV || report.Results[1].Operation != textproc.OpJoinWords {
		t.Fatalf("results out of order: %+v", report.Results)
	}
}

func TestRunOutputOrder(t *testing.T) {
	proc := &countingProcessor{parseResult: "OK", joinResult: "apple,banana,..."}
	var out bytes.Buffer

	if _, err := newTestDriver(&out, proc, 1000).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()

	if n := strings.Count(text, "OK"); n != 1 {
		t.Fatalf("expected OK once, got %d:\n%s", n, text)
	}
	if n := strings.Count(text, "apple,banana,..."); n != 1 {
		t.Fatalf("expected join result once, got %d:\n%s", n, text)
	}
	if n := strings.Count(text, "Operations/sec:"); n != 2 {
		t.Fatalf("expected two throughput lines, got %d:\n%s", n, text)
	}
	if n := strings.Count(text, "Running 1,000 iterations..."); n != 2 {
		t.Fatalf("expected two iteration announcements, got %d:\n%s", n, text)
	}

	ok := strings.Index(text, "OK")
	firstOps := strings.Index(text, "Operations/sec:")
	joined := strings.Index(text, "apple,banana,...")
	lastOps := strings.LastIndex(text, "Operations/sec:")
	if !(ok < firstOps && firstOps < joined && joined < lastOps) {
		t.Fatalf("output out of order:\n%s", text)
	}

	if !strings.Contains(text, "Completed in 2.00 seconds") || !strings.Contains(text, "Operations/sec: 500") {
		t.Fatalf("expected timing report from stepping clock:\n%s", text)
	}
	if !strings.HasPrefix(text, "Hello from textbench!") {
		t.Fatalf("expected greeting first:\n%s", text)
	}
	if !strings.Contains(text, "complete.") {
		t.Fatalf("expected closing banner:\n%s", text)
	}
}

func TestRunStopsOnParseError(t *testing.T) {
	proc := &countingProcessor{parseResult: "OK", joinResult: "joined", parseErrAt: 3}
	var out bytes.Buffer

	_, err := newTestDriver(&out, proc, 10).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "iteration 2") {
		t.Fatalf("expected failing iteration in error, got %v", err)
	}
	if proc.joinCalls != 0 {
		t.Fatalf("join ran after parse failure: %d calls", proc.joinCalls)
	}
	if strings.Contains(out.String(), "Operations/sec:") {
		t.Fatalf("no throughput should be reported:\n%s", out.String())
	}
}

func TestRunStopsOnWarmUpErrors(t *testing.T) {
	proc := &countingProcessor{parseErrAt: 1}
	if _, err := newTestDriver(&bytes.Buffer{}, proc, 5).Run(context.Background()); err == nil || proc.parseCalls != 1 {
		t.Fatalf("expected immediate failure, err=%v calls=%d", err, proc.parseCalls)
	}

	proc = &countingProcessor{joinErrAt: 1}
	var out bytes.Buffer
	if _, err := newTestDriver(&out, proc, 5).Run(context.Background()); err == nil {
		t.Fatal("expected join failure")
	}
	if n := strings.Count(out.String(), "Operations/sec:"); n != 1 {
		t.Fatalf("expected only the csv throughput line, got %d", n)
	}
}

func TestRunValidatesDriver(t *testing.T) {
	if _, err := NewDriver(nil, nil, 10, "").Run(context.Background()); err == nil {
		t.Fatal("expected error for nil processor")
	}
	if _, err := NewDriver(nil, &countingProcessor{}, 0, "").Run(context.Background()); err == nil {
		t.Fatal("expected error for zero iterations")
	}
}

func TestRunWithNativeProcessor(t *testing.T) {
	var out bytes.Buffer
	d := NewDriver(&out, textproc.NewNative(), 25, "in-process Go")
	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Headers: Name | Age | City",
		"Row 3: Charlie | 35 | Chicago",
		"apple, banana, cherry, date, elderberry, fig, grape, honeydew, kiwi, lemon, mango",
		"Running 25 iterations...",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output:\n%s", want, text)
		}
	}
}

func TestRunReportsMetrics(t *testing.T) {
	agg := metrics.NewAggregator()
	proc := metrics.NewProcessor(&countingProcessor{parseResult: "OK", joinResult: "j"}, agg)

	var out bytes.Buffer
	d := newTestDriver(&out, proc, 40)
	d.Metrics = agg
	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Operations) != 2 {
		t.Fatalf("expected 2 operation stats, got %+v", report.Operations)
	}
	for _, op := range report.Operations {
		if op.Calls != 41 {
			t.Fatalf("%s calls = %d, want 41", op.Operation, op.Calls)
		}
	}
	if !strings.Contains(out.String(), "Per-call latency") {
		t.Fatalf("expected latency section:\n%s", out.String())
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	start := time.Unix(0, 0)
	report := Report{
		Backend:    "in-process Go",
		Iterations: 1000,
		Results:    []Result{newResult(textproc.OpParseCSV, Sample{Start: start, End: start.Add(time.Second), Iterations: 1000})},
	}
	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if decoded.Backend != "in-process Go" || len(decoded.Results) != 1 || decoded.Results[0].OpsPerSecond != 1000 {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
}
