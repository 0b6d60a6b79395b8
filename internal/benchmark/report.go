package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/textbench/internal/logging"
	"github.com/mwiater/textbench/internal/metrics"
)

// Report collects the outcome of one driver run.
type Report struct {
	Backend    string                   `json:"backend"`
	Iterations int                      `json:"iterations"`
	Results    []Result                 `json:"results"`
	Operations []metrics.OperationStats `json:"operations,omitempty"`
}

// Result is one timed loop with its derived values.
type Result struct {
	Operation      string  `json:"operation"`
	Sample         Sample  `json:"sample"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
	OpsPerSecond   float64 `json:"opsPerSecond"`
}

func newResult(op string, s Sample) Result {
	return Result{
		Operation:      op,
		Sample:         s,
		ElapsedSeconds: s.Elapsed().Seconds(),
		OpsPerSecond:   s.Throughput(),
	}
}

// WriteReport writes the report to path as indented JSON, creating parent
// directories as needed.
func WriteReport(path string, report Report) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("error writing report to file: %w", err)
	}

	logging.LogEvent("Benchmark report written to %s", path)
	return nil
}
