// internal/commands/run.go
package textbench

import (
	"context"
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/mwiater/textbench/internal/appconfig"
	"github.com/mwiater/textbench/internal/backend"
	"github.com/mwiater/textbench/internal/benchmark"
	"github.com/mwiater/textbench/internal/logging"
	"github.com/spf13/cobra"
)

var (
	newBackend  = backend.New
	writeReport = benchmark.WriteReport
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Parse the sample CSV and join the sample words, timing repeated calls to each",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runBenchmark(ctx context.Context, out, errOut io.Writer, cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := newBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			logging.LogEvent("backend close: %v", err)
		}
	}()

	logging.LogEvent("run started: backend=%s iterations=%d", b.Name, cfg.IterationCount())

	driver := benchmark.NewDriver(out, b, cfg.IterationCount(), b.Description())
	driver.Metrics = b.Metrics
	report, err := driver.Run(ctx)
	if err != nil {
		logging.LogEvent("run failed: %v", err)
		return err
	}

	if cfg.Debug {
		pp.Fprintln(errOut, report)
	}

	if cfg.ExportPath != "" {
		if err := writeReport(cfg.ExportPath, report); err != nil {
			return err
		}
	}
	return nil
}
