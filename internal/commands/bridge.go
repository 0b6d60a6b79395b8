// internal/commands/bridge.go
package textbench

import (
	"github.com/mwiater/textbench/internal/bridge"
	"github.com/mwiater/textbench/internal/logging"
	"github.com/mwiater/textbench/internal/textproc"
	"github.com/spf13/cobra"
)

// bridgeCmd groups the commands used by the bridge backend.
var bridgeCmd = &cobra.Command{
	Use:    "bridge",
	Short:  "Bridge helper commands",
	Hidden: true,
}

// bridgeServeCmd serves the text-processing capability over stdio.
var bridgeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve parse and join requests as JSON-RPC over stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.LogEvent("bridge server listening on stdio")
		server := bridge.NewServer(textproc.NewNative(), appVersion)
		return server.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.AddCommand(bridgeServeCmd)
}
