// cmd/textbench/main.go
package main

import (
	cmd "github.com/mwiater/textbench/internal/commands"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main injects build metadata and hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
