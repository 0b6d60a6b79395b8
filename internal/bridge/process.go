package bridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mwiater/textbench/internal/appconfig"
	"github.com/mwiater/textbench/internal/logging"
)

// ServeArgs are the arguments that make a textbench binary act as a bridge server.
var ServeArgs = []string{"bridge", "serve"}

// Start spawns the bridge server process and performs the initialize handshake.
func Start(ctx context.Context, cfg *appconfig.Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bridge requires non-nil config")
	}

	binary, err := cfg.BridgeBinaryPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(binary); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.LogEvent("bridge start aborted: binary %q missing", binary)
			return nil, fmt.Errorf("bridge binary not found at %q", binary)
		}
		logging.LogEvent("bridge start aborted: binary %q not accessible (%v)", binary, err)
		return nil, fmt.Errorf("bridge binary %q not accessible: %w", binary, err)
	}

	cmd := exec.CommandContext(ctx, binary, serveArgs(cfg)...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		logging.LogEvent("bridge server failed to start: %v", err)
		return nil, fmt.Errorf("start bridge server: %w", err)
	}

	client := NewClient(stdout, stdin)
	client.cmd = cmd
	client.peer = fmt.Sprintf("%s[%d]", serverName, cmd.Process.Pid)

	initCtx, cancel := context.WithTimeout(ctx, cfg.BridgeInitTimeoutDuration())
	defer cancel()

	info, err := client.Initialize(initCtx)
	if err != nil {
		logging.LogEvent("bridge initialization failed: %v", err)
		_ = client.Close()
		return nil, err
	}

	logging.LogEvent("bridge server started: binary=%s pid=%d server=%s/%s", binary, cmd.Process.Pid, info.Name, info.Version)
	return client, nil
}

// serveArgs builds the child command line, forwarding the settings the
// child needs to log alongside the parent.
func serveArgs(cfg *appconfig.Config) []string {
	args := append([]string{}, ServeArgs...)
	if cfg.ConfigPath != "" {
		args = append(args, "--config", cfg.ConfigPath)
	}
	args = append(args, "--logFile", cfg.LogFilePath())
	if cfg.Debug {
		args = append(args, "--debug")
	}
	return args
}
