package bridge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/mwiater/textbench/internal/appconfig"
	"github.com/mwiater/textbench/internal/textproc"
)

// helperEnv makes the test binary act as a bridge child when Start spawns it.
const (
	helperEnv     = "TEXTBENCH_BRIDGE_HELPER"
	helperPIDFile = "TEXTBENCH_BRIDGE_HELPER_PIDFILE"
)

func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "":
		os.Exit(m.Run())
	case "serve":
		err := NewServer(textproc.NewNative(), "helper").Serve(context.Background(), os.Stdin, os.Stdout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	case "hang":
		if path := os.Getenv(helperPIDFile); path != "" {
			_ = os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
		}
		time.Sleep(time.Hour)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", os.Getenv(helperEnv))
		os.Exit(2)
	}
}

func helperConfig(t *testing.T, timeoutSeconds int) *appconfig.Config {
	t.Helper()
	return &appconfig.Config{
		LogFile:           filepath.Join(t.TempDir(), "bridge.log"),
		BridgeInitTimeout: timeoutSeconds,
	}
}

func TestStartRoundTripAndShutdown(t *testing.T) {
	t.Setenv(helperEnv, "serve")
	ctx := context.Background()

	client, err := Start(ctx, helperConfig(t, 5))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	want, err := textproc.NewNative().ParseCSV(ctx, sampleCSV)
	if err != nil {
		t.Fatalf("native ParseCSV: %v", err)
	}
	got, err := client.ParseCSV(ctx, sampleCSV)
	if err != nil {
		t.Fatalf("bridge ParseCSV: %v", err)
	}
	if got != want {
		t.Fatalf("bridge ParseCSV = %q, want %q", got, want)
	}
	joined, err := client.JoinWords(ctx, []string{"kiwi", "lemon"})
	if err != nil || joined != "kiwi, lemon" {
		t.Fatalf("bridge JoinWords = %q, %v", joined, err)
	}

	start := time.Now()
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if elapsed := time.Since(start); elapsed >= closeTimeout {
		t.Fatalf("child should exit on shutdown, Close took %s", elapsed)
	}
	if state := client.cmd.ProcessState; state == nil || state.ExitCode() != 0 {
		t.Fatalf("child did not exit cleanly: %v", state)
	}
	if _, err := client.ParseCSV(ctx, sampleCSV); err == nil {
		t.Fatal("expected error after Close")
	}
}

func TestStartKillsChildThatNeverAnswers(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	t.Setenv(helperEnv, "hang")
	t.Setenv(helperPIDFile, pidFile)

	start := time.Now()
	client, err := Start(context.Background(), helperConfig(t, 1))
	elapsed := time.Since(start)
	if err == nil {
		_ = client.Close()
		t.Fatal("expected initialize timeout")
	}
	if client != nil {
		t.Fatal("no client expected on failure")
	}
	if elapsed < time.Second {
		t.Fatalf("gave up before the init timeout: %s", elapsed)
	}
	if elapsed > time.Second+closeTimeout+5*time.Second {
		t.Fatalf("child was not killed promptly: %s", elapsed)
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		t.Fatalf("read child pid: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parse child pid: %v", err)
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return
	}
	if err := proc.Signal(syscall.Signal(0)); err == nil {
		t.Fatalf("child %d still running after Start failed", pid)
	}
}

func TestStartMissingBinary(t *testing.T) {
	cfg := helperConfig(t, 1)
	cfg.BridgeBinary = filepath.Join(t.TempDir(), "missing-bridge")

	client, err := Start(context.Background(), cfg)
	if err == nil {
		_ = client.Close()
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStartRequiresConfig(t *testing.T) {
	if _, err := Start(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
