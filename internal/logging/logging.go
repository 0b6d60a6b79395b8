package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger(io.Discard, false)
)

func newLogger(w io.Writer, debug bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "textbench",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return l
}

// Init routes log output to logPath and, when debug is set, to stderr as
// well. Stdout is left alone since it carries the benchmark report.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if debug {
		writers = append(writers, os.Stderr)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		logger = newLogger(io.Discard, debug)
		return nil
	}
	logger = newLogger(io.MultiWriter(writers...), debug)
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(io.Discard, false)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func LogEvent(format string, args ...any) {
	current().Infof(format, args...)
}

func LogDebug(format string, args ...any) {
	current().Debugf(format, args...)
}

// LogRequest records one bridge frame at debug level.
func LogRequest(direction, peer, method string, payload any) {
	current().Debug(buildRequestMessage(direction, peer, method, payload))
}

func buildRequestMessage(direction, peer, method string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	peerValue := strings.TrimSpace(peer)
	if peerValue == "" {
		peerValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("peer=%s", peerValue))
	if method = strings.TrimSpace(method); method != "" {
		parts = append(parts, fmt.Sprintf("method=%s", method))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
