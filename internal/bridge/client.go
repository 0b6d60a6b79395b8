package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mwiater/textbench/internal/logging"
)

const closeTimeout = 2 * time.Second

// ServerInfo identifies the process answering bridge calls.
type ServerInfo struct {
	Name    string
	Version string
	Methods []string
}

// Client implements textproc.Processor by forwarding each call to a bridge
// server. Calls are serialized; one request is in flight at a time.
type Client struct {
	mu     sync.Mutex
	seq    int64
	reader *bufio.Reader
	writer *bufio.Writer
	stdin  io.Closer
	cmd    *exec.Cmd
	peer   string
	broken error
	closed bool
}

// NewClient returns a Client speaking to a server reading w and writing r.
// If w is an io.Closer it is closed by Close.
func NewClient(r io.Reader, w io.Writer) *Client {
	c := &Client{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		peer:   serverName,
	}
	if closer, ok := w.(io.Closer); ok {
		c.stdin = closer
	}
	return c
}

// Initialize performs the handshake and returns the server's identity.
func (c *Client) Initialize(ctx context.Context) (ServerInfo, error) {
	params := map[string]any{
		"clientInfo": map[string]any{
			"name": "textbench",
		},
	}
	var res initializeResult
	if err := c.call(ctx, MethodInitialize, params, &res); err != nil {
		return ServerInfo{}, fmt.Errorf("bridge initialize: %w", err)
	}
	info := ServerInfo{
		Name:    res.ServerInfo.Name,
		Version: res.ServerInfo.Version,
		Methods: res.Methods,
	}
	if info.Name == "" {
		return info, fmt.Errorf("bridge initialize: server did not identify itself")
	}
	for _, m := range []string{MethodParseCSV, MethodJoinWords} {
		if !slices.Contains(info.Methods, m) {
			return info, fmt.Errorf("bridge initialize: server %s does not offer %s", info.Name, m)
		}
	}
	return info, nil
}

// ParseCSV asks the bridge server to parse text.
func (c *Client) ParseCSV(ctx context.Context, text string) (string, error) {
	var res textResult
	if err := c.call(ctx, MethodParseCSV, parseCSVParams{Text: text}, &res); err != nil {
		return "", err
	}
	return res.Text, nil
}

// JoinWords asks the bridge server to join words.
func (c *Client) JoinWords(ctx context.Context, words []string) (string, error) {
	if words == nil {
		words = []string{}
	}
	var res textResult
	if err := c.call(ctx, MethodJoinWords, joinWordsParams{Words: words}, &res); err != nil {
		return "", err
	}
	return res.Text, nil
}

// Close asks the server to shut down, closes its input and, for spawned
// servers, waits briefly before killing the process.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	healthy := c.broken == nil
	c.mu.Unlock()

	var firstErr error
	if healthy {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		if err := c.call(ctx, MethodShutdown, nil, nil); err != nil {
			logging.LogDebug("bridge shutdown request failed: %v", err)
		}
		cancel()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true

	if c.stdin != nil {
		_ = c.stdin.Close()
	}

	if c.cmd != nil && c.cmd.Process != nil {
		done := make(chan error, 1)
		go func() {
			done <- c.cmd.Wait()
		}()
		select {
		case err := <-done:
			if err != nil {
				firstErr = err
			}
		case <-time.After(closeTimeout):
			_ = c.cmd.Process.Kill()
			if err := <-done; err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("bridge client is closed")
	}
	if c.broken != nil {
		return fmt.Errorf("bridge connection unusable: %w", c.broken)
	}

	c.seq++
	id := c.seq
	payload := map[string]any{
		"jsonrpc": jsonrpcVersion,
		"id":      id,
		"method":  method,
	}
	if params != nil {
		payload["params"] = params
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}
	logging.LogRequest("out", c.peer, method, data)

	if err := writeFrame(c.writer, data); err != nil {
		c.broken = err
		return fmt.Errorf("send %s request: %w", method, err)
	}

	resp, raw, err := c.readResponse(ctx)
	if err != nil {
		c.broken = err
		return fmt.Errorf("read %s response: %w", method, err)
	}
	logging.LogRequest("in", c.peer, method, raw)

	if resp.JSONRPC != jsonrpcVersion {
		c.broken = fmt.Errorf("%s response has jsonrpc version %q", method, resp.JSONRPC)
		return c.broken
	}
	if respID := normalizeID(resp.ID); respID != "" && respID != strconv.FormatInt(id, 10) {
		c.broken = fmt.Errorf("response id %s does not match request id %d", respID, id)
		return c.broken
	}
	if resp.Error != nil {
		return resp.Error
	}
	if len(resp.Result) == 0 {
		c.broken = fmt.Errorf("%s response has no result", method)
		return c.broken
	}
	if out == nil {
		return nil
	}
	if string(bytes.TrimSpace(resp.Result)) == "null" {
		return fmt.Errorf("%s response has no result", method)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func (c *Client) readResponse(ctx context.Context) (jsonrpcResponse, []byte, error) {
	type result struct {
		resp jsonrpcResponse
		raw  []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := readFrame(c.reader)
		if err != nil {
			done <- result{err: err}
			return
		}
		var resp jsonrpcResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			done <- result{raw: raw, err: err}
			return
		}
		done <- result{resp: resp, raw: raw}
	}()

	select {
	case <-ctx.Done():
		return jsonrpcResponse{}, nil, ctx.Err()
	case res := <-done:
		return res.resp, res.raw, res.err
	}
}

func normalizeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		if unquoted, err := strconv.Unquote(trimmed); err == nil {
			return unquoted
		}
		trimmed = strings.Trim(trimmed, "\"")
	}
	return trimmed
}
