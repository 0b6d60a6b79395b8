// Package bridge runs the text-processing capability behind a process
// boundary, speaking JSON-RPC 2.0 with Content-Length framing over stdio.
package bridge

import (
	"encoding/json"
	"fmt"
)

// Method names served by the bridge.
const (
	MethodInitialize = "initialize"
	MethodParseCSV   = "text/parseCSV"
	MethodJoinWords  = "text/joinWords"
	MethodShutdown   = "shutdown"
)

// JSON-RPC error codes returned by the server.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeProcessorError = -32000
)

const (
	jsonrpcVersion = "2.0"
	serverName     = "textbench-bridge"
)

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object returned by the bridge.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("bridge error %d: %s", e.Code, e.Message)
}

type parseCSVParams struct {
	Text string `json:"text"`
}

type joinWordsParams struct {
	Words []string `json:"words"`
}

type textResult struct {
	Text string `json:"text"`
}

type initializeResult struct {
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
	Methods []string `json:"methods"`
}
