package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mwiater/textbench/internal/logging"
	"github.com/mwiater/textbench/internal/textproc"
)

// Server answers bridge requests using a local Processor.
type Server struct {
	proc    textproc.Processor
	version string
}

// NewServer returns a Server backed by proc.
func NewServer(proc textproc.Processor, version string) *Server {
	if version == "" {
		version = "dev"
	}
	return &Server{proc: proc, version: version}
}

// Serve reads framed requests from r and writes responses to w. It returns
// nil on EOF or after a shutdown request.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	if s.proc == nil {
		return fmt.Errorf("bridge server requires a processor")
	}
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := readFrame(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logging.LogDebug("bridge client closed the connection")
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}
		logging.LogRequest("in", serverName, "", body)

		var req jsonrpcRequest
		if err := json.Unmarshal(body, &req); err != nil {
			if err := s.reply(writer, makeError(json.RawMessage("null"), CodeParseError, err.Error())); err != nil {
				return err
			}
			continue
		}

		resp, stop := s.handle(ctx, req)
		if len(req.ID) > 0 {
			if err := s.reply(writer, resp); err != nil {
				return err
			}
		}
		if stop {
			logging.LogDebug("bridge shutdown requested")
			return nil
		}
	}
}

func (s *Server) reply(w *bufio.Writer, resp jsonrpcResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	logging.LogRequest("out", serverName, "", data)
	if err := writeFrame(w, data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// handle dispatches one request. The boolean reports a shutdown request.
func (s *Server) handle(ctx context.Context, req jsonrpcRequest) (jsonrpcResponse, bool) {
	if req.JSONRPC != jsonrpcVersion || req.Method == "" {
		return makeError(req.ID, CodeInvalidRequest, "invalid request"), false
	}

	switch req.Method {
	case MethodInitialize:
		var res initializeResult
		res.ServerInfo.Name = serverName
		res.ServerInfo.Version = s.version
		res.Methods = []string{MethodParseCSV, MethodJoinWords, MethodShutdown}
		return makeResult(req.ID, res), false

	case MethodShutdown:
		return makeResult(req.ID, nil), true

	case MethodParseCSV:
		if err := validateParams(req.Method, req.Params); err != nil {
			return makeError(req.ID, CodeInvalidParams, err.Error()), false
		}
		var params parseCSVParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return makeError(req.ID, CodeInvalidParams, err.Error()), false
		}
		text, err := s.proc.ParseCSV(ctx, params.Text)
		if err != nil {
			return makeError(req.ID, CodeProcessorError, err.Error()), false
		}
		return makeResult(req.ID, textResult{Text: text}), false

	case MethodJoinWords:
		if err := validateParams(req.Method, req.Params); err != nil {
			return makeError(req.ID, CodeInvalidParams, err.Error()), false
		}
		var params joinWordsParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return makeError(req.ID, CodeInvalidParams, err.Error()), false
		}
		text, err := s.proc.JoinWords(ctx, params.Words)
		if err != nil {
			return makeError(req.ID, CodeProcessorError, err.Error()), false
		}
		return makeResult(req.ID, textResult{Text: text}), false

	default:
		return makeError(req.ID, CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method)), false
	}
}

func makeResult(id json.RawMessage, result any) jsonrpcResponse {
	data, err := json.Marshal(result)
	if err != nil {
		return makeError(id, CodeProcessorError, err.Error())
	}
	return jsonrpcResponse{JSONRPC: jsonrpcVersion, ID: id, Result: data}
}

func makeError(id json.RawMessage, code int, msg string) jsonrpcResponse {
	return jsonrpcResponse{JSONRPC: jsonrpcVersion, ID: id, Error: &RPCError{Code: code, Message: msg}}
}
