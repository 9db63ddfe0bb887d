// Package mcp exposes the CV tool catalog over the Model Context
// Protocol: JSON-RPC 2.0 requests and responses exchanged as
// newline-delimited JSON on stdio.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/lifecycle"
	"github.com/jonathan/cv-agent/internal/tools"
)

const (
	serverName    = "cv-agent"
	serverVersion = "0.1.0"
)

// Server answers MCP requests against the current dispatcher. The
// dispatcher is fetched from the lifecycle manager on every tool call,
// so a reload takes effect mid-session without restarting the client.
type Server struct {
	manager     *lifecycle.Manager
	logger      *zap.Logger
	initialized bool
}

// NewServer creates an MCP server backed by the given lifecycle
// manager. The logger must not write to stdout: stdout carries the
// protocol stream.
func NewServer(manager *lifecycle.Manager, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{manager: manager, logger: logger}
}

// Serve starts the MCP server reading from os.Stdin and writing to
// os.Stdout. This is the entry point for "cv_agent stdio".
func (s *Server) Serve() error {
	s.logger.Info("mcp server listening on stdio")
	return s.Run(os.Stdin, os.Stdout)
}

// Run processes JSON-RPC 2.0 requests from input and writes responses
// to output until input reaches EOF. Each request occupies a single
// line (newline-delimited JSON-RPC, not Content-Length framed).
func (s *Server) Run(input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	// Tool results carry the full serialized envelope and can be large.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("malformed request line", zap.Error(err))
			if writeErr := writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error()); writeErr != nil {
				return fmt.Errorf("writing parse error response: %w", writeErr)
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version"); writeErr != nil {
					return fmt.Errorf("writing version error response: %w", writeErr)
				}
			}
			continue
		}

		// Notifications have no ID and receive no response.
		if req.isNotification() {
			continue
		}

		if err := s.dispatch(encoder, &req); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// dispatch routes a JSON-RPC request to the appropriate handler.
func (s *Server) dispatch(encoder *json.Encoder, req *request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return s.handlePing(encoder, req)
	case "tools/list":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for initialize")
	}

	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	// The server answers with its own protocol version and the client
	// decides whether it can proceed; mismatched versions are not
	// rejected here.
	s.initialized = true
	s.logger.Info("mcp session initialized",
		zap.String("client", params.ClientInfo.Name),
		zap.String("client_version", params.ClientInfo.Version))

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Tools: &toolCapability{},
		},
		ServerInfo: serverInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	})
}

func (s *Server) handlePing(encoder *json.Encoder, req *request) error {
	return writeResult(encoder, req.ID, map[string]any{})
}

// handleToolsList serves the static tool catalog. The catalog does not
// depend on initialization state, so a degraded server lists the same
// six tools as a healthy one.
func (s *Server) handleToolsList(encoder *json.Encoder, req *request) error {
	defs := tools.Definitions()
	descriptions := make([]toolDescription, 0, len(defs))
	for _, def := range defs {
		descriptions = append(descriptions, toolDescription{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Parameters,
			Annotations: annotationsFor(def),
		})
	}
	return writeResult(encoder, req.ID, toolsListResult{Tools: descriptions})
}

// handleToolsCall runs a tool through the dispatcher and wraps the
// dispatch envelope in an MCP result. Tool failures (unknown tool,
// invalid arguments, delivery errors) stay inside the envelope with
// isError set; JSON-RPC errors are reserved for malformed requests.
func (s *Server) handleToolsCall(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for tools/call")
	}

	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	var args map[string]any
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return writeError(encoder, req.ID, codeInvalidParams, "invalid tool arguments: "+err.Error())
		}
	}

	dispatcher := s.manager.Dispatcher()
	if dispatcher == nil {
		return writeError(encoder, req.ID, codeInternalError, "server is initializing, try again shortly")
	}

	result := dispatcher.Execute(context.Background(), params.Name, args)

	serialized, err := json.Marshal(result)
	if err != nil {
		return writeError(encoder, req.ID, codeInternalError, "encoding tool result: "+err.Error())
	}

	return writeResult(encoder, req.ID, toolsCallResult{
		Content:           []contentBlock{{Type: "text", Text: string(serialized)}},
		StructuredContent: result,
		IsError:           !result.Success,
	})
}

// annotationsFor maps registry metadata to MCP behavior hints. Readers
// touch nothing outside the in-memory record and are safe to retry;
// send_email reaches an external SMTP server.
func annotationsFor(def tools.Definition) *toolAnnotations {
	if def.ReadOnly {
		return &toolAnnotations{
			ReadOnlyHint:    boolPtr(true),
			DestructiveHint: boolPtr(false),
			IdempotentHint:  boolPtr(true),
			OpenWorldHint:   boolPtr(false),
		}
	}
	return &toolAnnotations{
		ReadOnlyHint:    boolPtr(false),
		DestructiveHint: boolPtr(false),
		IdempotentHint:  boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
}

func boolPtr(value bool) *bool {
	return &value
}

// writeResult sends a JSON-RPC 2.0 success response.
func writeResult(encoder *json.Encoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// writeError sends a JSON-RPC 2.0 error response.
func writeError(encoder *json.Encoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}
