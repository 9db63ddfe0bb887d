package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/cv-agent/internal/tools"
)

// callRequest is the body shape for POST /tools/call.
type callRequest struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// handleHealth reports lifecycle status. It returns 503 until the first
// initialization completes and 200 afterwards, including degraded mode.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if s.manager.Dispatcher() == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "server is initializing")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.manager.Status())
}

// handleListTools advertises the static tool catalog. The catalog does not
// depend on data readiness, so this works in any state.
func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	defs := tools.Definitions()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"tools": defs,
		"count": len(defs),
	})
}

// handleCallTool executes the tool named in the request body.
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Tool) == "" {
		s.errorResponse(w, http.StatusBadRequest, "tool name is required")
		return
	}

	s.executeTool(w, r, req.Tool, req.Arguments)
}

// handleCallNamedTool executes the tool named in the path. The body is the
// arguments object itself and may be empty.
func (s *Server) handleCallNamedTool(w http.ResponseWriter, r *http.Request) {
	var args map[string]any
	if err := decodeJSONBody(r, &args); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.executeTool(w, r, r.PathValue("name"), args)
}

// handleReload re-runs the initialization lifecycle and reports the
// resulting status.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.manager.Reload(r.Context())
	s.jsonResponse(w, http.StatusOK, s.manager.Status())
}

// handleNotFound keeps unmatched routes on the same JSON error shape.
func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.errorResponse(w, http.StatusNotFound, "not found")
}

// executeTool runs a tool through the current dispatcher and writes the
// result envelope with the status code its outcome maps to.
func (s *Server) executeTool(w http.ResponseWriter, r *http.Request, name string, args map[string]any) {
	dispatcher := s.manager.Dispatcher()
	if dispatcher == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "server is initializing")
		return
	}

	result := dispatcher.Execute(r.Context(), name, args)
	s.jsonResponse(w, statusForResult(result), result)
}

// decodeJSONBody decodes a JSON request body. An empty body is not an
// error; handlers validate required content themselves.
func decodeJSONBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid JSON body: %v", err)
	}
	return nil
}
