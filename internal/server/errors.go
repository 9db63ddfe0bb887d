package server

import (
	"net/http"

	"github.com/jonathan/cv-agent/internal/tools"
)

// statusForResult maps a tool result to its HTTP status code. The envelope
// body is returned unchanged either way; only the status line differs
// between transports.
func statusForResult(result *tools.Result) int {
	if result.Success {
		return http.StatusOK
	}
	return statusForKind(result.Kind)
}

// statusForKind returns the appropriate HTTP status code for an error kind
func statusForKind(kind tools.ErrorKind) int {
	switch kind {
	case tools.KindInvalidArguments:
		return http.StatusBadRequest
	case tools.KindChannelUnavailable:
		return http.StatusServiceUnavailable
	case tools.KindDeliveryFailed:
		return http.StatusBadGateway
	case tools.KindUnknownTool:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
