package tools

import "time"

// Result is the uniform envelope every tool call terminates in, success or
// failure. Exactly one of Data or Error is populated, and Success agrees
// with which branch it is. Transports serialize this shape mechanically and
// add nothing of their own.
type Result struct {
	Success   bool      `json:"success"`
	Tool      string    `json:"tool"`
	Data      any       `json:"data,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	Kind      ErrorKind `json:"error_kind,omitempty"`
	Timestamp string    `json:"timestamp"`
}

func successResult(tool, summary string, data any) *Result {
	return &Result{
		Success:   true,
		Tool:      tool,
		Data:      data,
		Summary:   summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func failureResult(tool string, err error) *Result {
	return &Result{
		Success:   false,
		Tool:      tool,
		Error:     err.Error(),
		Kind:      KindOf(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
