package tools

import (
	"fmt"
	"strings"
)

// ErrorKind is the machine-checkable classification attached to every
// failed tool result. Transports map kinds to their own status codes.
type ErrorKind string

const (
	KindUnknownTool        ErrorKind = "unknown_tool"
	KindInvalidArguments   ErrorKind = "invalid_arguments"
	KindChannelUnavailable ErrorKind = "channel_unavailable"
	KindDeliveryFailed     ErrorKind = "delivery_failed"
	KindInternal           ErrorKind = "internal"
)

// FieldError describes a single argument that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// UnknownToolError indicates the requested name matched no registered tool.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %q", e.Name)
}

// InvalidArgumentsError indicates one or more arguments were missing or
// malformed. It is raised before any side effect occurs.
type InvalidArgumentsError struct {
	Tool   string
	Fields []FieldError
}

func (e *InvalidArgumentsError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid arguments for %s", e.Tool)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field.Field, field.Message))
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(parts, "; "))
}

// ChannelUnavailableError indicates the side-effecting tool was invoked
// while no notification channel is configured.
type ChannelUnavailableError struct {
	Reason string
}

func (e *ChannelUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("notification channel unavailable: %s", e.Reason)
	}
	return "notification channel unavailable"
}

// DeliveryFailedError indicates the channel accepted the request but the
// send itself failed. The message carries the channel's own error text.
type DeliveryFailedError struct {
	Cause error
}

func (e *DeliveryFailedError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "delivery failed"
}

func (e *DeliveryFailedError) Unwrap() error {
	return e.Cause
}

// KindOf classifies an error into the kind carried on failed results.
// Unrecognized errors are internal.
func KindOf(err error) ErrorKind {
	switch err.(type) {
	case *UnknownToolError:
		return KindUnknownTool
	case *InvalidArgumentsError:
		return KindInvalidArguments
	case *ChannelUnavailableError:
		return KindChannelUnavailable
	case *DeliveryFailedError:
		return KindDeliveryFailed
	default:
		return KindInternal
	}
}
