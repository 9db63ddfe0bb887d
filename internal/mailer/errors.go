package mailer

import "fmt"

// NotConfiguredError indicates the notification channel has no usable
// SMTP configuration. Sends fail with this error; it is not raised at
// construction time.
type NotConfiguredError struct {
	Reason string
}

func (e *NotConfiguredError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("notification channel not configured: %s", e.Reason)
	}
	return "notification channel not configured"
}

// DeliveryError represents a failure while handing a message to the SMTP server
type DeliveryError struct {
	Message string
	Cause   error
}

func (e *DeliveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("delivery failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("delivery failed: %s", e.Message)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}
