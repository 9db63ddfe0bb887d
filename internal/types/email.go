package types

import "time"

// EmailMessage is an outbound notification message.
type EmailMessage struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// DeliveryReceipt records an accepted email delivery.
type DeliveryReceipt struct {
	ID         string `json:"id"`
	Recipient  string `json:"recipient"`
	Subject    string `json:"subject"`
	Host       string `json:"host,omitempty"`
	AcceptedAt string `json:"accepted_at"`
}

// ProbeResult is the outcome of a single channel connectivity check.
type ProbeResult struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// ChannelStatus describes the notification channel for status reporting.
// LastProbe is nil until the first probe completes; probe results are
// advisory and never gate message sends.
type ChannelStatus struct {
	Configured bool         `json:"configured"`
	Host       string       `json:"host,omitempty"`
	LastProbe  *ProbeResult `json:"last_probe,omitempty"`
}
