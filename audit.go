package goOTP

import (
	"io"

	"github.com/MrEthical07/goOTP/internal/audit"
)

// AuditEvent is one OTP lifecycle notification delivered to an AuditSink.
type AuditEvent = audit.Event

// AuditSink receives lifecycle events. Emit must not assume the call it
// reports on waits for it; failures and panics are swallowed.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink writes audit events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
