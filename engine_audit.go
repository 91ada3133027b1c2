package goOTP

import (
	"context"
	"errors"
)

const (
	auditEventOTPGenerated         = "otp_generated"
	auditEventOTPValidationSuccess = "otp_validation_success"
	auditEventOTPValidationFailure = "otp_validation_failure"
	auditEventOTPCleared           = "otp_cleared"
	auditEventSessionIssued        = "session_issued"
	auditEventLogout               = "logout"
)

// AuditErrorCode is the stable error label written to AuditEvent.Error.
type AuditErrorCode string

const (
	auditErrNotFound           AuditErrorCode = "not_found"
	auditErrExpired            AuditErrorCode = "expired"
	auditErrAttemptsExceeded   AuditErrorCode = "attempts_exceeded"
	auditErrMismatch           AuditErrorCode = "mismatch"
	auditErrIdentifierRequired AuditErrorCode = "identifier_required"
	auditErrGeneration         AuditErrorCode = "generation_failed"
	auditErrUnavailable        AuditErrorCode = "backend_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identifier string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  e.now().UTC(),
		EventType:  eventType,
		Identifier: identifier,
		SessionID:  sessionID,
		IP:         clientIPFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrOTPNotFound):
		return auditErrNotFound
	case errors.Is(err, ErrOTPExpired):
		return auditErrExpired
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return auditErrAttemptsExceeded
	case errors.Is(err, ErrOTPMismatch):
		return auditErrMismatch
	case errors.Is(err, ErrIdentifierRequired):
		return auditErrIdentifierRequired
	case errors.Is(err, ErrCodeGenerationFailed):
		return auditErrGeneration
	case errors.Is(err, ErrSessionUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
