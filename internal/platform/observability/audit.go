// Package observability provides the audit logging helper shared by the guard
// services.
package observability

import (
	"context"
	"log/slog"

	"sovereign/pkg/attrs"
	"sovereign/pkg/platform/audit"
	"sovereign/pkg/requestcontext"
)

// AuditPublisher emits audit events for security-relevant transitions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LogAudit logs audit events to both structured logger and audit publisher.
// It enriches events with request and device ids and extracts
// subject/reason/decision from attrList.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.AuditEvent, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}

	deviceID := attrs.ExtractString(attrList, "device_id")
	if deviceID == "" {
		deviceID = requestcontext.DeviceID(ctx)
	}

	args := append(attrList, "event", string(event), "log_type", "audit")

	if logger != nil {
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}

	err := publisher.Emit(ctx, audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		DeviceID:  deviceID,
		Action:    string(event),
		Decision:  attrs.ExtractString(attrList, "decision"),
		Reason:    attrs.ExtractString(attrList, "reason"),
		Subject:   attrs.First(attrList, "subject", "anchor", "process", "breach_id", "command"),
		RequestID: requestID,
	})
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
