package events

import (
	"context"
	"log/slog"
)

// AuditLog writes every event it receives as one structured log line.
func AuditLog(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		args := []any{
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
		}
		if data, ok := event.Payload().(map[string]interface{}); ok {
			for k, v := range data {
				args = append(args, k, v)
			}
		}
		logger.InfoContext(ctx, "ledger event", args...)
		return nil
	}
}
