package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// StdoutAuditLogger emits audit entries through the process log. It is
// the default sink; a deployment that must retain audit trails swaps in
// an AuditLogger backed by durable storage.
type StdoutAuditLogger struct {
	logger *zap.Logger
}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{logger: zap.L().Named("audit")}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	l.logger.Info("audit event",
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
