package bootstrap

import "context"

// AuditLog is a single operational audit entry.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events such as server lifecycle
// transitions. Implementations must be safe for concurrent use.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
