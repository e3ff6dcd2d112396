package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
	"github.com/aussiebroadwan/onboard/internal/onboard/store"
	"github.com/aussiebroadwan/onboard/pkg/idx"
	"github.com/aussiebroadwan/onboard/pkg/slogx"
)

// Auditor writes audit entries best-effort. A failed write never undoes the
// operation being audited; it is logged and reported back as a string for
// the response's auditError field.
type Auditor struct {
	Store store.Store
	Now   func() time.Time
}

func (a *Auditor) Record(ctx context.Context, e domain.AuditEntry) string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	e.ID = idx.NewAt(now()).String()
	e.CreatedAt = now().UTC()
	if id := slogx.RequestID(ctx); id != "" {
		if e.Meta == nil {
			e.Meta = map[string]any{}
		}
		e.Meta["request_id"] = id
	}

	// The caller's context may already be cancelled after a long identity
	// round trip; the entry is still worth writing.
	if err := a.Store.AuditLog().Append(context.WithoutCancel(ctx), e); err != nil {
		slogx.FromContext(ctx).Error("failed to write audit entry",
			slog.String("action", e.Action),
			slog.String("resource_id", e.ResourceID),
			slog.Any("error", err),
		)
		return err.Error()
	}
	return ""
}

// withAudit attaches a non-empty audit error to a service error.
func withAudit(err *Error, auditErr string) *Error {
	if auditErr == "" {
		return err
	}
	return err.With("audit_error", auditErr)
}
