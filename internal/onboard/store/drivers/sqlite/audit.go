package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	meta := []byte("{}")
	if len(e.Meta) > 0 {
		var err error
		if meta, err = json.Marshal(e.Meta); err != nil {
			return fmt.Errorf("sqlite: encode audit meta: %w", err)
		}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, admin_user_id, target_account_id, action, resource, resource_id, meta, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, mapStringNull(e.AdminUserID), mapStringNull(e.TargetAccountID),
		e.Action, e.Resource, e.ResourceID, string(meta), toMillis(e.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *auditRepo) ListByResource(ctx context.Context, resource, resourceID string) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, admin_user_id, target_account_id, action, resource, resource_id, meta, created_at
		FROM audit_log
		WHERE resource = ? AND resource_id = ?
		ORDER BY created_at, id`, resource, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e              domain.AuditEntry
			admin, account sql.NullString
			meta           string
			created        int64
		)
		if err := rows.Scan(&e.ID, &admin, &account, &e.Action, &e.Resource, &e.ResourceID, &meta, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &e.Meta); err != nil {
			return nil, fmt.Errorf("sqlite: decode audit meta: %w", err)
		}
		e.AdminUserID = mapNullString(admin)
		e.TargetAccountID = mapNullString(account)
		e.CreatedAt = fromMillis(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
