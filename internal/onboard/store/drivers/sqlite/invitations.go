package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

type invitationsRepo struct {
	db  dbtx
	now func() time.Time
}

const invitationColumns = `id, account_id, email, role, status, invited_by, expires_at, meta, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	meta, err := json.Marshal(inv.Meta)
	if err != nil {
		return fmt.Errorf("sqlite: encode invitation meta: %w", err)
	}
	now := r.now()
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = now
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.AccountID, inv.Email, string(inv.Role), string(inv.Status),
		mapStringNull(inv.InvitedBy), toMillis(inv.ExpiresAt), string(meta),
		toMillis(inv.CreatedAt), toMillis(now),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE email = ? AND status = 'PENDING'
		ORDER BY created_at DESC, id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) GetPending(ctx context.Context, accountID, email string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE account_id = ? AND email = ? AND status = 'PENDING'`, accountID, email)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) TransitionStatus(
	ctx context.Context,
	id string,
	from, to domain.InvitationStatus,
	patch domain.InvitationMeta,
) error {
	p, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("sqlite: encode invitation meta: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, meta = json_patch(meta, ?), updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), string(p), toMillis(r.now()), id, string(from),
	)
	if err != nil {
		return err
	}
	return guardedResult(ctx, r.db, res, "invitations", id)
}

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var (
		inv                       domain.Invitation
		role, status, meta        string
		invitedBy                 sql.NullString
		expires, created, updated int64
	)
	if err := row.Scan(&inv.ID, &inv.AccountID, &inv.Email, &role, &status, &invitedBy, &expires, &meta, &created, &updated); err != nil {
		return domain.Invitation{}, err
	}
	if err := json.Unmarshal([]byte(meta), &inv.Meta); err != nil {
		return domain.Invitation{}, fmt.Errorf("sqlite: decode invitation meta: %w", err)
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InvitationStatus(status)
	inv.InvitedBy = mapNullString(invitedBy)
	inv.ExpiresAt = fromMillis(expires)
	inv.CreatedAt = fromMillis(created)
	inv.UpdatedAt = fromMillis(updated)
	return inv, nil
}
