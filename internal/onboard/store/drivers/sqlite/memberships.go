package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

type membershipsRepo struct {
	db  dbtx
	now func() time.Time
}

const membershipColumns = `id, account_id, user_id, role, status, created_at, updated_at`

// otherActiveAdmins counts ACTIVE ADMIN memberships of the same account as
// the row being written, excluding that row. Used inside guarded writes.
const otherActiveAdmins = `(
	SELECT COUNT(*) FROM memberships o
	WHERE o.account_id = memberships.account_id
	  AND o.id <> memberships.id
	  AND o.status = 'ACTIVE'
	  AND o.role = 'ADMIN'
)`

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	now := r.now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (`+membershipColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.AccountID, m.UserID, string(m.Role), string(m.Status), toMillis(now), toMillis(now),
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, id string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+membershipColumns+` FROM memberships WHERE id = ?`, id)
	m, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) GetMembership(ctx context.Context, accountID, userID string) (domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE account_id = ? AND user_id = ?`,
		accountID, userID,
	)
	m, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE user_id = ? AND status = 'ACTIVE'
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) CountActiveAdmins(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM memberships
		WHERE account_id = ? AND status = 'ACTIVE' AND role = 'ADMIN'`, accountID,
	).Scan(&n)
	return n, err
}

func (r *membershipsRepo) UpdateRoleGuarded(ctx context.Context, id string, role domain.Role, minOtherAdmins int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships SET role = ?, updated_at = ?
		WHERE id = ? AND `+otherActiveAdmins+` >= ?`,
		string(role), toMillis(r.now()), id, minOtherAdmins,
	)
	if err != nil {
		return err
	}
	return guardedResult(ctx, r.db, res, "memberships", id)
}

func (r *membershipsRepo) DeleteGuarded(ctx context.Context, id string, minOtherAdmins int) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM memberships
		WHERE id = ? AND `+otherActiveAdmins+` >= ?`,
		id, minOtherAdmins,
	)
	if err != nil {
		return err
	}
	return guardedResult(ctx, r.db, res, "memberships", id)
}

func (r *membershipsRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE user_id = ?`, userID)
	return err
}

func scanMembership(row interface{ Scan(...any) error }) (domain.Membership, error) {
	var (
		m                domain.Membership
		role, status     string
		created, updated int64
	)
	if err := row.Scan(&m.ID, &m.AccountID, &m.UserID, &role, &status, &created, &updated); err != nil {
		return domain.Membership{}, err
	}
	m.Role = domain.Role(role)
	m.Status = domain.MembershipStatus(status)
	m.CreatedAt = fromMillis(created)
	m.UpdatedAt = fromMillis(updated)
	return m, nil
}
