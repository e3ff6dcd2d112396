package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

type profilesRepo struct {
	db  dbtx
	now func() time.Time
}

const profileColumns = `id, email, full_name, global_role, created_at, updated_at`

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	now := r.now()
	if p.GlobalRole == "" {
		p.GlobalRole = domain.GlobalRoleUser
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, string(p.GlobalRole), toMillis(now), toMillis(now),
	)
	return mapConstraint(err)
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	// email column is COLLATE NOCASE
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) UpdateEmail(ctx context.Context, id, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET email = ?, updated_at = ? WHERE id = ?`,
		email, toMillis(r.now()), id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireAffected(res)
}

func (r *profilesRepo) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *profilesRepo) CountPlatformAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE global_role = ?`, string(domain.GlobalRolePlatformAdmin),
	).Scan(&n)
	return n, err
}

func scanProfile(row interface{ Scan(...any) error }) (domain.Profile, error) {
	var (
		p                domain.Profile
		role             string
		created, updated int64
	)
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &role, &created, &updated); err != nil {
		return domain.Profile{}, err
	}
	p.GlobalRole = domain.GlobalRole(role)
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}
