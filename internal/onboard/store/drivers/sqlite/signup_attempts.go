package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

type signupAttemptsRepo struct {
	db dbtx
}

func (r *signupAttemptsRepo) Record(ctx context.Context, a domain.SignupAttempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signup_attempts (id, email_norm, ip_hash, user_agent, result_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, mapStringNull(a.EmailNorm), a.IPHash, mapStringNull(a.UserAgent),
		string(a.ResultCode), toMillis(a.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *signupAttemptsRepo) CountByIPSince(ctx context.Context, ipHash string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM signup_attempts WHERE ip_hash = ? AND created_at >= ?`,
		ipHash, toMillis(since),
	).Scan(&n)
	return n, err
}

func (r *signupAttemptsRepo) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM signup_attempts WHERE email_norm = ? AND created_at >= ?`,
		email, toMillis(since),
	).Scan(&n)
	return n, err
}
