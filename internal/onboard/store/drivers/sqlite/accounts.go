package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/domain"
)

type accountsRepo struct {
	db  dbtx
	now func() time.Time
}

const accountColumns = `id, name, slug, status, trial_state, trial_started_at, trial_ends_at, archived_at, archived_by, created_at, updated_at`

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := r.now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Slug, string(a.Status),
		mapStringNull(string(a.TrialState)),
		mapOptionalTime(a.TrialStartedAt),
		mapOptionalTime(a.TrialEndsAt),
		mapOptionalTime(a.ArchivedAt),
		mapStringNull(a.ArchivedBy),
		toMillis(a.CreatedAt), toMillis(now),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.AccountStatus,
	archivedAt *time.Time,
	archivedBy string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET status = ?, archived_at = ?, archived_by = ?, updated_at = ?
		WHERE id = ?`,
		string(status), mapOptionalTime(archivedAt), mapStringNull(archivedBy), toMillis(r.now()), id,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var (
		a                         domain.Account
		status                    string
		trialState, archivedBy    sql.NullString
		trialStart, trialEnd, arc sql.NullInt64
		created, updated          int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Slug, &status, &trialState, &trialStart, &trialEnd, &arc, &archivedBy, &created, &updated); err != nil {
		return domain.Account{}, err
	}
	a.Status = domain.AccountStatus(status)
	a.TrialState = domain.TrialState(mapNullString(trialState))
	a.TrialStartedAt = mapNullTimePtr(trialStart)
	a.TrialEndsAt = mapNullTimePtr(trialEnd)
	a.ArchivedAt = mapNullTimePtr(arc)
	a.ArchivedBy = mapNullString(archivedBy)
	a.CreatedAt = fromMillis(created)
	a.UpdatedAt = fromMillis(updated)
	return a, nil
}
