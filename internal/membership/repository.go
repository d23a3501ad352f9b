package membership

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPassNotFound       = errors.New("membership pass not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrVisitLimitReached  = errors.New("membership visit limit reached")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePass(ctx context.Context, gymID int, req CreatePassRequest) (*MembershipPass, error) {
	query := `
		INSERT INTO membership_passes (gym_id, name, duration_days, price_cents, visit_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, name, duration_days, price_cents, visit_limit, created_at
	`

	var pass MembershipPass
	err := r.db.GetContext(ctx, &pass, query, gymID, req.Name, req.DurationDays, req.PriceCents, req.VisitLimit)
	if err != nil {
		return nil, err
	}

	return &pass, nil
}

func (r *repository) GetPassesByGym(ctx context.Context, gymID int) ([]MembershipPass, error) {
	query := `
		SELECT id, gym_id, name, duration_days, price_cents, visit_limit, created_at
		FROM membership_passes
		WHERE gym_id = $1
		ORDER BY price_cents ASC
	`

	var passes []MembershipPass
	err := r.db.SelectContext(ctx, &passes, query, gymID)
	if err != nil {
		return nil, err
	}

	return passes, nil
}

func (r *repository) GetPassByID(ctx context.Context, id int) (*MembershipPass, error) {
	query := `
		SELECT id, gym_id, name, duration_days, price_cents, visit_limit, created_at
		FROM membership_passes
		WHERE id = $1
	`

	var pass MembershipPass
	err := r.db.GetContext(ctx, &pass, query, id)
	if err != nil {
		return nil, err
	}

	return &pass, nil
}

func (r *repository) Purchase(ctx context.Context, userID int, pass *MembershipPass) (*UserMembership, error) {
	query := `
		INSERT INTO user_memberships (user_id, gym_id, pass_id, status, visit_limit, price_cents, valid_from, valid_until)
		VALUES ($1, $2, $3, 'active', $4, $5, NOW(), NOW() + make_interval(days => $6))
		RETURNING id, user_id, gym_id, pass_id, status, visit_limit, visits_used, price_cents,
		          valid_from, valid_until, created_at, updated_at
	`

	var m UserMembership
	err := r.db.GetContext(ctx, &m, query, userID, pass.GymID, pass.ID, pass.VisitLimit, pass.PriceCents, pass.DurationDays)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetActiveForUserAndGym(ctx context.Context, userID, gymID int) (*UserMembership, error) {
	query := `
		SELECT id, user_id, gym_id, pass_id, status, visit_limit, visits_used, price_cents,
		       valid_from, valid_until, created_at, updated_at
		FROM user_memberships
		WHERE user_id = $1 AND gym_id = $2 AND status = 'active' AND valid_until > NOW()
		ORDER BY valid_until DESC
		LIMIT 1
	`

	var m UserMembership
	err := r.db.GetContext(ctx, &m, query, userID, gymID)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetUserMemberships(ctx context.Context, userID int) ([]UserMembership, error) {
	query := `
		SELECT id, user_id, gym_id, pass_id, status, visit_limit, visits_used, price_cents,
		       valid_from, valid_until, created_at, updated_at
		FROM user_memberships
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var memberships []UserMembership
	err := r.db.SelectContext(ctx, &memberships, query, userID)
	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *repository) IncrementVisits(ctx context.Context, membershipID int) error {
	query := `
		UPDATE user_memberships
		SET visits_used = visits_used + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND (visit_limit IS NULL OR visits_used < visit_limit)
	`

	result, err := r.db.ExecContext(ctx, query, membershipID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrVisitLimitReached
	}

	return nil
}

func (r *repository) Cancel(ctx context.Context, membershipID, userID int) error {
	query := `
		UPDATE user_memberships
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'active'
	`

	result, err := r.db.ExecContext(ctx, query, membershipID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}
