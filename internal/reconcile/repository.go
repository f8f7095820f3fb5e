package reconcile

import (
	"context"
	"database/sql"
	"errors"

	"chargeledger/internal/ledger"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GlobalFigures(ctx context.Context) (*Figures, error) {
	f := &Figures{}

	err := r.db.GetContext(ctx, &f.ApprovedCredits, `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_requests
		WHERE status = 'APPROVED' AND processed = true
	`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &f.CurrentCredits, `SELECT COALESCE(SUM(credit), 0) FROM users`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &f.ChargeSales, `
		SELECT COALESCE(SUM(amount), 0)
		FROM charge_sales
		WHERE status = 'COMPLETED' AND processed = true
	`)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (r *repository) UserFigures(ctx context.Context, userID int) (*Figures, error) {
	f := &Figures{}

	err := r.db.GetContext(ctx, &f.CurrentCredits, `SELECT credit FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}
		return nil, err
	}

	err = r.db.GetContext(ctx, &f.ApprovedCredits, `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_requests
		WHERE user_id = $1 AND status = 'APPROVED' AND processed = true
	`, userID)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &f.ChargeSales, `
		SELECT COALESCE(SUM(amount), 0)
		FROM charge_sales
		WHERE user_id = $1 AND status = 'COMPLETED' AND processed = true
	`, userID)
	if err != nil {
		return nil, err
	}

	return f, nil
}
