package phone

import (
	"context"
	"database/sql"
	"errors"

	"chargeledger/internal/ledger"

	"github.com/jmoiron/sqlx"
)

var ErrPhoneNotFound = errors.New("phone number not found")

const phoneColumns = `id, number, title, is_active, current_charge, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, number, title string) (*PhoneNumber, error) {
	query := `
		INSERT INTO phone_numbers (number, title)
		VALUES ($1, $2)
		RETURNING ` + phoneColumns

	var p PhoneNumber
	err := r.db.GetContext(ctx, &p, query, number, title)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*PhoneNumber, error) {
	query := `SELECT ` + phoneColumns + ` FROM phone_numbers WHERE id = $1`

	var p PhoneNumber
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhoneNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListActive(ctx context.Context) ([]PhoneNumber, error) {
	query := `SELECT ` + phoneColumns + ` FROM phone_numbers WHERE is_active = true ORDER BY id`

	phones := []PhoneNumber{}
	err := r.db.SelectContext(ctx, &phones, query)
	if err != nil {
		return nil, err
	}

	return phones, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE phone_numbers
		SET is_active = $1,
		    updated_at = NOW()
		WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPhoneNotFound
	}
	return nil
}

// Delete removes a phone number. Numbers referenced by charge sales are
// protected: the FK constraint rejects the delete and the caller sees
// ledger.ErrProtected.
func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM phone_numbers WHERE id = $1`, id)
	if err != nil {
		return ledger.MapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPhoneNotFound
	}
	return nil
}
