package charge

import (
	"context"
	"errors"

	"chargeledger/internal/ledger"

	"github.com/jmoiron/sqlx"
)

const (
	creditRequestColumns = `id, user_id, amount, status, processed, admin_notes, created_at, updated_at`
	chargeSaleColumns    = `id, user_id, phone_number_id, amount, status, processed, admin_notes, api_response, created_at, updated_at`
)

type repository struct {
	store *ledger.Store
}

func NewRepository(store *ledger.Store) Repository {
	return &repository{store: store}
}

func (r *repository) CreateCreditRequest(ctx context.Context, userID int, amount int64) (*CreditRequest, error) {
	query := `
		INSERT INTO credit_requests (user_id, amount)
		VALUES ($1, $2)
		RETURNING ` + creditRequestColumns

	var cr CreditRequest
	err := r.store.DB().QueryRowxContext(ctx, query, userID, amount).StructScan(&cr)
	if err != nil {
		return nil, ledger.MapError(err)
	}

	return &cr, nil
}

// ApproveCreditRequest is one unit of work: lock the user row, lock the
// request row, re-check processed under the lock, then flip the status and
// apply the credit delta. A request that was already processed aborts the
// work and comes back with ErrAlreadyProcessed, so retried approvals can
// never credit twice.
func (r *repository) ApproveCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error) {
	return r.reviewCreditRequest(ctx, requestID, StatusApproved, adminNotes)
}

// RejectCreditRequest marks the request processed with no balance delta.
// A rejected request can never be approved afterwards.
func (r *repository) RejectCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error) {
	return r.reviewCreditRequest(ctx, requestID, StatusRejected, adminNotes)
}

func (r *repository) reviewCreditRequest(ctx context.Context, requestID int, status Status, adminNotes string) (*CreditRequest, error) {
	var out *CreditRequest

	err := r.store.WithinTx(ctx, func(tx *sqlx.Tx) error {
		// The owner id is needed before any lock so that the user row can
		// be locked first, per the fixed lock order.
		var ownerID int
		err := tx.QueryRowxContext(ctx,
			`SELECT user_id FROM credit_requests WHERE id = $1`,
			requestID,
		).Scan(&ownerID)
		if err != nil {
			return ledger.MapError(err)
		}

		if _, err := ledger.LockUser(ctx, tx, ownerID); err != nil {
			return err
		}

		var cr CreditRequest
		err = tx.QueryRowxContext(ctx,
			`SELECT `+creditRequestColumns+` FROM credit_requests WHERE id = $1 FOR UPDATE`,
			requestID,
		).StructScan(&cr)
		if err != nil {
			return ledger.MapError(err)
		}

		if cr.Processed {
			out = &cr
			return ErrAlreadyProcessed
		}

		err = tx.QueryRowxContext(ctx, `
			UPDATE credit_requests
			SET status = $2, processed = true, admin_notes = $3, updated_at = NOW()
			WHERE id = $1
			RETURNING `+creditRequestColumns,
			requestID, status, adminNotes,
		).StructScan(&cr)
		if err != nil {
			return ledger.MapError(err)
		}

		if status == StatusApproved {
			if err := ledger.ApplyDelta(ctx, tx, "users", "credit", cr.UserID, cr.Amount); err != nil {
				return err
			}
		}

		out = &cr
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			// The rollback left the record untouched; return it so the
			// caller can report the idempotent outcome.
			return out, err
		}
		return nil, err
	}

	return out, nil
}

// CreateChargeSale is one unit of work: lock the user row, re-check the
// balance under the lock, then apply both deltas and insert the sale. The
// balance check never runs against a pre-lock read; a concurrent sale that
// drained the balance is seen here because its commit happened before this
// lock was granted.
func (r *repository) CreateChargeSale(ctx context.Context, userID, phoneNumberID int, amount int64) (*ChargeSale, error) {
	var out *ChargeSale

	err := r.store.WithinTx(ctx, func(tx *sqlx.Tx) error {
		u, err := ledger.LockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		var active bool
		err = tx.QueryRowxContext(ctx,
			`SELECT is_active FROM phone_numbers WHERE id = $1`,
			phoneNumberID,
		).Scan(&active)
		if err != nil {
			return ledger.MapError(err)
		}
		if !active {
			return ErrPhoneInactive
		}

		if u.Credit < amount {
			return ErrInsufficientCredit
		}

		if err := ledger.ApplyDelta(ctx, tx, "users", "credit", userID, -amount); err != nil {
			return err
		}
		if err := ledger.ApplyDelta(ctx, tx, "phone_numbers", "current_charge", phoneNumberID, amount); err != nil {
			return err
		}

		var sale ChargeSale
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO charge_sales (user_id, phone_number_id, amount, status, processed)
			VALUES ($1, $2, $3, $4, true)
			RETURNING `+chargeSaleColumns,
			userID, phoneNumberID, amount, StatusCompleted,
		).StructScan(&sale)
		if err != nil {
			return ledger.MapError(err)
		}

		out = &sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *repository) ListCreditRequests(ctx context.Context, userID, limit, offset int) ([]CreditRequest, error) {
	if limit <= 0 {
		limit = 50
	}

	requests := []CreditRequest{}
	err := r.store.DB().SelectContext(ctx, &requests, `
		SELECT `+creditRequestColumns+`
		FROM credit_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *repository) ListChargeSales(ctx context.Context, userID, limit, offset int) ([]ChargeSale, error) {
	if limit <= 0 {
		limit = 50
	}

	sales := []ChargeSale{}
	err := r.store.DB().SelectContext(ctx, &sales, `
		SELECT `+chargeSaleColumns+`
		FROM charge_sales
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return sales, nil
}
