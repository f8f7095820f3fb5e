package charge

import "errors"

var (
	// ErrAmountNotPositive rejects zero or negative amounts before any
	// unit of work starts.
	ErrAmountNotPositive = errors.New("amount must be a positive integer")

	// ErrPhoneInactive rejects sales against a deactivated phone number.
	ErrPhoneInactive = errors.New("phone number is not active")

	// ErrAlreadyProcessed is the idempotent no-op outcome: the request was
	// processed earlier and the balance is untouched by this call.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrInsufficientCredit is the business outcome for a sale the locked
	// balance cannot cover. Nothing was mutated.
	ErrInsufficientCredit = errors.New("insufficient credit")
)
