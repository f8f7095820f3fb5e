package charge

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"

	// Charge sale statuses. A sale is COMPLETED once the synchronous path
	// commits; PENDING/FAILED exist for provider flows where the external
	// call happens outside the unit of work.
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Transaction is the base shape shared by credit requests and charge sales.
// Processed guards the balance delta: it flips false→true at most once, and
// once true the delta has been applied exactly once.
type Transaction struct {
	ID         int       `db:"id" json:"id"`
	UserID     int       `db:"user_id" json:"user_id"`
	Amount     int64     `db:"amount" json:"amount"`
	Status     Status    `db:"status" json:"status"`
	Processed  bool      `db:"processed" json:"processed"`
	AdminNotes string    `db:"admin_notes" json:"admin_notes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreditRequest adds credit to the user's balance when approved.
type CreditRequest struct {
	Transaction
}

// ChargeSale subtracts credit from the user and adds it to the phone
// number's running charge. APIResponse holds the opaque provider payload
// when one exists.
type ChargeSale struct {
	Transaction
	PhoneNumberID int             `db:"phone_number_id" json:"phone_number_id"`
	APIResponse   json.RawMessage `db:"api_response" json:"api_response,omitempty"`
}

type CreateCreditRequestInput struct {
	Amount int64 `json:"amount" binding:"required"`
}

type ReviewInput struct {
	AdminNotes string `json:"admin_notes"`
}

type CreateChargeSaleInput struct {
	Amount        int64 `json:"amount" binding:"required"`
	PhoneNumberID int   `json:"phone_number_id" binding:"required"`
}
