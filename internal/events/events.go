package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicCreditApproved  = "credit_approved"
	TopicChargeCompleted = "charge_completed"
)

// Publisher emits domain events after a unit of work has committed.
// Publishing never happens inside a locked section.
type Publisher interface {
	Publish(topic string, event any) error
	Close() error
}

type CreditApproved struct {
	EventID    string    `json:"event_id"`
	RequestID  int       `json:"request_id"`
	UserID     int       `json:"user_id"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ChargeCompleted struct {
	EventID       string    `json:"event_id"`
	SaleID        int       `json:"sale_id"`
	UserID        int       `json:"user_id"`
	PhoneNumberID int       `json:"phone_number_id"`
	Amount        int64     `json:"amount"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewCreditApproved(requestID, userID int, amount int64) CreditApproved {
	return CreditApproved{
		EventID:    uuid.NewString(),
		RequestID:  requestID,
		UserID:     userID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

func NewChargeCompleted(saleID, userID, phoneNumberID int, amount int64) ChargeCompleted {
	return ChargeCompleted{
		EventID:       uuid.NewString(),
		SaleID:        saleID,
		UserID:        userID,
		PhoneNumberID: phoneNumberID,
		Amount:        amount,
		OccurredAt:    time.Now().UTC(),
	}
}
