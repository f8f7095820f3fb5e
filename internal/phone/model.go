package phone

import "time"

// PhoneNumber is a chargeable line. CurrentCharge is a running total of the
// amounts sold against it; it only grows, and only through charge-sale
// units of work.
type PhoneNumber struct {
	ID            int       `db:"id" json:"id"`
	Number        string    `db:"number" json:"number"`
	Title         string    `db:"title" json:"title"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CurrentCharge int64     `db:"current_charge" json:"current_charge"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Number string `json:"number" binding:"required"`
	Title  string `json:"title"`
}
