package phone

import "context"

type Repository interface {
	Create(ctx context.Context, number, title string) (*PhoneNumber, error)
	GetByID(ctx context.Context, id int) (*PhoneNumber, error)
	ListActive(ctx context.Context) ([]PhoneNumber, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
}
