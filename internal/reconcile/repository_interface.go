package reconcile

import "context"

type Repository interface {
	GlobalFigures(ctx context.Context) (*Figures, error)
	UserFigures(ctx context.Context, userID int) (*Figures, error)
}
