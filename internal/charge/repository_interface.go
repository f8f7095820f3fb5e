package charge

import "context"

type Repository interface {
	CreateCreditRequest(ctx context.Context, userID int, amount int64) (*CreditRequest, error)
	ApproveCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error)
	RejectCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error)
	ListCreditRequests(ctx context.Context, userID, limit, offset int) ([]CreditRequest, error)
	CreateChargeSale(ctx context.Context, userID, phoneNumberID int, amount int64) (*ChargeSale, error)
	ListChargeSales(ctx context.Context, userID, limit, offset int) ([]ChargeSale, error)
}
