package charge

import (
	"context"
	"errors"

	"chargeledger/internal/events"
	"chargeledger/internal/ledger"
	"chargeledger/internal/logger"
	"chargeledger/internal/metrics"
	"chargeledger/internal/phone"
	"chargeledger/internal/user"
)

// Notifier delivers user-facing notifications after a unit of work has
// committed. Implemented by the notify package; nil disables notifications.
type Notifier interface {
	CreditApproved(ctx context.Context, email, name string, amount int64) error
	CreditRejected(ctx context.Context, email, name string, amount int64, notes string) error
}

type Service interface {
	CreateCreditRequest(ctx context.Context, userID int, amount int64) (*CreditRequest, error)
	ApproveCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error)
	RejectCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error)
	ListCreditRequests(ctx context.Context, userID, limit, offset int) ([]CreditRequest, error)
	CreateChargeSale(ctx context.Context, userID, phoneNumberID int, amount int64) (*ChargeSale, error)
	ListChargeSales(ctx context.Context, userID, limit, offset int) ([]ChargeSale, error)
}

type service struct {
	repo      Repository
	phoneRepo phone.Repository
	userRepo  user.Repository
	publisher events.Publisher
	notifier  Notifier
}

func NewService(
	repo Repository,
	phoneRepo phone.Repository,
	userRepo user.Repository,
	publisher events.Publisher,
	notifier Notifier,
) Service {
	return &service{
		repo:      repo,
		phoneRepo: phoneRepo,
		userRepo:  userRepo,
		publisher: publisher,
		notifier:  notifier,
	}
}

func (s *service) CreateCreditRequest(ctx context.Context, userID int, amount int64) (*CreditRequest, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	cr, err := s.repo.CreateCreditRequest(ctx, userID, amount)
	if err != nil {
		return nil, err
	}

	metrics.CreditRequestsTotal.Inc()
	return cr, nil
}

func (s *service) ApproveCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error) {
	cr, err := s.repo.ApproveCreditRequest(ctx, requestID, adminNotes)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			metrics.RecordApproval("already_processed")
		case errors.Is(err, ledger.ErrBusy):
			metrics.RecordApproval("busy")
			metrics.LockBusyTotal.WithLabelValues("approve_credit_request").Inc()
		}
		return cr, err
	}

	metrics.RecordApproval("approved")
	s.publish(events.TopicCreditApproved, events.NewCreditApproved(cr.ID, cr.UserID, cr.Amount))

	if s.notifier != nil {
		if u, uerr := s.userRepo.FindByID(ctx, cr.UserID); uerr == nil {
			if nerr := s.notifier.CreditApproved(ctx, u.Email, u.Name, cr.Amount); nerr != nil {
				logger.Errorf("Failed to queue approval notification for user %d: %v", cr.UserID, nerr)
			}
		}
	}

	return cr, nil
}

func (s *service) RejectCreditRequest(ctx context.Context, requestID int, adminNotes string) (*CreditRequest, error) {
	cr, err := s.repo.RejectCreditRequest(ctx, requestID, adminNotes)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyProcessed):
			metrics.RecordApproval("already_processed")
		case errors.Is(err, ledger.ErrBusy):
			metrics.RecordApproval("busy")
			metrics.LockBusyTotal.WithLabelValues("reject_credit_request").Inc()
		}
		return cr, err
	}

	metrics.RecordApproval("rejected")

	if s.notifier != nil {
		if u, uerr := s.userRepo.FindByID(ctx, cr.UserID); uerr == nil {
			if nerr := s.notifier.CreditRejected(ctx, u.Email, u.Name, cr.Amount, adminNotes); nerr != nil {
				logger.Errorf("Failed to queue rejection notification for user %d: %v", cr.UserID, nerr)
			}
		}
	}

	return cr, nil
}

func (s *service) ListCreditRequests(ctx context.Context, userID, limit, offset int) ([]CreditRequest, error) {
	return s.repo.ListCreditRequests(ctx, userID, limit, offset)
}

func (s *service) CreateChargeSale(ctx context.Context, userID, phoneNumberID int, amount int64) (*ChargeSale, error) {
	if amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	// Input validation against a snapshot read. The repository re-verifies
	// the phone inside the unit of work; the balance check only ever
	// happens there, under the user-row lock.
	p, err := s.phoneRepo.GetByID(ctx, phoneNumberID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPhoneInactive
	}

	sale, err := s.repo.CreateChargeSale(ctx, userID, phoneNumberID, amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientCredit):
			metrics.RecordChargeSale("insufficient_credit")
		case errors.Is(err, ledger.ErrBusy):
			metrics.RecordChargeSale("busy")
			metrics.LockBusyTotal.WithLabelValues("create_charge_sale").Inc()
		default:
			metrics.RecordChargeSale("error")
		}
		return nil, err
	}

	metrics.RecordChargeSale("completed")
	s.publish(events.TopicChargeCompleted, events.NewChargeCompleted(sale.ID, sale.UserID, sale.PhoneNumberID, sale.Amount))

	return sale, nil
}

func (s *service) ListChargeSales(ctx context.Context, userID, limit, offset int) ([]ChargeSale, error) {
	return s.repo.ListChargeSales(ctx, userID, limit, offset)
}

func (s *service) publish(topic string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(topic, event); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
		logger.Errorf("Failed to publish %s event: %v", topic, err)
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(topic, "ok").Inc()
}
