package reconcile

import (
	"context"
	"fmt"

	"chargeledger/internal/metrics"
)

type Service interface {
	ValidateGlobal(ctx context.Context) (*Report, error)
	ValidateUser(ctx context.Context, userID int) (*Report, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// buildReport derives the five figures: spent credit is approved credit
// minus remaining credit, and the books balance when spent equals the sum
// of completed charge sales.
func buildReport(f *Figures, scope string) *Report {
	spent := f.ApprovedCredits - f.CurrentCredits
	consistent := spent == f.ChargeSales

	detail := fmt.Sprintf(
		"%s: approved=%d current=%d spent=%d sales=%d",
		scope, f.ApprovedCredits, f.CurrentCredits, spent, f.ChargeSales,
	)
	if consistent {
		detail += " (consistent)"
	} else {
		detail += fmt.Sprintf(" (INCONSISTENT, drift=%d)", spent-f.ChargeSales)
	}

	return &Report{
		TotalApprovedCredits: f.ApprovedCredits,
		CurrentUserCredits:   f.CurrentCredits,
		TotalSpentCredits:    spent,
		TotalChargeSales:     f.ChargeSales,
		IsConsistent:         consistent,
		Detail:               detail,
	}
}

func (s *service) ValidateGlobal(ctx context.Context) (*Report, error) {
	figures, err := s.repo.GlobalFigures(ctx)
	if err != nil {
		return nil, err
	}

	report := buildReport(figures, "global")
	metrics.RecordReconciliation(report.IsConsistent, report.TotalSpentCredits-report.TotalChargeSales)

	return report, nil
}

func (s *service) ValidateUser(ctx context.Context, userID int) (*Report, error) {
	figures, err := s.repo.UserFigures(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildReport(figures, fmt.Sprintf("user %d", userID)), nil
}
