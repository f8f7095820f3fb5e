package reconcile

// Figures are the raw aggregates a report is computed from.
type Figures struct {
	ApprovedCredits int64
	CurrentCredits  int64
	ChargeSales     int64
}

// Report cross-checks credit granted, credit remaining and credit spent.
// It is computed from a snapshot read without locks; under concurrent
// mutation it is a diagnostic, not a transactional guarantee.
type Report struct {
	TotalApprovedCredits int64  `json:"total_approved_credits"`
	CurrentUserCredits   int64  `json:"current_user_credits"`
	TotalSpentCredits    int64  `json:"total_spent_credits"`
	TotalChargeSales     int64  `json:"total_charge_sales"`
	IsConsistent         bool   `json:"is_consistent"`
	Detail               string `json:"detail"`
}
