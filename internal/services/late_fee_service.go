package services

import (
	"math"
	"time"

	"github.com/sbci/institute-api/internal/models"
)

// LateFeeService computes late fee surcharges from a rule and a due date
type LateFeeService struct{}

// NewLateFeeService creates a new late fee service
func NewLateFeeService() *LateFeeService {
	return &LateFeeService{}
}

// Calculate returns the surcharge due on an installment under rule, given
// the due date and the day of payment. On or before the due date the fee
// is always zero. A nil rule or an unrecognized rule type also yields zero,
// so a misconfigured rule can never block a payment.
func (s *LateFeeService) Calculate(rule *models.LateFeeRule, dueDate, paidOn time.Time) float64 {
	if rule == nil {
		return 0
	}

	due := truncateToDay(dueDate)
	paid := truncateToDay(paidOn)
	if !paid.After(due) {
		return 0
	}

	daysLate := int(math.Ceil(paid.Sub(due).Hours() / 24))

	switch rule.Type {
	case models.LateFeePerDay:
		return float64(daysLate) * rule.Amount
	case models.LateFeePerWeek:
		weeks := int(math.Ceil(float64(daysLate) / 7))
		return float64(weeks) * rule.Amount
	case models.LateFeeFixed:
		return rule.Amount
	default:
		return 0
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
