package calculator

import "github.com/mmynk/settleup/internal/models"

// Stats summarizes group spending. Reimbursement expenses move money between
// participants without being spending, so they are excluded.
type Stats struct {
	TotalGroupSpending int64
	TotalPaid          int64 // Paid by the viewer
	TotalShare         int64 // Consumed by the viewer
}

// GetStats computes spending statistics, from participantID's point of view
// when it is non-empty.
func GetStats(participantID string, expenses []*models.Expense) Stats {
	var stats Stats
	for _, expense := range expenses {
		if expense.IsReimbursement {
			continue
		}
		stats.TotalGroupSpending += expense.Amount
		if participantID == "" {
			continue
		}
		if expense.PaidBy == participantID {
			stats.TotalPaid += expense.Amount
		}
		for _, share := range ExpenseShares(expense) {
			if share.ParticipantID == participantID {
				stats.TotalShare += share.Amount
			}
		}
	}
	return stats
}
