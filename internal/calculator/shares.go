package calculator

import "github.com/mmynk/settleup/internal/models"

// ExpenseShares computes what each participant owes for one expense.
//
// The part of the amount not covered by sub-items is distributed with the
// expense's own split; each sub-item is distributed with its own split.
// Contributions are summed per participant in first-seen order, so the
// result is deterministic for a given expense.
func ExpenseShares(expense *models.Expense) []Share {
	var subItemTotal int64
	for _, si := range expense.SubItems {
		subItemTotal += si.Amount
	}
	remainder := expense.Amount - subItemTotal

	acc := newShareAccumulator()
	if remainder > 0 {
		acc.add(Distribute(remainder, expense.SplitMode, expense.PaidFor))
	}
	for _, si := range expense.SubItems {
		acc.add(Distribute(si.Amount, si.SplitMode, si.PaidFor))
	}
	return acc.shares()
}

// shareAccumulator sums shares per participant, keeping insertion order.
type shareAccumulator struct {
	order   []string
	amounts map[string]int64
}

func newShareAccumulator() *shareAccumulator {
	return &shareAccumulator{amounts: make(map[string]int64)}
}

func (a *shareAccumulator) add(shares []Share) {
	for _, s := range shares {
		if _, seen := a.amounts[s.ParticipantID]; !seen {
			a.order = append(a.order, s.ParticipantID)
		}
		a.amounts[s.ParticipantID] += s.Amount
	}
}

func (a *shareAccumulator) shares() []Share {
	out := make([]Share, len(a.order))
	for i, id := range a.order {
		out[i] = Share{ParticipantID: id, Amount: a.amounts[id]}
	}
	return out
}
