package calculator

import (
	"slices"
	"strings"

	"github.com/mmynk/settleup/internal/models"
)

// Balance is one participant's position across a set of expenses.
type Balance struct {
	Paid    int64 // Total amount paid
	PaidFor int64 // Total amount this participant consumed
	Total   int64 // Paid - PaidFor; positive = owed money, negative = owes money
}

// Balances maps participant IDs to their balance.
type Balances map[string]Balance

// Reimbursement is a suggested transfer from a debtor to a creditor.
type Reimbursement struct {
	From   string // Participant who owes
	To     string // Participant who is owed
	Amount int64
}

// GetBalances folds expenses into per-participant balances.
// The payer of each expense is credited the full amount and every
// participant is debited their share from ExpenseShares.
func GetBalances(expenses []*models.Expense) Balances {
	balances := make(Balances)

	for _, expense := range expenses {
		payer := balances[expense.PaidBy]
		payer.Paid += expense.Amount
		balances[expense.PaidBy] = payer

		for _, share := range ExpenseShares(expense) {
			b := balances[share.ParticipantID]
			b.PaidFor += share.Amount
			balances[share.ParticipantID] = b
		}
	}

	for id, b := range balances {
		b.Total = b.Paid - b.PaidFor
		balances[id] = b
	}
	return balances
}

// GetPublicBalances derives balances purely from suggested reimbursements,
// so consumers see net debt positions rather than raw paid/paid-for sums.
func GetPublicBalances(reimbursements []Reimbursement) Balances {
	balances := make(Balances)
	for _, r := range reimbursements {
		from := balances[r.From]
		from.PaidFor += r.Amount
		from.Total -= r.Amount
		balances[r.From] = from

		to := balances[r.To]
		to.Paid += r.Amount
		to.Total += r.Amount
		balances[r.To] = to
	}
	return balances
}

type balanceEntry struct {
	participantID string
	total         int64
}

// compareForReimbursements orders creditors before debtors and breaks ties
// by participant ID. The order must not depend on amounts: executing one
// suggested reimbursement should not reshuffle the remaining suggestions.
func compareForReimbursements(a, b balanceEntry) int {
	if a.total > 0 && b.total < 0 {
		return -1
	}
	if b.total > 0 && a.total < 0 {
		return 1
	}
	return strings.Compare(a.participantID, b.participantID)
}

// GetSuggestedReimbursements reduces balances to at most n-1 transfers.
//
// Algorithm:
//   - Keep non-zero balances, creditors first, each side sorted by ID
//   - Repeatedly net the first creditor against the last debtor:
//     the smaller side is settled in full and removed, the other carries
//     the difference
//   - Drop transfers that round to nothing
func GetSuggestedReimbursements(balances Balances) []Reimbursement {
	entries := make([]balanceEntry, 0, len(balances))
	for id, b := range balances {
		if b.Total != 0 {
			entries = append(entries, balanceEntry{participantID: id, total: b.Total})
		}
	}
	slices.SortFunc(entries, compareForReimbursements)

	var reimbursements []Reimbursement
	for len(entries) > 1 {
		first := &entries[0]
		last := &entries[len(entries)-1]
		combined := first.total + last.total

		if first.total > -last.total {
			reimbursements = append(reimbursements, Reimbursement{
				From:   last.participantID,
				To:     first.participantID,
				Amount: -last.total,
			})
			first.total = combined
			entries = entries[:len(entries)-1]
		} else {
			reimbursements = append(reimbursements, Reimbursement{
				From:   last.participantID,
				To:     first.participantID,
				Amount: first.total,
			})
			last.total = combined
			entries = entries[1:]
		}
	}

	// Only inconsistent input (balances not summing to zero) can yield
	// non-positive amounts here.
	out := make([]Reimbursement, 0, len(reimbursements))
	for _, r := range reimbursements {
		if r.Amount > 0 {
			out = append(out, r)
		}
	}
	return out
}
