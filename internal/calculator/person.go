package calculator

import (
	"cmp"
	"slices"
)

// DebtType tags where a person's debt comes from.
type DebtType string

const (
	DebtTypeNormal       DebtType = "normal"
	DebtTypeStraight     DebtType = "straight"
	DebtTypeLeaseBuyIn   DebtType = "lease-buyin"
	DebtTypeLeaseBuyback DebtType = "lease-buyback"
)

// PersonDebtItem is one obligation of a person towards a creditor.
type PersonDebtItem struct {
	Type               DebtType
	Amount             int64
	ExpenseID          string // straight only
	ExpenseTitle       string // straight only
	LeaseItemName      string // lease only
	LeaseExpenseID     string // lease only
	BuyInParticipantID string // lease-buyin only
}

// CreditorDebt groups everything a person owes one creditor.
type CreditorDebt struct {
	CreditorID  string
	TotalAmount int64
	Items       []PersonDebtItem
}

// GetPersonDebts lists everything personID owes, grouped by creditor and
// sorted by total descending, then by creditor ID.
//
// Buy-back debts are reported from the owner's side: while a buy-back is
// outstanding the owner owes each co-user their share.
func GetPersonDebts(personID string, reimbursements []Reimbursement, straight []StraightBalanceItem, lease []LeaseItem) []CreditorDebt {
	byCreditor := make(map[string]*CreditorDebt)
	add := func(creditorID string, item PersonDebtItem) {
		debt, ok := byCreditor[creditorID]
		if !ok {
			debt = &CreditorDebt{CreditorID: creditorID}
			byCreditor[creditorID] = debt
		}
		debt.Items = append(debt.Items, item)
		debt.TotalAmount += item.Amount
	}

	for _, r := range reimbursements {
		if r.From == personID {
			add(r.To, PersonDebtItem{Type: DebtTypeNormal, Amount: r.Amount})
		}
	}

	for _, s := range straight {
		if s.From == personID {
			add(s.To, PersonDebtItem{
				Type:         DebtTypeStraight,
				Amount:       s.Amount,
				ExpenseID:    s.ExpenseID,
				ExpenseTitle: s.ExpenseTitle,
			})
		}
	}

	for _, item := range lease {
		for _, b := range item.BuyInBreakdown {
			if b.ParticipantID == personID && !b.Paid {
				add(item.OwnerID, PersonDebtItem{
					Type:               DebtTypeLeaseBuyIn,
					Amount:             b.Amount,
					LeaseItemName:      item.ItemName,
					LeaseExpenseID:     item.ExpenseID,
					BuyInParticipantID: b.ParticipantID,
				})
			}
		}

		if item.OwnerID == personID && item.BuybackOutstanding() {
			for _, b := range item.BuybackBreakdown {
				add(b.ParticipantID, PersonDebtItem{
					Type:           DebtTypeLeaseBuyback,
					Amount:         b.Amount,
					LeaseItemName:  item.ItemName,
					LeaseExpenseID: item.ExpenseID,
				})
			}
		}
	}

	debts := make([]CreditorDebt, 0, len(byCreditor))
	for _, debt := range byCreditor {
		debts = append(debts, *debt)
	}
	slices.SortFunc(debts, func(a, b CreditorDebt) int {
		if c := cmp.Compare(b.TotalAmount, a.TotalAmount); c != 0 {
			return c
		}
		return cmp.Compare(a.CreditorID, b.CreditorID)
	})
	return debts
}

// GetViewerTotals computes grand totals from one participant's point of view:
// what they owe anyone and what anyone owes them. Debts a participant would
// owe themselves (an owner listed in their own buy-in) are left out.
func GetViewerTotals(personID string, result SettlementBalances) Totals {
	var totals Totals

	for _, debt := range GetPersonDebts(personID, result.Normal.Reimbursements, result.Straight, result.Lease) {
		if debt.CreditorID != personID {
			totals.TotalOwed += debt.TotalAmount
		}
	}

	for _, r := range result.Normal.Reimbursements {
		if r.To == personID {
			totals.TotalOwedToYou += r.Amount
		}
	}
	for _, s := range result.Straight {
		if s.To == personID {
			totals.TotalOwedToYou += s.Amount
		}
	}
	for _, item := range result.Lease {
		if item.OwnerID == personID {
			for _, b := range item.BuyInBreakdown {
				if !b.Paid && b.ParticipantID != personID {
					totals.TotalOwedToYou += b.Amount
				}
			}
		}
		if item.BuybackOutstanding() && item.OwnerID != personID {
			for _, b := range item.BuybackBreakdown {
				if b.ParticipantID == personID {
					totals.TotalOwedToYou += b.Amount
				}
			}
		}
	}

	totals.Net = totals.TotalOwed - totals.TotalOwedToYou
	return totals
}
