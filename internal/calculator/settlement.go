package calculator

import "github.com/mmynk/settleup/internal/models"

// StraightBalanceItem is a direct debt created by one STRAIGHT expense.
type StraightBalanceItem struct {
	ExpenseID    string
	ExpenseTitle string
	From         string
	To           string
	Amount       int64
}

// NormalSettlement holds the netted results of NORMAL expenses.
type NormalSettlement struct {
	Balances       Balances
	Reimbursements []Reimbursement
	PublicBalances Balances
}

// Totals are grand totals across all settlement modes.
type Totals struct {
	TotalOwed      int64
	TotalOwedToYou int64
	Net            int64
}

// SettlementBalances is the merged output of all three settlement pipelines.
type SettlementBalances struct {
	Normal   NormalSettlement
	Straight []StraightBalanceItem
	Lease    []LeaseItem
	Totals   Totals
}

// GetSettlementBalances routes expenses to their settlement pipeline and
// merges the results.
//
// Algorithm:
//   - NORMAL (and legacy unset): balances -> suggested reimbursements -> public balances
//   - STRAIGHT: one line per non-payer share, never netted across expenses
//   - LEASE: buy-in and buy-back breakdowns
//   - TotalOwed: every reimbursement, every straight line, every unpaid
//     buy-in and, while the buy-back is outstanding, every buy-back share
//
// TotalOwedToYou depends on who is looking and is left at zero here;
// see GetViewerTotals.
func GetSettlementBalances(expenses []*models.Expense) SettlementBalances {
	var normal, straight, lease []*models.Expense
	for _, expense := range expenses {
		switch expense.EffectiveSettlementMode() {
		case models.SettlementModeStraight:
			straight = append(straight, expense)
		case models.SettlementModeLease:
			lease = append(lease, expense)
		case models.SettlementModeNormal:
			normal = append(normal, expense)
		default:
			normal = append(normal, expense)
		}
	}

	balances := GetBalances(normal)
	reimbursements := GetSuggestedReimbursements(balances)
	publicBalances := GetPublicBalances(reimbursements)

	straightItems := GetStraightBalanceItems(straight)
	leaseItems := GetLeaseItems(lease)

	var totalOwed int64
	for _, r := range reimbursements {
		totalOwed += r.Amount
	}
	for _, item := range straightItems {
		totalOwed += item.Amount
	}
	for _, item := range leaseItems {
		for _, b := range item.BuyInBreakdown {
			if !b.Paid {
				totalOwed += b.Amount
			}
		}
		if item.BuybackOutstanding() {
			for _, b := range item.BuybackBreakdown {
				totalOwed += b.Amount
			}
		}
	}

	totals := Totals{TotalOwed: totalOwed}
	totals.Net = totals.TotalOwed - totals.TotalOwedToYou

	return SettlementBalances{
		Normal: NormalSettlement{
			Balances:       balances,
			Reimbursements: reimbursements,
			PublicBalances: publicBalances,
		},
		Straight: straightItems,
		Lease:    leaseItems,
		Totals:   totals,
	}
}

// GetStraightBalanceItems creates one line per non-payer participant with a
// non-zero share, per expense, in share order.
func GetStraightBalanceItems(expenses []*models.Expense) []StraightBalanceItem {
	items := make([]StraightBalanceItem, 0)
	for _, expense := range expenses {
		for _, share := range ExpenseShares(expense) {
			if share.ParticipantID == expense.PaidBy || share.Amount == 0 {
				continue
			}
			items = append(items, StraightBalanceItem{
				ExpenseID:    expense.ID,
				ExpenseTitle: expense.Title,
				From:         share.ParticipantID,
				To:           expense.PaidBy,
				Amount:       share.Amount,
			})
		}
	}
	return items
}
