package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
)

// personScenario is seen from B: B owes A through all three modes and C
// through a normal reimbursement, while C owes B a straight line and a buy-in.
func personScenario() SettlementBalances {
	return SettlementBalances{
		Normal: NormalSettlement{
			Reimbursements: []Reimbursement{
				{From: "B", To: "A", Amount: 500},
				{From: "B", To: "C", Amount: 600},
				{From: "D", To: "A", Amount: 200},
			},
		},
		Straight: []StraightBalanceItem{
			{ExpenseID: "s1", ExpenseTitle: "Taxi", From: "C", To: "B", Amount: 800},
		},
		Lease: []LeaseItem{
			{
				ExpenseID:        "l1",
				ItemName:         "TV",
				OwnerID:          "A",
				BuybackBreakdown: []BuybackShare{{"B", 1000}},
				BuyInBreakdown:   []BuyInShare{{"B", 1000, false}},
			},
			{
				ExpenseID:        "l2",
				ItemName:         "Couch",
				OwnerID:          "B",
				BuybackActive:    true,
				BuybackBreakdown: []BuybackShare{{"A", 300}},
				BuyInBreakdown:   []BuyInShare{{"C", 300, false}},
			},
		},
	}
}

func TestGetPersonDebts(t *testing.T) {
	s := personScenario()
	debts := GetPersonDebts("B", s.Normal.Reimbursements, s.Straight, s.Lease)

	require.Len(t, debts, 2)

	assert.Equal(t, "A", debts[0].CreditorID)
	assert.Equal(t, int64(1800), debts[0].TotalAmount)
	assert.Equal(t, []PersonDebtItem{
		{Type: DebtTypeNormal, Amount: 500},
		{Type: DebtTypeLeaseBuyIn, Amount: 1000, LeaseItemName: "TV", LeaseExpenseID: "l1", BuyInParticipantID: "B"},
		{Type: DebtTypeLeaseBuyback, Amount: 300, LeaseItemName: "Couch", LeaseExpenseID: "l2"},
	}, debts[0].Items)

	assert.Equal(t, "C", debts[1].CreditorID)
	assert.Equal(t, int64(600), debts[1].TotalAmount)
}

func TestGetPersonDebts_StraightItems(t *testing.T) {
	s := personScenario()
	debts := GetPersonDebts("C", s.Normal.Reimbursements, s.Straight, s.Lease)

	require.Len(t, debts, 1)
	assert.Equal(t, "B", debts[0].CreditorID)
	assert.Equal(t, int64(1100), debts[0].TotalAmount)
	assert.Equal(t, PersonDebtItem{Type: DebtTypeStraight, Amount: 800, ExpenseID: "s1", ExpenseTitle: "Taxi"}, debts[0].Items[0])
	assert.Equal(t, DebtTypeLeaseBuyIn, debts[0].Items[1].Type)
}

func TestGetPersonDebts_PaidAndInactiveAreSkipped(t *testing.T) {
	lease := []LeaseItem{{
		ExpenseID:        "l1",
		OwnerID:          "A",
		BuybackCompleted: true,
		BuybackActive:    true,
		BuybackBreakdown: []BuybackShare{{"B", 500}},
		BuyInBreakdown:   []BuyInShare{{"B", 500, true}},
	}}

	assert.Empty(t, GetPersonDebts("B", nil, nil, lease))
	assert.Empty(t, GetPersonDebts("A", nil, nil, lease))
}

func TestGetPersonDebts_TieBreakByCreditorID(t *testing.T) {
	debts := GetPersonDebts("X", []Reimbursement{
		{From: "X", To: "Z", Amount: 100},
		{From: "X", To: "Y", Amount: 100},
	}, nil, nil)

	require.Len(t, debts, 2)
	assert.Equal(t, "Y", debts[0].CreditorID)
	assert.Equal(t, "Z", debts[1].CreditorID)
}

func TestGetPersonDebts_NoDebts(t *testing.T) {
	debts := GetPersonDebts("nobody", personScenario().Normal.Reimbursements, nil, nil)
	assert.NotNil(t, debts)
	assert.Empty(t, debts)
}

func TestGetViewerTotals(t *testing.T) {
	totals := GetViewerTotals("B", personScenario())

	assert.Equal(t, int64(2400), totals.TotalOwed)
	assert.Equal(t, int64(1100), totals.TotalOwedToYou)
	assert.Equal(t, int64(1300), totals.Net)
}

func TestGetViewerTotals_ExcludesSelfDebt(t *testing.T) {
	// P paid for a TV that A keeps; A's own share shows up in the buy-in.
	result := GetSettlementBalances([]*models.Expense{
		makeExpense("e1", 2000, "P", []string{"A", "P"}, withLease("A", "TV")),
	})

	totals := GetViewerTotals("A", result)
	assert.Equal(t, int64(0), totals.TotalOwed)
	assert.Equal(t, int64(0), totals.TotalOwedToYou)

	totals = GetViewerTotals("P", result)
	assert.Equal(t, int64(0), totals.TotalOwed)
	assert.Equal(t, int64(0), totals.TotalOwedToYou)
}
