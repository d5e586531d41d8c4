package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/models"
)

func TestGetSettlementBalances_Partitioning(t *testing.T) {
	t.Run("NORMAL expenses become reimbursements", func(t *testing.T) {
		result := GetSettlementBalances([]*models.Expense{
			makeExpense("e1", 1000, "A", []string{"A", "B"}),
		})
		assert.Len(t, result.Normal.Reimbursements, 1)
		assert.Empty(t, result.Straight)
		assert.Empty(t, result.Lease)
	})

	t.Run("STRAIGHT expenses become straight items", func(t *testing.T) {
		result := GetSettlementBalances([]*models.Expense{
			makeExpense("e1", 1000, "A", []string{"A", "B"}, withMode(models.SettlementModeStraight)),
		})
		assert.Empty(t, result.Normal.Reimbursements)
		require.Len(t, result.Straight, 1)
		assert.Equal(t, "B", result.Straight[0].From)
		assert.Equal(t, "A", result.Straight[0].To)
		assert.Equal(t, int64(500), result.Straight[0].Amount)
		assert.Empty(t, result.Lease)
	})

	t.Run("LEASE expenses become lease items", func(t *testing.T) {
		result := GetSettlementBalances([]*models.Expense{
			makeExpense("e1", 3000, "A", []string{"A", "B", "C"}, withLease("A", "Samsung TV")),
		})
		assert.Empty(t, result.Normal.Reimbursements)
		assert.Empty(t, result.Straight)
		require.Len(t, result.Lease, 1)
		assert.Equal(t, "Samsung TV", result.Lease[0].ItemName)
		assert.Equal(t, "A", result.Lease[0].OwnerID)
		assert.Equal(t, []BuybackShare{{"B", 1000}, {"C", 1000}}, result.Lease[0].BuybackBreakdown)
	})

	t.Run("unset settlement mode is NORMAL", func(t *testing.T) {
		result := GetSettlementBalances([]*models.Expense{
			makeExpense("e1", 1000, "A", []string{"A", "B"}, withMode("")),
		})
		assert.Len(t, result.Normal.Reimbursements, 1)
		assert.Empty(t, result.Straight)
		assert.Empty(t, result.Lease)
	})
}

func TestGetSettlementBalances_MixedModes(t *testing.T) {
	result := GetSettlementBalances([]*models.Expense{
		makeExpense("e1", 1000, "A", []string{"A", "B"}),
		makeExpense("e2", 600, "A", []string{"A", "B"}, withMode(models.SettlementModeStraight)),
		makeExpense("e3", 3000, "A", []string{"A", "B"}, withLease("A", "Couch")),
	})

	assert.Equal(t, []Reimbursement{{From: "B", To: "A", Amount: 500}}, result.Normal.Reimbursements)
	assert.Equal(t, Balance{Paid: 500, Total: 500}, result.Normal.PublicBalances["A"])
	assert.Equal(t, Balance{PaidFor: 500, Total: -500}, result.Normal.PublicBalances["B"])

	require.Len(t, result.Straight, 1)
	assert.Equal(t, int64(300), result.Straight[0].Amount)

	require.Len(t, result.Lease, 1)
	assert.Equal(t, []BuybackShare{{"B", 1500}}, result.Lease[0].BuybackBreakdown)

	// 500 normal + 300 straight + 1500 unpaid buy-in; the buy-back is not active
	assert.Equal(t, Totals{TotalOwed: 2300, TotalOwedToYou: 0, Net: 2300}, result.Totals)
}

func TestGetSettlementBalances_Totals(t *testing.T) {
	tests := []struct {
		name string
		opts []func(*models.Expense)
		want int64
	}{
		{"buy-in unpaid, buy-back inactive", nil, 2000},
		{"buy-in paid, buy-back inactive", []func(*models.Expense){withBuyInPaid("B", "C")}, 0},
		{"buy-back active", []func(*models.Expense){withBuyInPaid("B", "C"), withBuyback(true, false)}, 2000},
		{"buy-back completed", []func(*models.Expense){withBuyInPaid("B", "C"), withBuyback(true, true)}, 0},
		{"one buy-in paid, buy-back active", []func(*models.Expense){withBuyInPaid("C"), withBuyback(true, false)}, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]func(*models.Expense){withLease("A", "TV")}, tt.opts...)
			result := GetSettlementBalances([]*models.Expense{
				makeExpense("e1", 3000, "A", []string{"A", "B", "C"}, opts...),
			})
			assert.Equal(t, tt.want, result.Totals.TotalOwed)
			assert.Equal(t, tt.want, result.Totals.Net)
		})
	}
}

func TestGetStraightBalanceItems(t *testing.T) {
	t.Run("one line per non-payer participant", func(t *testing.T) {
		items := GetStraightBalanceItems([]*models.Expense{
			makeExpense("e1", 3000, "A", []string{"A", "B", "C"}, withTitle("Groceries")),
		})
		assert.Equal(t, []StraightBalanceItem{
			{ExpenseID: "e1", ExpenseTitle: "Groceries", From: "B", To: "A", Amount: 1000},
			{ExpenseID: "e1", ExpenseTitle: "Groceries", From: "C", To: "A", Amount: 1000},
		}, items)
	})

	t.Run("never nets across expenses", func(t *testing.T) {
		items := GetStraightBalanceItems([]*models.Expense{
			makeExpense("e1", 1000, "A", []string{"A", "B"}),
			makeExpense("e2", 1000, "B", []string{"A", "B"}),
		})
		require.Len(t, items, 2)
		assert.Equal(t, "B", items[0].From)
		assert.Equal(t, "A", items[0].To)
		assert.Equal(t, int64(500), items[0].Amount)
		assert.Equal(t, "A", items[1].From)
		assert.Equal(t, "B", items[1].To)
		assert.Equal(t, int64(500), items[1].Amount)
	})

	t.Run("zero shares are skipped", func(t *testing.T) {
		expense := makeExpense("e1", 1000, "A", nil)
		expense.SplitMode = models.SplitModeByAmount
		expense.PaidFor = paidFor(map[string]int64{"A": 1000, "B": 0}, "B", "A")

		assert.Empty(t, GetStraightBalanceItems([]*models.Expense{expense}))
	})
}
