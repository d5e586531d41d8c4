package calculator

import "github.com/mmynk/settleup/internal/models"

// makeExpense builds an EVENLY split NORMAL expense; opts adjust the rest.
func makeExpense(id string, amount int64, paidBy string, paidForIDs []string, opts ...func(*models.Expense)) *models.Expense {
	e := &models.Expense{
		ID:             id,
		Title:          "Test",
		Amount:         amount,
		SplitMode:      models.SplitModeEvenly,
		SettlementMode: models.SettlementModeNormal,
		PaidBy:         paidBy,
		PaidFor:        evenly(paidForIDs...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func withMode(mode models.SettlementMode) func(*models.Expense) {
	return func(e *models.Expense) { e.SettlementMode = mode }
}

func withTitle(title string) func(*models.Expense) {
	return func(e *models.Expense) { e.Title = title }
}

func withLease(ownerID, itemName string) func(*models.Expense) {
	return func(e *models.Expense) {
		e.SettlementMode = models.SettlementModeLease
		if ownerID != "" {
			e.LeaseOwnerID = &ownerID
		}
		if itemName != "" {
			e.LeaseItemName = &itemName
		}
	}
}

func withBuyback(active, completed bool) func(*models.Expense) {
	return func(e *models.Expense) {
		e.LeaseBuybackActive = active
		e.LeaseBuybackCompleted = completed
	}
}

func withBuyInPaid(ids ...string) func(*models.Expense) {
	return func(e *models.Expense) { e.LeaseBuyInPayments = ids }
}
