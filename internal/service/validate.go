package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
)

const minLeaseItemNameLen = 2

// validateParticipant checks that id is one of the group's participants.
func validateParticipant(field, id string, group *models.Group) error {
	if id == "" {
		return fmt.Errorf("%s required", field)
	}
	if !group.HasParticipant(id) {
		return fmt.Errorf("%s '%s' must be a participant of the group", field, id)
	}
	return nil
}

// validateSplit checks one amount's recipients: each a group participant,
// none listed twice, shares consistent with the split mode.
func validateSplit(field string, amount int64, mode models.SplitMode, paidFor []models.PaidFor, group *models.Group) error {
	if !mode.Valid() {
		return fmt.Errorf("%s: unknown split mode %q", field, mode)
	}

	seen := make(map[string]bool, len(paidFor))
	for _, pf := range paidFor {
		if err := validateParticipant(field, pf.ParticipantID, group); err != nil {
			return err
		}
		if seen[pf.ParticipantID] {
			return fmt.Errorf("%s: participant '%s' listed twice", field, pf.ParticipantID)
		}
		seen[pf.ParticipantID] = true
	}

	if err := calculator.ValidateSplit(amount, mode, paidFor); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// validateExpense checks an expense against its group before it is stored.
// The engine tolerates inconsistent splits; new records are held to them.
func validateExpense(expense *models.Expense, group *models.Group) error {
	if expense.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if !expense.SettlementMode.Valid() {
		return fmt.Errorf("unknown settlement mode %q", expense.SettlementMode)
	}
	if err := validateParticipant("paid_by", expense.PaidBy, group); err != nil {
		return err
	}

	var subItemTotal int64
	for i, si := range expense.SubItems {
		if si.Amount <= 0 {
			return fmt.Errorf("sub_items[%d]: amount must be positive", i)
		}
		if err := validateSplit(fmt.Sprintf("sub_items[%d].paid_for", i), si.Amount, si.SplitMode, si.PaidFor, group); err != nil {
			return err
		}
		subItemTotal += si.Amount
	}
	if subItemTotal > expense.Amount {
		return fmt.Errorf("sub-items total %d exceeds amount %d", subItemTotal, expense.Amount)
	}

	// The split only applies to what the sub-items leave over.
	if remainder := expense.Amount - subItemTotal; remainder > 0 || len(expense.PaidFor) > 0 {
		if err := validateSplit("paid_for", remainder, expense.SplitMode, expense.PaidFor, group); err != nil {
			return err
		}
	}

	if expense.SettlementMode == models.SettlementModeLease {
		if err := validateLease(expense, group); err != nil {
			return err
		}
	}

	return nil
}

// validateLease checks the fields every LEASE record carries: an owner in
// the group, an item name and a buy-back date. Paid buy-ins must belong to
// participants who owe one.
func validateLease(expense *models.Expense, group *models.Group) error {
	if expense.LeaseOwnerID == nil {
		return fmt.Errorf("lease_owner_id required")
	}
	if err := validateParticipant("lease_owner_id", *expense.LeaseOwnerID, group); err != nil {
		return err
	}
	if expense.LeaseItemName == nil || utf8.RuneCountInString(strings.TrimSpace(*expense.LeaseItemName)) < minLeaseItemNameLen {
		return fmt.Errorf("lease_item_name must be at least %d characters", minLeaseItemNameLen)
	}
	if expense.LeaseBuybackDate == nil {
		return fmt.Errorf("lease_buyback_date required")
	}

	owing := buyInParticipants(expense)
	for _, id := range expense.LeaseBuyInPayments {
		if err := validateParticipant("lease_buy_in_payments", id, group); err != nil {
			return err
		}
		if !owing[id] {
			return fmt.Errorf("lease_buy_in_payments: participant '%s' owes no buy-in", id)
		}
	}
	return nil
}

// buyInParticipants is the set of participants owing a buy-in on a LEASE
// expense: everyone but the payer with a non-zero share.
func buyInParticipants(expense *models.Expense) map[string]bool {
	owing := make(map[string]bool)
	for _, share := range calculator.ExpenseShares(expense) {
		if share.ParticipantID != expense.PaidBy && share.Amount != 0 {
			owing[share.ParticipantID] = true
		}
	}
	return owing
}
