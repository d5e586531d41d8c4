package models

import "time"

// SplitMode describes how an amount is divided among recipients.
type SplitMode string

const (
	SplitModeEvenly       SplitMode = "EVENLY"
	SplitModeByShares     SplitMode = "BY_SHARES"
	SplitModeByPercentage SplitMode = "BY_PERCENTAGE"
	SplitModeByAmount     SplitMode = "BY_AMOUNT"
)

// Valid reports whether m is one of the known split modes.
func (m SplitMode) Valid() bool {
	switch m {
	case SplitModeEvenly, SplitModeByShares, SplitModeByPercentage, SplitModeByAmount:
		return true
	}
	return false
}

// SettlementMode describes how the debt created by an expense is resolved.
type SettlementMode string

const (
	// SettlementModeNormal expenses are netted into group-wide reimbursements.
	SettlementModeNormal SettlementMode = "NORMAL"
	// SettlementModeStraight expenses create direct per-expense debts that are never netted.
	SettlementModeStraight SettlementMode = "STRAIGHT"
	// SettlementModeLease expenses create buy-in debts to the item owner and a
	// deferred buy-back from the owner to each co-user.
	SettlementModeLease SettlementMode = "LEASE"
)

// Valid reports whether m is one of the known settlement modes.
// The empty mode of legacy records is not valid input but is tolerated on read.
func (m SettlementMode) Valid() bool {
	switch m {
	case SettlementModeNormal, SettlementModeStraight, SettlementModeLease:
		return true
	}
	return false
}

// PaidFor assigns a number of shares of an amount to one participant.
// The meaning of Shares depends on the split mode: ignored for EVENLY,
// a weight for BY_SHARES, basis points (summing to 10000) for BY_PERCENTAGE
// and minor units (summing to the amount) for BY_AMOUNT.
type PaidFor struct {
	ParticipantID string
	Shares        int64
}

// SubItem is a portion of an expense with its own split,
// e.g. the pretzels that only two of the five diners shared.
type SubItem struct {
	ID        string
	Title     string
	Amount    int64
	SplitMode SplitMode
	PaidFor   []PaidFor
}

// Expense is a payment made by one participant on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	Title string

	// Amount is the total paid, in minor units.
	Amount int64

	SplitMode SplitMode

	// SettlementMode is empty on records created before settlement modes
	// existed; use EffectiveSettlementMode.
	SettlementMode SettlementMode

	// PaidBy is the participant who paid the full amount.
	PaidBy string

	// PaidFor is the ordered split of the part of Amount not covered by SubItems.
	PaidFor []PaidFor

	SubItems []SubItem

	// IsReimbursement marks a transfer between participants recorded as an
	// expense. It settles balances like any other expense but is excluded
	// from spending statistics.
	IsReimbursement bool

	ExpenseDate time.Time

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Lease fields, only meaningful when the settlement mode is LEASE.
	LeaseOwnerID          *string
	LeaseItemName         *string
	LeaseBuybackDate      *time.Time
	LeaseBuybackActive    bool
	LeaseBuybackCompleted bool

	// LeaseBuyInPayments lists the participants who have paid their buy-in.
	LeaseBuyInPayments []string
}

// EffectiveSettlementMode returns the settlement mode, treating the unset
// mode of legacy records as NORMAL.
func (e *Expense) EffectiveSettlementMode() SettlementMode {
	if e.SettlementMode == "" {
		return SettlementModeNormal
	}
	return e.SettlementMode
}

// LeaseOwner returns the lease owner, defaulting to the payer.
func (e *Expense) LeaseOwner() string {
	if e.LeaseOwnerID != nil && *e.LeaseOwnerID != "" {
		return *e.LeaseOwnerID
	}
	return e.PaidBy
}

// HasPaidBuyIn reports whether participantID has paid their buy-in.
func (e *Expense) HasPaidBuyIn(participantID string) bool {
	for _, id := range e.LeaseBuyInPayments {
		if id == participantID {
			return true
		}
	}
	return false
}
