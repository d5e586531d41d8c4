package calculator

import (
	"time"

	"github.com/mmynk/settleup/internal/models"
)

// BuybackState is the position of a lease item on the buy-back axis.
type BuybackState string

const (
	BuybackInactive  BuybackState = "inactive"
	BuybackActive    BuybackState = "active"
	BuybackCompleted BuybackState = "completed"
)

// BuybackShare is what the owner pays back to one co-user.
type BuybackShare struct {
	ParticipantID string
	Amount        int64
}

// BuyInShare is what one co-user owes the owner up front.
type BuyInShare struct {
	ParticipantID string
	Amount        int64
	Paid          bool
}

// LeaseItem is the settlement view of one LEASE expense.
type LeaseItem struct {
	ExpenseID        string
	ItemName         string
	TotalCost        int64
	OwnerID          string
	BuybackDate      *time.Time
	BuybackActive    bool
	BuybackCompleted bool
	BuybackBreakdown []BuybackShare
	BuyInBreakdown   []BuyInShare
}

// BuybackState derives the buy-back state from the two stored flags.
// A completed buy-back stays completed whatever the active flag says.
func (l *LeaseItem) BuybackState() BuybackState {
	switch {
	case l.BuybackCompleted:
		return BuybackCompleted
	case l.BuybackActive:
		return BuybackActive
	default:
		return BuybackInactive
	}
}

// BuybackOutstanding reports whether the owner currently owes the buy-back.
func (l *LeaseItem) BuybackOutstanding() bool {
	return l.BuybackActive && !l.BuybackCompleted
}

// GetLeaseItems projects LEASE expenses into buy-in and buy-back breakdowns.
//
// The buy-back goes from the owner to every other participant with a share;
// the buy-in goes from every participant with a share except the payer to
// the owner. Owner and payer differ when someone fronted the money for an
// item another participant keeps.
func GetLeaseItems(expenses []*models.Expense) []LeaseItem {
	items := make([]LeaseItem, 0, len(expenses))
	for _, expense := range expenses {
		ownerID := expense.LeaseOwner()
		shares := ExpenseShares(expense)

		buyback := make([]BuybackShare, 0, len(shares))
		buyIn := make([]BuyInShare, 0, len(shares))
		for _, s := range shares {
			if s.Amount == 0 {
				continue
			}
			if s.ParticipantID != ownerID {
				buyback = append(buyback, BuybackShare{ParticipantID: s.ParticipantID, Amount: s.Amount})
			}
			if s.ParticipantID != expense.PaidBy {
				buyIn = append(buyIn, BuyInShare{
					ParticipantID: s.ParticipantID,
					Amount:        s.Amount,
					Paid:          expense.HasPaidBuyIn(s.ParticipantID),
				})
			}
		}

		itemName := expense.Title
		if expense.LeaseItemName != nil && *expense.LeaseItemName != "" {
			itemName = *expense.LeaseItemName
		}

		items = append(items, LeaseItem{
			ExpenseID:        expense.ID,
			ItemName:         itemName,
			TotalCost:        expense.Amount,
			OwnerID:          ownerID,
			BuybackDate:      expense.LeaseBuybackDate,
			BuybackActive:    expense.LeaseBuybackActive,
			BuybackCompleted: expense.LeaseBuybackCompleted,
			BuybackBreakdown: buyback,
			BuyInBreakdown:   buyIn,
		})
	}
	return items
}
