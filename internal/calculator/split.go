package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
)

// Share is one participant's part of a distributed amount, in minor units.
type Share struct {
	ParticipantID string
	Amount        int64
}

var (
	ErrNoRecipients         = errors.New("at least one recipient is required")
	ErrNegativeShares       = errors.New("shares cannot be negative")
	ErrZeroShares           = errors.New("shares must be greater than zero")
	ErrAmountSharesMismatch = errors.New("amounts must sum to the total")
	ErrPercentageMismatch   = errors.New("percentages must sum to 100%")
)

// percentageBasis is the share total of a BY_PERCENTAGE split (basis points).
const percentageBasis = 10000

var half = decimal.New(5, -1)

// Distribute splits amount across recipients according to mode.
//
// Every recipient but the last receives round(amount * shares / totalShares),
// where EVENLY uses 1/n as the fraction; the last recipient in input order
// absorbs the remainder so the result always sums to amount exactly.
// Unknown modes, and weighted modes whose shares total zero, split evenly.
func Distribute(amount int64, mode models.SplitMode, recipients []models.PaidFor) []Share {
	if len(recipients) == 0 {
		return nil
	}

	var totalShares int64
	for _, r := range recipients {
		totalShares += r.Shares
	}

	total := decimal.NewFromInt(amount)
	remaining := amount
	shares := make([]Share, len(recipients))
	for i, r := range recipients {
		if i == len(recipients)-1 {
			shares[i] = Share{ParticipantID: r.ParticipantID, Amount: remaining}
			break
		}
		num, den := fraction(mode, r.Shares, totalShares, len(recipients))
		part := roundHalfUp(total.Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den)))
		shares[i] = Share{ParticipantID: r.ParticipantID, Amount: part}
		remaining -= part
	}
	return shares
}

// fraction returns the numerator and denominator of one recipient's part.
func fraction(mode models.SplitMode, shares, totalShares int64, n int) (int64, int64) {
	switch mode {
	case models.SplitModeByShares, models.SplitModeByPercentage, models.SplitModeByAmount:
		if totalShares != 0 {
			return shares, totalShares
		}
		return 1, int64(n)
	case models.SplitModeEvenly:
		return 1, int64(n)
	default:
		return 1, int64(n)
	}
}

// roundHalfUp rounds to the nearest integer, halves toward positive infinity.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// ValidateSplit checks that a split's shares are consistent with its mode.
// Distribute never requires this; it is the check the expense form applies
// before a record is stored.
func ValidateSplit(amount int64, mode models.SplitMode, recipients []models.PaidFor) error {
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	weighted := mode == models.SplitModeByShares ||
		mode == models.SplitModeByPercentage ||
		mode == models.SplitModeByAmount

	var totalShares int64
	for _, r := range recipients {
		if r.Shares < 0 {
			return ErrNegativeShares
		}
		// Weighted recipients owing nothing are rejected rather than skipped.
		if weighted && r.Shares == 0 {
			return fmt.Errorf("%w: %s", ErrZeroShares, r.ParticipantID)
		}
		totalShares += r.Shares
	}

	switch mode {
	case models.SplitModeByPercentage:
		if totalShares != percentageBasis {
			return fmt.Errorf("%w: got %s%%", ErrPercentageMismatch,
				decimal.New(totalShares, -2).String())
		}
	case models.SplitModeByAmount:
		if totalShares != amount {
			return fmt.Errorf("%w: got %d, want %d", ErrAmountSharesMismatch, totalShares, amount)
		}
	}
	return nil
}
