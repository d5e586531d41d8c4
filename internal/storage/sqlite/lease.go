package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

// ToggleLeaseBuybackCompleted flips lease_buyback_completed on a LEASE expense.
func (s *SQLiteStore) ToggleLeaseBuybackCompleted(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	return s.toggleLease(ctx, groupID, expenseID, func(tx *sql.Tx, expense *models.Expense) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE expenses SET lease_buyback_completed = ? WHERE id = ?",
			!expense.LeaseBuybackCompleted, expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update buy-back completed: %w", err)
		}
		return nil
	})
}

// ToggleLeaseBuybackActive flips lease_buyback_active on a LEASE expense.
func (s *SQLiteStore) ToggleLeaseBuybackActive(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	return s.toggleLease(ctx, groupID, expenseID, func(tx *sql.Tx, expense *models.Expense) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE expenses SET lease_buyback_active = ? WHERE id = ?",
			!expense.LeaseBuybackActive, expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update buy-back active: %w", err)
		}
		return nil
	})
}

// ToggleLeaseBuyIn adds participantID to the paid buy-ins, or removes it if
// already there.
func (s *SQLiteStore) ToggleLeaseBuyIn(ctx context.Context, groupID, expenseID, participantID string) (*models.Expense, error) {
	return s.toggleLease(ctx, groupID, expenseID, func(tx *sql.Tx, expense *models.Expense) error {
		query := "INSERT INTO lease_buyin_payments (expense_id, participant_id) VALUES (?, ?)"
		if expense.HasPaidBuyIn(participantID) {
			query = "DELETE FROM lease_buyin_payments WHERE expense_id = ? AND participant_id = ?"
		}
		if _, err := tx.ExecContext(ctx, query, expense.ID, participantID); err != nil {
			return fmt.Errorf("failed to update buy-in payment: %w", err)
		}
		return nil
	})
}

// toggleLease runs update against a LEASE expense inside one transaction,
// so the read-check-write cannot interleave with another toggle.
func (s *SQLiteStore) toggleLease(ctx context.Context, groupID, expenseID string, update func(*sql.Tx, *models.Expense) error) (*models.Expense, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	expense, err := getExpense(ctx, tx, groupID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.EffectiveSettlementMode() != models.SettlementModeLease {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotLease, expenseID)
	}

	if err := update(tx, expense); err != nil {
		return nil, err
	}

	updated, err := getExpense(ctx, tx, groupID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}
