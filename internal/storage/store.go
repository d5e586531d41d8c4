// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrNotLease        = errors.New("expense is not a lease")
)

// ListExpensesFilter narrows and pages ListExpensesByGroup.
// Zero values match everything; a Limit of zero means no limit.
type ListExpensesFilter struct {
	// SettlementMode matches expenses settled this way. NORMAL also
	// matches legacy expenses without a settlement mode.
	SettlementMode models.SettlementMode

	// Title matches expenses whose title contains it, case-insensitively.
	Title string

	Offset int
	Limit  int
}

// Store defines the interface for group and expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group and its participants.
	// Missing IDs and the creation time are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its participants.
	// Returns ErrGroupNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup renames a group, sets its currency and renames the
	// participants it lists by ID. Participants are never added or removed.
	// Returns ErrGroupNotFound if the group does not exist.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group with its participants and expenses.
	// Returns ErrGroupNotFound if the group does not exist.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense with its split, sub-items and
	// buy-in payments. Returns ErrGroupNotFound if the group does not exist.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves one expense of a group.
	// Returns ErrExpenseNotFound if it does not exist in that group.
	GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, most recent first.
	ListExpensesByGroup(ctx context.Context, groupID string, filter ListExpensesFilter) ([]*models.Expense, error)

	// UpdateExpense replaces an expense's fields, split, sub-items and buy-in
	// payments. ID, group and creation time are kept.
	// Returns ErrExpenseNotFound if it does not exist in that group.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and everything attached to it.
	DeleteExpense(ctx context.Context, groupID, expenseID string) error

	// ToggleLeaseBuybackCompleted flips the buy-back completed flag of a
	// LEASE expense and returns the updated expense.
	// Returns ErrExpenseNotFound or ErrNotLease.
	ToggleLeaseBuybackCompleted(ctx context.Context, groupID, expenseID string) (*models.Expense, error)

	// ToggleLeaseBuybackActive flips the buy-back active flag.
	ToggleLeaseBuybackActive(ctx context.Context, groupID, expenseID string) (*models.Expense, error)

	// ToggleLeaseBuyIn flips whether participantID has paid their buy-in.
	ToggleLeaseBuyIn(ctx context.Context, groupID, expenseID, participantID string) (*models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
