package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const expenseColumns = `id, group_id, title, amount, split_mode, settlement_mode, paid_by,
	is_reimbursement, expense_date, created_at, lease_owner_id, lease_item_name,
	lease_buyback_date, lease_buyback_active, lease_buyback_completed`

// CreateExpense persists a new expense with its split, sub-items and buy-in payments.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = time.Unix(expense.CreatedAt, 0).UTC()
	}
	if expense.Title == "" {
		expense.Title = generateTitle(expense)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", expense.GroupID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", storage.ErrGroupNotFound, expense.GroupID)
	}
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Title, expense.Amount, string(expense.SplitMode),
		nullableMode(expense.SettlementMode), expense.PaidBy, expense.IsReimbursement, expense.ExpenseDate.Unix(),
		expense.CreatedAt, nullableString(expense.LeaseOwnerID), nullableString(expense.LeaseItemName),
		nullableDate(expense.LeaseBuybackDate), expense.LeaseBuybackActive, expense.LeaseBuybackCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseDetails(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertExpenseDetails writes the paid-for rows, sub-items and buy-in
// payments of an expense whose row already exists.
func insertExpenseDetails(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, pf := range expense.PaidFor {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_paid_for (expense_id, participant_id, shares, position) VALUES (?, ?, ?, ?)",
			expense.ID, pf.ParticipantID, pf.Shares, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert paid-for: %w", err)
		}
	}

	for i := range expense.SubItems {
		item := &expense.SubItems[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_sub_items (id, expense_id, title, amount, split_mode, position) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, expense.ID, item.Title, item.Amount, string(item.SplitMode), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sub-item: %w", err)
		}

		for j, pf := range item.PaidFor {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO sub_item_paid_for (sub_item_id, participant_id, shares, position) VALUES (?, ?, ?, ?)",
				item.ID, pf.ParticipantID, pf.Shares, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert sub-item paid-for: %w", err)
			}
		}
	}

	for _, participantID := range expense.LeaseBuyInPayments {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO lease_buyin_payments (expense_id, participant_id) VALUES (?, ?)",
			expense.ID, participantID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert buy-in payment: %w", err)
		}
	}

	return nil
}

// UpdateExpense rewrites an expense and replaces everything attached to it.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := getExpense(ctx, tx, expense.GroupID, expense.ID)
	if err != nil {
		return err
	}

	expense.CreatedAt = current.CreatedAt
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = current.ExpenseDate
	}
	if expense.Title == "" {
		expense.Title = generateTitle(expense)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount = ?, split_mode = ?, settlement_mode = ?,
			paid_by = ?, is_reimbursement = ?, expense_date = ?, lease_owner_id = ?,
			lease_item_name = ?, lease_buyback_date = ?, lease_buyback_active = ?,
			lease_buyback_completed = ?
		 WHERE id = ? AND group_id = ?`,
		expense.Title, expense.Amount, string(expense.SplitMode), nullableMode(expense.SettlementMode),
		expense.PaidBy, expense.IsReimbursement, expense.ExpenseDate.Unix(),
		nullableString(expense.LeaseOwnerID), nullableString(expense.LeaseItemName),
		nullableDate(expense.LeaseBuybackDate), expense.LeaseBuybackActive, expense.LeaseBuybackCompleted,
		expense.ID, expense.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	// Sub-item paid-for rows cascade from their sub-items.
	for _, table := range []string{"expense_paid_for", "expense_sub_items", "lease_buyin_payments"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE expense_id = ?", expense.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Sub-items are recreated under fresh IDs.
	for i := range expense.SubItems {
		expense.SubItems[i].ID = ""
	}
	if err := insertExpenseDetails(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves one expense of a group, including its split,
// sub-items and buy-in payments.
func (s *SQLiteStore) GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	return getExpense(ctx, s.db, groupID, expenseID)
}

// ListExpensesByGroup retrieves the expenses of a group, most recent first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string, filter storage.ListExpensesFilter) ([]*models.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE group_id = ?"
	args := []any{groupID}

	switch filter.SettlementMode {
	case "":
	case models.SettlementModeNormal:
		query += " AND (settlement_mode = ? OR settlement_mode IS NULL)"
		args = append(args, string(filter.SettlementMode))
	default:
		query += " AND settlement_mode = ?"
		args = append(args, string(filter.SettlementMode))
	}

	if filter.Title != "" {
		query += " AND title LIKE ? ESCAPE '\\'"
		args = append(args, "%"+escapeLike(filter.Title)+"%")
	}

	query += " ORDER BY expense_date DESC, created_at DESC, id"

	limit := -1
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	expenses := make([]*models.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	if err := loadExpenseDetails(ctx, s.db, expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// DeleteExpense removes an expense; dependent rows go with it.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrExpenseNotFound, expenseID)
	}

	return nil
}

func getExpense(ctx context.Context, q querier, groupID, expenseID string) (*models.Expense, error) {
	row := q.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrExpenseNotFound, expenseID)
	}
	if err != nil {
		return nil, err
	}

	if err := loadExpenseDetails(ctx, q, []*models.Expense{expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanExpense reads one row selected with expenseColumns.
// sql.ErrNoRows is returned unwrapped so callers can map it.
func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		e              models.Expense
		splitMode      string
		settlementMode sql.NullString
		expenseDate    int64
		leaseOwnerID   sql.NullString
		leaseItemName  sql.NullString
		buybackDate    sql.NullInt64
	)

	err := row.Scan(&e.ID, &e.GroupID, &e.Title, &e.Amount, &splitMode, &settlementMode,
		&e.PaidBy, &e.IsReimbursement, &expenseDate, &e.CreatedAt, &leaseOwnerID,
		&leaseItemName, &buybackDate, &e.LeaseBuybackActive, &e.LeaseBuybackCompleted)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	e.SplitMode = models.SplitMode(splitMode)
	if settlementMode.Valid {
		e.SettlementMode = models.SettlementMode(settlementMode.String)
	}
	e.ExpenseDate = time.Unix(expenseDate, 0).UTC()
	if leaseOwnerID.Valid {
		e.LeaseOwnerID = &leaseOwnerID.String
	}
	if leaseItemName.Valid {
		e.LeaseItemName = &leaseItemName.String
	}
	if buybackDate.Valid {
		d := time.Unix(buybackDate.Int64, 0).UTC()
		e.LeaseBuybackDate = &d
	}

	return &e, nil
}

// loadExpenseDetails fills in paid-for rows, sub-items and buy-in payments
// for all expenses with one query per table.
func loadExpenseDetails(ctx context.Context, q querier, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}
	in := "(" + placeholders(len(ids)) + ")"

	// Paid-for
	rows, err := q.QueryContext(ctx,
		"SELECT expense_id, participant_id, shares FROM expense_paid_for WHERE expense_id IN "+in+" ORDER BY expense_id, position",
		toArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get paid-for: %w", err)
	}
	for rows.Next() {
		var expenseID string
		var pf models.PaidFor
		if err := rows.Scan(&expenseID, &pf.ParticipantID, &pf.Shares); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan paid-for: %w", err)
		}
		e := byID[expenseID]
		e.PaidFor = append(e.PaidFor, pf)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate paid-for: %w", err)
	}

	// Sub-items
	rows, err = q.QueryContext(ctx,
		"SELECT id, expense_id, title, amount, split_mode FROM expense_sub_items WHERE expense_id IN "+in+" ORDER BY expense_id, position",
		toArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get sub-items: %w", err)
	}
	type subItemRef struct {
		expense *models.Expense
		index   int
	}
	subItems := make(map[string]subItemRef)
	var subItemIDs []string
	for rows.Next() {
		var expenseID, splitMode string
		var item models.SubItem
		if err := rows.Scan(&item.ID, &expenseID, &item.Title, &item.Amount, &splitMode); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan sub-item: %w", err)
		}
		item.SplitMode = models.SplitMode(splitMode)
		e := byID[expenseID]
		e.SubItems = append(e.SubItems, item)
		subItems[item.ID] = subItemRef{expense: e, index: len(e.SubItems) - 1}
		subItemIDs = append(subItemIDs, item.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate sub-items: %w", err)
	}

	if len(subItemIDs) > 0 {
		rows, err = q.QueryContext(ctx,
			"SELECT sub_item_id, participant_id, shares FROM sub_item_paid_for WHERE sub_item_id IN ("+placeholders(len(subItemIDs))+") ORDER BY sub_item_id, position",
			toArgs(subItemIDs)...,
		)
		if err != nil {
			return fmt.Errorf("failed to get sub-item paid-for: %w", err)
		}
		for rows.Next() {
			var subItemID string
			var pf models.PaidFor
			if err := rows.Scan(&subItemID, &pf.ParticipantID, &pf.Shares); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan sub-item paid-for: %w", err)
			}
			ref := subItems[subItemID]
			item := &ref.expense.SubItems[ref.index]
			item.PaidFor = append(item.PaidFor, pf)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate sub-item paid-for: %w", err)
		}
	}

	// Buy-in payments
	rows, err = q.QueryContext(ctx,
		"SELECT expense_id, participant_id FROM lease_buyin_payments WHERE expense_id IN "+in+" ORDER BY expense_id, rowid",
		toArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get buy-in payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var expenseID, participantID string
		if err := rows.Scan(&expenseID, &participantID); err != nil {
			return fmt.Errorf("failed to scan buy-in payment: %w", err)
		}
		e := byID[expenseID]
		e.LeaseBuyInPayments = append(e.LeaseBuyInPayments, participantID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate buy-in payments: %w", err)
	}

	return nil
}

// generateTitle creates a title for an expense recorded without one.
func generateTitle(expense *models.Expense) string {
	titles := make([]string, 0, len(expense.SubItems))
	for _, item := range expense.SubItems {
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}

	switch {
	case len(titles) == 0:
		return fmt.Sprintf("Expense - %s", expense.ExpenseDate.Format("Jan 2, 2006"))
	case len(titles) <= 3:
		return strings.Join(titles, ", ")
	default:
		return fmt.Sprintf("%s and %d more", strings.Join(titles[:2], ", "), len(titles)-2)
	}
}

// nullableMode stores the legacy unset settlement mode as NULL.
func nullableMode(mode models.SettlementMode) any {
	if mode == "" {
		return nil
	}
	return string(mode)
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
