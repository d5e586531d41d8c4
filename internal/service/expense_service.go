package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpense validates an expense against its group and persists it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	if req.Msg.Expense == nil {
		return nil, invalidArgument("expense required")
	}
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.Expense.GroupID,
		"amount", req.Msg.Expense.Amount,
		"settlement_mode", req.Msg.Expense.SettlementMode,
		"sub_items_count", len(req.Msg.Expense.SubItems),
	)

	expense, err := fromAPIExpense(req.Msg.Expense)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		slog.Error("CreateExpense failed", "group_id", expense.GroupID, "error", err)
		return nil, storeError(err)
	}

	if err := validateExpense(expense, group); err != nil {
		slog.Error("CreateExpense validation failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	// Save to storage (generates IDs, title and CreatedAt)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense created", "group_id", group.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense retrieves one expense of a group.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses pages through a group's expenses, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("ListExpenses request received",
		"group_id", groupID,
		"settlement_mode", req.Msg.SettlementMode,
		"cursor", req.Msg.Cursor,
	)

	mode := models.SettlementMode(req.Msg.SettlementMode)
	if mode != "" && !mode.Valid() {
		return nil, invalidArgument("unknown settlement mode %q", mode)
	}

	pageSize := req.Msg.PageSize
	switch {
	case pageSize <= 0:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	offset := 0
	if req.Msg.Cursor != "" {
		n, err := strconv.Atoi(req.Msg.Cursor)
		if err != nil || n < 0 {
			return nil, invalidArgument("invalid cursor %q", req.Msg.Cursor)
		}
		offset = n
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	// One extra row tells whether another page exists.
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID, storage.ListExpensesFilter{
		SettlementMode: mode,
		Title:          req.Msg.Title,
		Offset:         offset,
		Limit:          pageSize + 1,
	})
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	resp := &api.ListExpensesResponse{Expenses: make([]*api.Expense, 0, len(expenses))}
	if len(expenses) > pageSize {
		expenses = expenses[:pageSize]
		resp.HasMore = true
		resp.NextCursor = strconv.Itoa(offset + pageSize)
	}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, toAPIExpense(e))
	}

	slog.Info("ListExpenses successful", "group_id", groupID, "count", len(resp.Expenses), "has_more", resp.HasMore)

	return connect.NewResponse(resp), nil
}

// UpdateExpense validates a changed expense against its group and replaces
// the stored one.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	if req.Msg.Expense == nil {
		return nil, invalidArgument("expense required")
	}
	slog.Info("UpdateExpense request received",
		"group_id", req.Msg.Expense.GroupID,
		"expense_id", req.Msg.Expense.ID,
		"amount", req.Msg.Expense.Amount,
		"settlement_mode", req.Msg.Expense.SettlementMode,
	)

	if req.Msg.Expense.ID == "" {
		return nil, invalidArgument("expense id required")
	}
	expense, err := fromAPIExpense(req.Msg.Expense)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	expense.ID = req.Msg.Expense.ID

	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		slog.Error("UpdateExpense failed", "group_id", expense.GroupID, "error", err)
		return nil, storeError(err)
	}

	if err := validateExpense(expense, group); err != nil {
		slog.Error("UpdateExpense validation failed", "expense_id", expense.ID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}

	updated, err := s.store.GetExpense(ctx, expense.GroupID, expense.ID)
	if err != nil {
		slog.Error("Failed to fetch updated expense", "expense_id", expense.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense updated", "group_id", group.ID, "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(updated)}), nil
}

// DeleteExpense removes an expense from a group.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	if err := s.store.DeleteExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense deleted", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ToggleLeaseBuyback flips whether the owner has completed the buy-back.
func (s *ExpenseService) ToggleLeaseBuyback(ctx context.Context, req *connect.Request[api.ToggleLeaseBuybackRequest]) (*connect.Response[api.ToggleLeaseBuybackResponse], error) {
	slog.Info("ToggleLeaseBuyback request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.ToggleLeaseBuybackCompleted(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("ToggleLeaseBuyback failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Lease buy-back toggled", "expense_id", expense.ID, "completed", expense.LeaseBuybackCompleted)

	return connect.NewResponse(&api.ToggleLeaseBuybackResponse{Expense: toAPIExpense(expense)}), nil
}

// ToggleLeaseBuybackActive flips whether the buy-back is owed.
func (s *ExpenseService) ToggleLeaseBuybackActive(ctx context.Context, req *connect.Request[api.ToggleLeaseBuybackActiveRequest]) (*connect.Response[api.ToggleLeaseBuybackActiveResponse], error) {
	slog.Info("ToggleLeaseBuybackActive request received", "group_id", req.Msg.GroupID, "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.ToggleLeaseBuybackActive(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("ToggleLeaseBuybackActive failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Lease buy-back activation toggled", "expense_id", expense.ID, "active", expense.LeaseBuybackActive)

	return connect.NewResponse(&api.ToggleLeaseBuybackActiveResponse{Expense: toAPIExpense(expense)}), nil
}

// ToggleLeaseBuyIn flips whether a participant has paid their buy-in.
func (s *ExpenseService) ToggleLeaseBuyIn(ctx context.Context, req *connect.Request[api.ToggleLeaseBuyInRequest]) (*connect.Response[api.ToggleLeaseBuyInResponse], error) {
	slog.Info("ToggleLeaseBuyIn request received",
		"group_id", req.Msg.GroupID,
		"expense_id", req.Msg.ExpenseID,
		"participant_id", req.Msg.ParticipantID,
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ToggleLeaseBuyIn failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	if err := validateParticipant("participant_id", req.Msg.ParticipantID, group); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	current, err := s.store.GetExpense(ctx, req.Msg.GroupID, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("ToggleLeaseBuyIn failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}
	if current.EffectiveSettlementMode() != models.SettlementModeLease {
		return nil, storeError(fmt.Errorf("%w: %s", storage.ErrNotLease, current.ID))
	}
	// A recorded payment can always be undone; a new one needs a buy-in to pay.
	if !current.HasPaidBuyIn(req.Msg.ParticipantID) && !buyInParticipants(current)[req.Msg.ParticipantID] {
		return nil, invalidArgument("participant '%s' owes no buy-in on this lease", req.Msg.ParticipantID)
	}

	expense, err := s.store.ToggleLeaseBuyIn(ctx, req.Msg.GroupID, req.Msg.ExpenseID, req.Msg.ParticipantID)
	if err != nil {
		slog.Error("ToggleLeaseBuyIn failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Lease buy-in toggled",
		"expense_id", expense.ID,
		"participant_id", req.Msg.ParticipantID,
		"paid", expense.HasPaidBuyIn(req.Msg.ParticipantID),
	)

	return connect.NewResponse(&api.ToggleLeaseBuyInResponse{Expense: toAPIExpense(expense)}), nil
}
