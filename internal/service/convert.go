package service

import (
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
)

const dateLayout = "2006-01-02"

// storeError maps store errors to Connect codes.
func storeError(err error) *connect.Error {
	switch {
	case errors.Is(err, storage.ErrGroupNotFound), errors.Is(err, storage.ErrExpenseNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrNotLease):
		return connect.NewError(connect.CodeInvalidArgument, storage.ErrNotLease)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

func toAPIGroup(g *models.Group) *api.Group {
	participants := make([]api.Participant, len(g.Participants))
	for i, p := range g.Participants {
		participants[i] = api.Participant{ID: p.ID, Name: p.Name}
	}
	return &api.Group{
		ID:           g.ID,
		Name:         g.Name,
		Currency:     g.Currency,
		Participants: participants,
		CreatedAt:    g.CreatedAt,
	}
}

func toAPIPaidFor(paidFor []models.PaidFor) []api.PaidFor {
	out := make([]api.PaidFor, len(paidFor))
	for i, pf := range paidFor {
		out[i] = api.PaidFor{ParticipantID: pf.ParticipantID, Shares: pf.Shares}
	}
	return out
}

func fromAPIPaidFor(paidFor []api.PaidFor) []models.PaidFor {
	out := make([]models.PaidFor, len(paidFor))
	for i, pf := range paidFor {
		out[i] = models.PaidFor{ParticipantID: pf.ParticipantID, Shares: pf.Shares}
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	out := &api.Expense{
		ID:                    e.ID,
		GroupID:               e.GroupID,
		Title:                 e.Title,
		Amount:                e.Amount,
		SplitMode:             string(e.SplitMode),
		SettlementMode:        string(e.EffectiveSettlementMode()),
		PaidBy:                e.PaidBy,
		PaidFor:               toAPIPaidFor(e.PaidFor),
		IsReimbursement:       e.IsReimbursement,
		ExpenseDate:           e.ExpenseDate.Format(dateLayout),
		CreatedAt:             e.CreatedAt,
		LeaseOwnerID:          e.LeaseOwnerID,
		LeaseItemName:         e.LeaseItemName,
		LeaseBuybackActive:    e.LeaseBuybackActive,
		LeaseBuybackCompleted: e.LeaseBuybackCompleted,
		LeaseBuyInPayments:    e.LeaseBuyInPayments,
	}
	if e.LeaseBuybackDate != nil {
		out.LeaseBuybackDate = e.LeaseBuybackDate.Format(dateLayout)
	}
	for _, si := range e.SubItems {
		out.SubItems = append(out.SubItems, api.SubItem{
			ID:        si.ID,
			Title:     si.Title,
			Amount:    si.Amount,
			SplitMode: string(si.SplitMode),
			PaidFor:   toAPIPaidFor(si.PaidFor),
		})
	}
	return out
}

// fromAPIExpense converts a request expense, defaulting the split mode to
// EVENLY and the settlement mode to NORMAL. Lease fields are dropped unless
// the expense is a LEASE.
func fromAPIExpense(e *api.Expense) (*models.Expense, error) {
	out := &models.Expense{
		GroupID:         e.GroupID,
		Title:           e.Title,
		Amount:          e.Amount,
		SplitMode:       models.SplitMode(e.SplitMode),
		SettlementMode:  models.SettlementMode(e.SettlementMode),
		PaidBy:          e.PaidBy,
		PaidFor:         fromAPIPaidFor(e.PaidFor),
		IsReimbursement: e.IsReimbursement,
	}
	if out.SplitMode == "" {
		out.SplitMode = models.SplitModeEvenly
	}
	if out.SettlementMode == "" {
		out.SettlementMode = models.SettlementModeNormal
	}

	if e.ExpenseDate != "" {
		date, err := time.Parse(dateLayout, e.ExpenseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expense date %q: %w", e.ExpenseDate, err)
		}
		out.ExpenseDate = date
	}

	for _, si := range e.SubItems {
		mode := models.SplitMode(si.SplitMode)
		if mode == "" {
			mode = models.SplitModeEvenly
		}
		out.SubItems = append(out.SubItems, models.SubItem{
			Title:     si.Title,
			Amount:    si.Amount,
			SplitMode: mode,
			PaidFor:   fromAPIPaidFor(si.PaidFor),
		})
	}

	if out.SettlementMode == models.SettlementModeLease {
		out.LeaseOwnerID = e.LeaseOwnerID
		out.LeaseItemName = e.LeaseItemName
		out.LeaseBuybackActive = e.LeaseBuybackActive
		out.LeaseBuybackCompleted = e.LeaseBuybackCompleted
		out.LeaseBuyInPayments = e.LeaseBuyInPayments
		if e.LeaseBuybackDate != "" {
			date, err := time.Parse(dateLayout, e.LeaseBuybackDate)
			if err != nil {
				return nil, fmt.Errorf("invalid buy-back date %q: %w", e.LeaseBuybackDate, err)
			}
			out.LeaseBuybackDate = &date
		}
	}

	return out, nil
}

// toAPIBalances lists public balances in participant order.
func toAPIBalances(group *models.Group, balances calculator.Balances) []api.Balance {
	out := make([]api.Balance, 0, len(group.Participants))
	for _, p := range group.Participants {
		b := balances[p.ID]
		out = append(out, api.Balance{ParticipantID: p.ID, Paid: b.Paid, PaidFor: b.PaidFor, Total: b.Total})
	}
	return out
}

func toAPIReimbursements(reimbursements []calculator.Reimbursement) []api.Reimbursement {
	out := make([]api.Reimbursement, len(reimbursements))
	for i, r := range reimbursements {
		out[i] = api.Reimbursement{From: r.From, To: r.To, Amount: r.Amount}
	}
	return out
}

func toAPIStraight(items []calculator.StraightBalanceItem) []api.StraightBalanceItem {
	out := make([]api.StraightBalanceItem, len(items))
	for i, item := range items {
		out[i] = api.StraightBalanceItem{
			ExpenseID:    item.ExpenseID,
			ExpenseTitle: item.ExpenseTitle,
			From:         item.From,
			To:           item.To,
			Amount:       item.Amount,
		}
	}
	return out
}

func toAPILease(items []calculator.LeaseItem) []api.LeaseItem {
	out := make([]api.LeaseItem, len(items))
	for i, item := range items {
		li := api.LeaseItem{
			ExpenseID:        item.ExpenseID,
			ItemName:         item.ItemName,
			TotalCost:        item.TotalCost,
			OwnerID:          item.OwnerID,
			BuybackState:     string(item.BuybackState()),
			BuybackActive:    item.BuybackActive,
			BuybackCompleted: item.BuybackCompleted,
			BuybackBreakdown: make([]api.BuybackShare, len(item.BuybackBreakdown)),
			BuyInBreakdown:   make([]api.BuyInShare, len(item.BuyInBreakdown)),
		}
		if item.BuybackDate != nil {
			li.BuybackDate = item.BuybackDate.Format(dateLayout)
		}
		for j, b := range item.BuybackBreakdown {
			li.BuybackBreakdown[j] = api.BuybackShare{ParticipantID: b.ParticipantID, Amount: b.Amount}
		}
		for j, b := range item.BuyInBreakdown {
			li.BuyInBreakdown[j] = api.BuyInShare{ParticipantID: b.ParticipantID, Amount: b.Amount, Paid: b.Paid}
		}
		out[i] = li
	}
	return out
}

func toAPITotals(t calculator.Totals) api.Totals {
	return api.Totals{TotalOwed: t.TotalOwed, TotalOwedToYou: t.TotalOwedToYou, Net: t.Net}
}

func toAPIStats(st calculator.Stats) api.Stats {
	return api.Stats{TotalGroupSpending: st.TotalGroupSpending, TotalPaid: st.TotalPaid, TotalShare: st.TotalShare}
}

func toAPIDebts(debts []calculator.CreditorDebt) []api.CreditorDebt {
	out := make([]api.CreditorDebt, len(debts))
	for i, d := range debts {
		items := make([]api.PersonDebtItem, len(d.Items))
		for j, item := range d.Items {
			items[j] = api.PersonDebtItem{
				Type:               string(item.Type),
				Amount:             item.Amount,
				ExpenseID:          item.ExpenseID,
				ExpenseTitle:       item.ExpenseTitle,
				LeaseItemName:      item.LeaseItemName,
				LeaseExpenseID:     item.LeaseExpenseID,
				BuyInParticipantID: item.BuyInParticipantID,
			}
		}
		out[i] = api.CreditorDebt{CreditorID: d.CreditorID, TotalAmount: d.TotalAmount, Items: items}
	}
	return out
}
