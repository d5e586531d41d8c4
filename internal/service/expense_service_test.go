package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

func TestCreateExpense_And_GetExpense(t *testing.T) {
	env := setupTestServer(t)
	group, ids := env.createGroup(t, "Alice", "Bob", "Carol")
	alice, bob, carol := ids["Alice"], ids["Bob"], ids["Carol"]

	created := env.createExpense(t, &api.Expense{
		GroupID:     group.ID,
		Title:       "Dinner",
		Amount:      3000,
		SplitMode:   "BY_PERCENTAGE",
		PaidBy:      alice,
		PaidFor:     []api.PaidFor{{ParticipantID: alice, Shares: 5000}, {ParticipantID: bob, Shares: 5000}},
		ExpenseDate: "2026-03-14",
		SubItems: []api.SubItem{{
			Title:     "Pretzels",
			Amount:    800,
			SplitMode: "BY_AMOUNT",
			PaidFor:   []api.PaidFor{{ParticipantID: carol, Shares: 800}},
		}},
	})

	if created.ID == "" {
		t.Fatal("expected expense ID")
	}
	if created.SettlementMode != "NORMAL" {
		t.Errorf("settlement mode: expected NORMAL default, got %s", created.SettlementMode)
	}

	resp, err := env.expenses.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{
		GroupID:   group.ID,
		ExpenseID: created.ID,
	}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}

	got := resp.Msg.Expense
	if got.Title != "Dinner" || got.Amount != 3000 || got.SplitMode != "BY_PERCENTAGE" || got.ExpenseDate != "2026-03-14" {
		t.Errorf("unexpected expense: %+v", got)
	}
	if len(got.PaidFor) != 2 || got.PaidFor[1].ParticipantID != bob {
		t.Errorf("unexpected paid-for: %+v", got.PaidFor)
	}
	if len(got.SubItems) != 1 || got.SubItems[0].PaidFor[0].ParticipantID != carol {
		t.Errorf("unexpected sub-items: %+v", got.SubItems)
	}
}

func TestCreateExpense_InvalidArgument(t *testing.T) {
	env := setupTestServer(t)
	group, ids := env.createGroup(t, "Alice", "Bob")
	alice, bob := ids["Alice"], ids["Bob"]

	// lease returns a valid LEASE expense after applying change.
	lease := func(change func(*api.Expense)) *api.Expense {
		e := &api.Expense{
			Amount:           2000,
			SettlementMode:   "LEASE",
			PaidBy:           alice,
			PaidFor:          evenly(alice, bob),
			LeaseOwnerID:     strPtr(alice),
			LeaseItemName:    strPtr("Sofa"),
			LeaseBuybackDate: "2027-06-30",
		}
		change(e)
		return e
	}

	tests := []struct {
		name    string
		expense *api.Expense
	}{
		{"zero amount", &api.Expense{PaidBy: alice, PaidFor: evenly(alice)}},
		{"payer not in group", &api.Expense{Amount: 100, PaidBy: "stranger", PaidFor: evenly(alice)}},
		{"recipient not in group", &api.Expense{Amount: 100, PaidBy: alice, PaidFor: evenly(alice, "stranger")}},
		{"recipient listed twice", &api.Expense{Amount: 100, PaidBy: alice, PaidFor: evenly(alice, alice)}},
		{"no recipients", &api.Expense{Amount: 100, PaidBy: alice}},
		{"unknown split mode", &api.Expense{Amount: 100, SplitMode: "BY_VIBES", PaidBy: alice, PaidFor: evenly(alice)}},
		{"unknown settlement mode", &api.Expense{Amount: 100, SettlementMode: "BARTER", PaidBy: alice, PaidFor: evenly(alice)}},
		{"amounts do not add up", &api.Expense{Amount: 100, SplitMode: "BY_AMOUNT", PaidBy: alice,
			PaidFor: []api.PaidFor{{ParticipantID: alice, Shares: 60}, {ParticipantID: bob, Shares: 30}}}},
		{"percentages do not add up", &api.Expense{Amount: 100, SplitMode: "BY_PERCENTAGE", PaidBy: alice,
			PaidFor: []api.PaidFor{{ParticipantID: alice, Shares: 5000}}}},
		{"sub-items exceed amount", &api.Expense{Amount: 100, PaidBy: alice, PaidFor: evenly(alice),
			SubItems: []api.SubItem{{Title: "Wine", Amount: 150, PaidFor: evenly(bob)}}}},
		{"bad date", &api.Expense{Amount: 100, PaidBy: alice, PaidFor: evenly(alice), ExpenseDate: "14/03/2026"}},
		{"zero share", &api.Expense{Amount: 100, SplitMode: "BY_SHARES", PaidBy: alice,
			PaidFor: []api.PaidFor{{ParticipantID: alice, Shares: 2}, {ParticipantID: bob, Shares: 0}}}},
		{"lease owner not in group", lease(func(e *api.Expense) { e.LeaseOwnerID = strPtr("stranger") })},
		{"lease without owner", lease(func(e *api.Expense) { e.LeaseOwnerID = nil })},
		{"lease without item name", lease(func(e *api.Expense) { e.LeaseItemName = nil })},
		{"lease item name too short", lease(func(e *api.Expense) { e.LeaseItemName = strPtr(" X ") })},
		{"lease without buy-back date", lease(func(e *api.Expense) { e.LeaseBuybackDate = "" })},
		{"lease buy-in paid by payer", lease(func(e *api.Expense) { e.LeaseBuyInPayments = []string{alice} })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expense.GroupID = group.ID
			_, err := env.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{Expense: tt.expense}))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	t.Run("unknown group", func(t *testing.T) {
		_, err := env.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
			Expense: &api.Expense{GroupID: "nonexistent", Amount: 100, PaidBy: alice, PaidFor: evenly(alice)},
		}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("complete lease is accepted", func(t *testing.T) {
		e := lease(func(e *api.Expense) { e.LeaseBuyInPayments = []string{bob} })
		e.GroupID = group.ID
		created := env.createExpense(t, e)
		if created.LeaseItemName == nil || *created.LeaseItemName != "Sofa" || created.LeaseBuybackDate != "2027-06-30" {
			t.Errorf("unexpected lease fields: %+v", created)
		}
	})
}

func TestCreateExpense_SubItemsCoverAmount(t *testing.T) {
	env := setupTestServer(t)
	group, ids := env.createGroup(t, "Alice", "Bob")
	alice, bob := ids["Alice"], ids["Bob"]

	// Nothing is left over for the expense's own split.
	created := env.createExpense(t, &api.Expense{
		GroupID: group.ID,
		Amount:  1000,
		PaidBy:  alice,
		SubItems: []api.SubItem{
			{Title: "Pizza", Amount: 600, PaidFor: evenly(alice, bob)},
			{Title: "Beer", Amount: 400, PaidFor: evenly(bob)},
		},
	})
	if created.Title != "Pizza, Beer" {
		t.Errorf("title: expected generated 'Pizza, Beer', got '%s'", created.Title)
	}

	resp, err := env.groups.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	if len(resp.Msg.Reimbursements) != 1 || resp.Msg.Reimbursements[0].Amount != 700 {
		t.Errorf("unexpected reimbursements: %+v", resp.Msg.Reimbursements)
	}
}

func TestListExpenses(t *testing.T) {
	env := setupTestServer(t)
	group, ids := env.createGroup(t, "Alice", "Bob")
	alice, bob := ids["Alice"], ids["Bob"]

	for _, e := range []*api.Expense{
		{Title: "Groceries", ExpenseDate: "2026-03-01"},
		{Title: "Taxi", ExpenseDate: "2026-03-02", SettlementMode: "STRAIGHT"},
		{Title: "Cinema", ExpenseDate: "2026-03-03"},
	} {
		e.GroupID = group.ID
		e.Amount = 1000
		e.PaidBy = alice
		e.PaidFor = evenly(alice, bob)
		env.createExpense(t, e)
	}

	list := func(t *testing.T, req *api.ListExpensesRequest) *api.ListExpensesResponse {
		t.Helper()
		req.GroupID = group.ID
		resp, err := env.expenses.ListExpenses(context.Background(), connect.NewRequest(req))
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		return resp.Msg
	}

	t.Run("pages", func(t *testing.T) {
		first := list(t, &api.ListExpensesRequest{PageSize: 2})
		if len(first.Expenses) != 2 || !first.HasMore || first.NextCursor == "" {
			t.Fatalf("unexpected first page: %d expenses, hasMore=%v, cursor=%q", len(first.Expenses), first.HasMore, first.NextCursor)
		}
		if first.Expenses[0].Title != "Cinema" || first.Expenses[1].Title != "Taxi" {
			t.Errorf("unexpected order: %s, %s", first.Expenses[0].Title, first.Expenses[1].Title)
		}

		second := list(t, &api.ListExpensesRequest{PageSize: 2, Cursor: first.NextCursor})
		if len(second.Expenses) != 1 || second.HasMore || second.NextCursor != "" {
			t.Fatalf("unexpected second page: %d expenses, hasMore=%v, cursor=%q", len(second.Expenses), second.HasMore, second.NextCursor)
		}
		if second.Expenses[0].Title != "Groceries" {
			t.Errorf("unexpected expense on second page: %s", second.Expenses[0].Title)
		}
	})

	t.Run("settlement mode filter", func(t *testing.T) {
		resp := list(t, &api.ListExpensesRequest{SettlementMode: "STRAIGHT"})
		if len(resp.Expenses) != 1 || resp.Expenses[0].Title != "Taxi" {
			t.Errorf("unexpected straight expenses: %+v", resp.Expenses)
		}
	})

	t.Run("title filter", func(t *testing.T) {
		resp := list(t, &api.ListExpensesRequest{Title: "cine"})
		if len(resp.Expenses) != 1 || resp.Expenses[0].Title != "Cinema" {
			t.Errorf("unexpected expenses: %+v", resp.Expenses)
		}
	})

	t.Run("empty group", func(t *testing.T) {
		empty, _ := env.createGroup(t, "Zed")
		resp, err := env.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: empty.ID}))
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(resp.Msg.Expenses) != 0 || resp.Msg.HasMore {
			t.Errorf("expected empty page, got %+v", resp.Msg)
		}
	})

	t.Run("invalid cursor", func(t *testing.T) {
		_, err := env.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID, Cursor: "abc"}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := env.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: "nonexistent"}))
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestDeleteExpense(t *testing.T) {
	env := setupTestServer(t)
	group, ids := env.createGroup(t, "Alice", "Bob")
	created := env.createExpense(t, &api.Expense{
		GroupID: group.ID,
		Title:   "Snacks",
		Amount:  500,
		PaidBy:  ids["Alice"],
		PaidFor: evenly(ids["Alice"], ids["Bob"]),
	})

	_, err := env.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{
		GroupID:   group.ID,
		ExpenseID: created.ID,
	}))
	if err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	_, err = env.expenses.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{
		GroupID:   group.ID,
		ExpenseID: created.ID,
	}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = env.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{
		GroupID:   group.ID,
		ExpenseID: created.ID,
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestLeaseToggles(t *testing.T) {
	env := setupTestServer(t)
	group, ids, expenseIDs := mixedGroup(t, env)
	bob := ids["Bob"]
	tv := expenseIDs["TV"]

	totalOwed := func(t *testing.T) int64 {
		t.Helper()
		resp, err := env.groups.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		return resp.Msg.Totals.TotalOwed
	}

	if got := totalOwed(t); got != 2300 {
		t.Fatalf("total owed: expected 2300 before toggles, got %d", got)
	}

	// Bob pays his buy-in.
	buyIn, err := env.expenses.ToggleLeaseBuyIn(context.Background(), connect.NewRequest(&api.ToggleLeaseBuyInRequest{
		GroupID:       group.ID,
		ExpenseID:     tv,
		ParticipantID: bob,
	}))
	if err != nil {
		t.Fatalf("ToggleLeaseBuyIn failed: %v", err)
	}
	if len(buyIn.Msg.Expense.LeaseBuyInPayments) != 1 {
		t.Errorf("expected one buy-in payment, got %v", buyIn.Msg.Expense.LeaseBuyInPayments)
	}
	if got := totalOwed(t); got != 800 {
		t.Errorf("total owed: expected 800 after buy-in, got %d", got)
	}

	// Alice starts buying Bob out.
	active, err := env.expenses.ToggleLeaseBuybackActive(context.Background(), connect.NewRequest(&api.ToggleLeaseBuybackActiveRequest{
		GroupID:   group.ID,
		ExpenseID: tv,
	}))
	if err != nil {
		t.Fatalf("ToggleLeaseBuybackActive failed: %v", err)
	}
	if !active.Msg.Expense.LeaseBuybackActive {
		t.Error("expected buy-back to be active")
	}
	if got := totalOwed(t); got != 2300 {
		t.Errorf("total owed: expected 2300 with active buy-back, got %d", got)
	}

	// And completes it.
	done, err := env.expenses.ToggleLeaseBuyback(context.Background(), connect.NewRequest(&api.ToggleLeaseBuybackRequest{
		GroupID:   group.ID,
		ExpenseID: tv,
	}))
	if err != nil {
		t.Fatalf("ToggleLeaseBuyback failed: %v", err)
	}
	if !done.Msg.Expense.LeaseBuybackCompleted {
		t.Error("expected buy-back to be completed")
	}
	if got := totalOwed(t); got != 800 {
		t.Errorf("total owed: expected 800 after buy-back, got %d", got)
	}

	t.Run("non-lease expense", func(t *testing.T) {
		_, err := env.expenses.ToggleLeaseBuyback(context.Background(), connect.NewRequest(&api.ToggleLeaseBuybackRequest{
			GroupID:   group.ID,
			ExpenseID: expenseIDs["Dinner"],
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("missing expense", func(t *testing.T) {
		_, err := env.expenses.ToggleLeaseBuybackActive(context.Background(), connect.NewRequest(&api.ToggleLeaseBuybackActiveRequest{
			GroupID:   group.ID,
			ExpenseID: "nonexistent",
		}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("missing participant", func(t *testing.T) {
		_, err := env.expenses.ToggleLeaseBuyIn(context.Background(), connect.NewRequest(&api.ToggleLeaseBuyInRequest{
			GroupID:   group.ID,
			ExpenseID: tv,
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("stranger", func(t *testing.T) {
		_, err := env.expenses.ToggleLeaseBuyIn(context.Background(), connect.NewRequest(&api.ToggleLeaseBuyInRequest{
			GroupID:       group.ID,
			ExpenseID:     tv,
			ParticipantID: "stranger",
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("payer owes no buy-in", func(t *testing.T) {
		_, err := env.expenses.ToggleLeaseBuyIn(context.Background(), connect.NewRequest(&api.ToggleLeaseBuyInRequest{
			GroupID:       group.ID,
			ExpenseID:     tv,
			ParticipantID: ids["Alice"],
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("buy-in on non-lease expense", func(t *testing.T) {
		_, err := env.expenses.ToggleLeaseBuyIn(context.Background(), connect.NewRequest(&api.ToggleLeaseBuyInRequest{
			GroupID:       group.ID,
			ExpenseID:     expenseIDs["Dinner"],
			ParticipantID: bob,
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	resp, err := env.expenses.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{GroupID: group.ID, ExpenseID: tv}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if got := resp.Msg.Expense.LeaseBuyInPayments; len(got) != 1 || got[0] != bob {
		t.Errorf("buy-in payments: expected only Bob, got %v", got)
	}
}

func TestUpdateExpense(t *testing.T) {
	env := setupTestServer(t)
	group, ids := env.createGroup(t, "Alice", "Bob")
	alice, bob := ids["Alice"], ids["Bob"]

	created := env.createExpense(t, &api.Expense{
		GroupID:     group.ID,
		Title:       "Dinner",
		Amount:      1000,
		PaidBy:      alice,
		PaidFor:     evenly(alice, bob),
		ExpenseDate: "2026-03-14",
	})

	update := func(e *api.Expense) (*api.Expense, error) {
		resp, err := env.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{Expense: e}))
		if err != nil {
			return nil, err
		}
		return resp.Msg.Expense, nil
	}

	updated, err := update(&api.Expense{
		ID:        created.ID,
		GroupID:   group.ID,
		Title:     "Dinner and drinks",
		Amount:    2000,
		SplitMode: "BY_AMOUNT",
		PaidBy:    alice,
		PaidFor:   []api.PaidFor{{ParticipantID: alice, Shares: 500}, {ParticipantID: bob, Shares: 1500}},
	})
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if updated.ID != created.ID || updated.Title != "Dinner and drinks" || updated.Amount != 2000 {
		t.Errorf("unexpected updated expense: %+v", updated)
	}
	if updated.CreatedAt != created.CreatedAt || updated.ExpenseDate != "2026-03-14" {
		t.Errorf("created/date changed: %d %s", updated.CreatedAt, updated.ExpenseDate)
	}

	balances, err := env.groups.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	if r := balances.Msg.Reimbursements; len(r) != 1 || r[0].From != bob || r[0].Amount != 1500 {
		t.Errorf("unexpected reimbursements after update: %+v", r)
	}

	t.Run("invalid split", func(t *testing.T) {
		_, err := update(&api.Expense{
			ID: created.ID, GroupID: group.ID, Amount: 2000, SplitMode: "BY_AMOUNT", PaidBy: alice,
			PaidFor: []api.PaidFor{{ParticipantID: alice, Shares: 500}},
		})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := update(&api.Expense{GroupID: group.ID, Amount: 100, PaidBy: alice, PaidFor: evenly(alice)})
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("missing expense", func(t *testing.T) {
		_, err := update(&api.Expense{ID: "nonexistent", GroupID: group.ID, Amount: 100, PaidBy: alice, PaidFor: evenly(alice)})
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := update(&api.Expense{ID: created.ID, GroupID: "nonexistent", Amount: 100, PaidBy: alice, PaidFor: evenly(alice)})
		assertCode(t, err, connect.CodeNotFound)
	})
}

func strPtr(s string) *string {
	return &s
}

func TestExportHandler(t *testing.T) {
	env := setupTestServer(t)
	group, _, _ := mixedGroup(t, env)

	resp, err := http.Get(env.url + "/groups/" + group.ID + "/export.xlsx")
	if err != nil {
		t.Fatalf("GET export failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type: expected %s, got %s", xlsxContentType, ct)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	// xlsx files are zip archives.
	if len(body) < 2 || string(body[:2]) != "PK" {
		t.Error("expected a zip archive")
	}

	missing, err := http.Get(env.url + "/groups/nonexistent/export.xlsx")
	if err != nil {
		t.Fatalf("GET export failed: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status: expected 404, got %d", missing.StatusCode)
	}
}
