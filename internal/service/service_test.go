package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

type testEnv struct {
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
	url      string
}

// setupTestServer creates a test server backed by a temporary SQLite database
// with both services mounted behind the viewer interceptor.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(middleware.OptionalViewer(jwtManager))

	groupSvc := NewGroupService(store, jwtManager)
	expenseSvc := NewExpenseService(store)

	groupPath, groupHandler := apiconnect.NewGroupServiceHandler(groupSvc, interceptors)
	expensePath, expenseHandler := apiconnect.NewExpenseServiceHandler(expenseSvc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(groupPath, groupHandler)
	mux.Handle(expensePath, expenseHandler)
	mux.Handle("GET /groups/{id}/export.xlsx", groupSvc.ExportHandler())

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		url:      server.URL,
	}
}

// createGroup creates a group and returns it with a name -> participant ID map.
func (e *testEnv) createGroup(t *testing.T, names ...string) (*api.Group, map[string]string) {
	t.Helper()

	resp, err := e.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:         "Roommates",
		Participants: names,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	ids := make(map[string]string, len(names))
	for _, p := range resp.Msg.Group.Participants {
		ids[p.Name] = p.ID
	}
	return resp.Msg.Group, ids
}

func (e *testEnv) createExpense(t *testing.T, expense *api.Expense) *api.Expense {
	t.Helper()

	resp, err := e.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{Expense: expense}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

// selectViewer returns the Authorization header value naming participantID as viewer.
func (e *testEnv) selectViewer(t *testing.T, groupID, participantID string) string {
	t.Helper()

	resp, err := e.groups.SelectViewer(context.Background(), connect.NewRequest(&api.SelectViewerRequest{
		GroupID:       groupID,
		ParticipantID: participantID,
	}))
	if err != nil {
		t.Fatalf("SelectViewer failed: %v", err)
	}
	return "Bearer " + resp.Msg.Token
}

func evenly(ids ...string) []api.PaidFor {
	out := make([]api.PaidFor, len(ids))
	for i, id := range ids {
		out[i] = api.PaidFor{ParticipantID: id, Shares: 1}
	}
	return out
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v (%s)", want, connectErr.Code(), connectErr.Message())
	}
}
