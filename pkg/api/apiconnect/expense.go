package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "settleup.v1.ExpenseService"

const (
	ExpenseServiceCreateExpenseProcedure            = "/settleup.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure               = "/settleup.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure             = "/settleup.v1.ExpenseService/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure            = "/settleup.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure            = "/settleup.v1.ExpenseService/DeleteExpense"
	ExpenseServiceToggleLeaseBuybackProcedure       = "/settleup.v1.ExpenseService/ToggleLeaseBuyback"
	ExpenseServiceToggleLeaseBuybackActiveProcedure = "/settleup.v1.ExpenseService/ToggleLeaseBuybackActive"
	ExpenseServiceToggleLeaseBuyInProcedure         = "/settleup.v1.ExpenseService/ToggleLeaseBuyIn"
)

// ExpenseServiceHandler is implemented by the expense service.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ToggleLeaseBuyback(context.Context, *connect.Request[api.ToggleLeaseBuybackRequest]) (*connect.Response[api.ToggleLeaseBuybackResponse], error)
	ToggleLeaseBuybackActive(context.Context, *connect.Request[api.ToggleLeaseBuybackActiveRequest]) (*connect.Response[api.ToggleLeaseBuybackActiveResponse], error)
	ToggleLeaseBuyIn(context.Context, *connect.Request[api.ToggleLeaseBuyInRequest]) (*connect.Response[api.ToggleLeaseBuyInResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		ExpenseServiceCreateExpenseProcedure:            connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceGetExpenseProcedure:               connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceListExpensesProcedure:             connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServiceUpdateExpenseProcedure:            connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		ExpenseServiceDeleteExpenseProcedure:            connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		ExpenseServiceToggleLeaseBuybackProcedure:       connect.NewUnaryHandler(ExpenseServiceToggleLeaseBuybackProcedure, svc.ToggleLeaseBuyback, opts...),
		ExpenseServiceToggleLeaseBuybackActiveProcedure: connect.NewUnaryHandler(ExpenseServiceToggleLeaseBuybackActiveProcedure, svc.ToggleLeaseBuybackActive, opts...),
		ExpenseServiceToggleLeaseBuyInProcedure:         connect.NewUnaryHandler(ExpenseServiceToggleLeaseBuyInProcedure, svc.ToggleLeaseBuyIn, opts...),
	}
	return "/" + ExpenseServiceName + "/", routeProcedures(handlers)
}

// ExpenseServiceClient is a client for the ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	ToggleLeaseBuyback(context.Context, *connect.Request[api.ToggleLeaseBuybackRequest]) (*connect.Response[api.ToggleLeaseBuybackResponse], error)
	ToggleLeaseBuybackActive(context.Context, *connect.Request[api.ToggleLeaseBuybackActiveRequest]) (*connect.Response[api.ToggleLeaseBuybackActiveResponse], error)
	ToggleLeaseBuyIn(context.Context, *connect.Request[api.ToggleLeaseBuyInRequest]) (*connect.Response[api.ToggleLeaseBuyInResponse], error)
}

// NewExpenseServiceClient constructs a client for the ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense:            connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:               connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:             connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		updateExpense:            connect.NewClient[api.UpdateExpenseRequest, api.UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense:            connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		toggleLeaseBuyback:       connect.NewClient[api.ToggleLeaseBuybackRequest, api.ToggleLeaseBuybackResponse](httpClient, baseURL+ExpenseServiceToggleLeaseBuybackProcedure, opts...),
		toggleLeaseBuybackActive: connect.NewClient[api.ToggleLeaseBuybackActiveRequest, api.ToggleLeaseBuybackActiveResponse](httpClient, baseURL+ExpenseServiceToggleLeaseBuybackActiveProcedure, opts...),
		toggleLeaseBuyIn:         connect.NewClient[api.ToggleLeaseBuyInRequest, api.ToggleLeaseBuyInResponse](httpClient, baseURL+ExpenseServiceToggleLeaseBuyInProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense            *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense               *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses             *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	updateExpense            *connect.Client[api.UpdateExpenseRequest, api.UpdateExpenseResponse]
	deleteExpense            *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	toggleLeaseBuyback       *connect.Client[api.ToggleLeaseBuybackRequest, api.ToggleLeaseBuybackResponse]
	toggleLeaseBuybackActive *connect.Client[api.ToggleLeaseBuybackActiveRequest, api.ToggleLeaseBuybackActiveResponse]
	toggleLeaseBuyIn         *connect.Client[api.ToggleLeaseBuyInRequest, api.ToggleLeaseBuyInResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ToggleLeaseBuyback(ctx context.Context, req *connect.Request[api.ToggleLeaseBuybackRequest]) (*connect.Response[api.ToggleLeaseBuybackResponse], error) {
	return c.toggleLeaseBuyback.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ToggleLeaseBuybackActive(ctx context.Context, req *connect.Request[api.ToggleLeaseBuybackActiveRequest]) (*connect.Response[api.ToggleLeaseBuybackActiveResponse], error) {
	return c.toggleLeaseBuybackActive.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ToggleLeaseBuyIn(ctx context.Context, req *connect.Request[api.ToggleLeaseBuyInRequest]) (*connect.Response[api.ToggleLeaseBuyInResponse], error) {
	return c.toggleLeaseBuyIn.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}
