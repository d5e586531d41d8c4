package api

type PaidFor struct {
	ParticipantID string `json:"participantId"`
	Shares        int64  `json:"shares"`
}

type SubItem struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	SplitMode string    `json:"splitMode"`
	PaidFor   []PaidFor `json:"paidFor"`
}

// Expense dates are calendar dates formatted YYYY-MM-DD.
type Expense struct {
	ID              string    `json:"id,omitempty"`
	GroupID         string    `json:"groupId"`
	Title           string    `json:"title"`
	Amount          int64     `json:"amount"`
	SplitMode       string    `json:"splitMode"`
	SettlementMode  string    `json:"settlementMode"`
	PaidBy          string    `json:"paidBy"`
	PaidFor         []PaidFor `json:"paidFor"`
	SubItems        []SubItem `json:"subItems,omitempty"`
	IsReimbursement bool      `json:"isReimbursement,omitempty"`
	ExpenseDate     string    `json:"expenseDate,omitempty"`
	CreatedAt       int64     `json:"createdAt,omitempty"`

	LeaseOwnerID          *string  `json:"leaseOwnerId,omitempty"`
	LeaseItemName         *string  `json:"leaseItemName,omitempty"`
	LeaseBuybackDate      string   `json:"leaseBuybackDate,omitempty"`
	LeaseBuybackActive    bool     `json:"leaseBuybackActive,omitempty"`
	LeaseBuybackCompleted bool     `json:"leaseBuybackCompleted,omitempty"`
	LeaseBuyInPayments    []string `json:"leaseBuyInPayments,omitempty"`
}

type CreateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID        string `json:"groupId"`
	SettlementMode string `json:"settlementMode,omitempty"`
	Title          string `json:"title,omitempty"`
	PageSize       int    `json:"pageSize,omitempty"`
	// Cursor is the NextCursor of the previous page.
	Cursor string `json:"cursor,omitempty"`
}

type ListExpensesResponse struct {
	Expenses   []*Expense `json:"expenses"`
	HasMore    bool       `json:"hasMore"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// UpdateExpenseRequest replaces the expense identified by Expense.ID and
// Expense.GroupID. Sub-items get new IDs.
type UpdateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type ToggleLeaseBuybackRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type ToggleLeaseBuybackResponse struct {
	Expense *Expense `json:"expense"`
}

type ToggleLeaseBuybackActiveRequest struct {
	GroupID   string `json:"groupId"`
	ExpenseID string `json:"expenseId"`
}

type ToggleLeaseBuybackActiveResponse struct {
	Expense *Expense `json:"expense"`
}

type ToggleLeaseBuyInRequest struct {
	GroupID       string `json:"groupId"`
	ExpenseID     string `json:"expenseId"`
	ParticipantID string `json:"participantId"`
}

type ToggleLeaseBuyInResponse struct {
	Expense *Expense `json:"expense"`
}
