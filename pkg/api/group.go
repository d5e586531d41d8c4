// Package api defines the request and response messages of the settleup
// RPC services. Amounts are integer minor units.
package api

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency,omitempty"`
	Participants []Participant `json:"participants"`
	CreatedAt    int64         `json:"createdAt"`
}

type CreateGroupRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	// Participants are the display names of the members, in order.
	Participants []string `json:"participants"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// UpdateGroupRequest renames a group. Participants listed here are renamed
// by ID; membership itself never changes.
type UpdateGroupRequest struct {
	GroupID      string        `json:"groupId"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

// Balance is one participant's net position.
type Balance struct {
	ParticipantID string `json:"participantId"`
	Paid          int64  `json:"paid"`
	PaidFor       int64  `json:"paidFor"`
	Total         int64  `json:"total"`
}

type Reimbursement struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type StraightBalanceItem struct {
	ExpenseID    string `json:"expenseId"`
	ExpenseTitle string `json:"expenseTitle"`
	From         string `json:"from"`
	To           string `json:"to"`
	Amount       int64  `json:"amount"`
}

type BuybackShare struct {
	ParticipantID string `json:"participantId"`
	Amount        int64  `json:"amount"`
}

type BuyInShare struct {
	ParticipantID string `json:"participantId"`
	Amount        int64  `json:"amount"`
	Paid          bool   `json:"paid"`
}

type LeaseItem struct {
	ExpenseID        string         `json:"expenseId"`
	ItemName         string         `json:"itemName"`
	TotalCost        int64          `json:"totalCost"`
	OwnerID          string         `json:"ownerId"`
	BuybackDate      string         `json:"buybackDate,omitempty"` // YYYY-MM-DD
	BuybackState     string         `json:"buybackState"`
	BuybackActive    bool           `json:"buybackActive"`
	BuybackCompleted bool           `json:"buybackCompleted"`
	BuybackBreakdown []BuybackShare `json:"buybackBreakdown"`
	BuyInBreakdown   []BuyInShare   `json:"buyInBreakdown"`
}

type Totals struct {
	TotalOwed      int64 `json:"totalOwed"`
	TotalOwedToYou int64 `json:"totalOwedToYou"`
	Net            int64 `json:"net"`
}

type Stats struct {
	TotalGroupSpending int64 `json:"totalGroupSpending"`
	TotalPaid          int64 `json:"totalPaid"`
	TotalShare         int64 `json:"totalShare"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	// Balances are derived from the suggested reimbursements, in
	// participant order.
	Balances       []Balance             `json:"balances"`
	Reimbursements []Reimbursement       `json:"reimbursements"`
	Straight       []StraightBalanceItem `json:"straight"`
	Lease          []LeaseItem           `json:"lease"`
	Totals         Totals                `json:"totals"`
	// ViewerTotals is set when the request carries a viewer token for this group.
	ViewerTotals *Totals `json:"viewerTotals,omitempty"`
	Stats        Stats   `json:"stats"`
}

type PersonDebtItem struct {
	Type               string `json:"type"`
	Amount             int64  `json:"amount"`
	ExpenseID          string `json:"expenseId,omitempty"`
	ExpenseTitle       string `json:"expenseTitle,omitempty"`
	LeaseItemName      string `json:"leaseItemName,omitempty"`
	LeaseExpenseID     string `json:"leaseExpenseId,omitempty"`
	BuyInParticipantID string `json:"buyInParticipantId,omitempty"`
}

type CreditorDebt struct {
	CreditorID  string           `json:"creditorId"`
	TotalAmount int64            `json:"totalAmount"`
	Items       []PersonDebtItem `json:"items"`
}

type GetPersonDebtsRequest struct {
	GroupID string `json:"groupId"`
	// PersonID defaults to the viewer.
	PersonID string `json:"personId,omitempty"`
}

type GetPersonDebtsResponse struct {
	PersonID string         `json:"personId"`
	Debts    []CreditorDebt `json:"debts"`
}

type SelectViewerRequest struct {
	GroupID       string `json:"groupId"`
	ParticipantID string `json:"participantId"`
}

type SelectViewerResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}
