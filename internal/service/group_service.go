package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	store      storage.Store
	jwtManager *auth.JWTManager
}

// NewGroupService creates a new GroupService with the given storage backend
// and viewer token manager.
func NewGroupService(store storage.Store, jwtManager *auth.JWTManager) *GroupService {
	return &GroupService{store: store, jwtManager: jwtManager}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}
	if len(req.Msg.Participants) == 0 {
		return nil, invalidArgument("at least one participant required")
	}

	group := &models.Group{Name: name, Currency: req.Msg.Currency}
	seen := make(map[string]bool, len(req.Msg.Participants))
	for _, p := range req.Msg.Participants {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, invalidArgument("participant name required")
		}
		if seen[p] {
			return nil, invalidArgument("participant '%s' listed twice", p)
		}
		seen[p] = true
		group.Participants = append(group.Participants, models.Participant{Name: p})
	}

	// Save to storage (generates IDs and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storeError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// UpdateGroup renames a group and, optionally, some of its participants.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.Participants),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name required")
	}

	current, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("UpdateGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	// Names must stay unique across the whole group after the renames.
	names := make(map[string]string, len(current.Participants))
	for _, p := range current.Participants {
		names[p.ID] = p.Name
	}
	group := &models.Group{ID: current.ID, Name: name, Currency: req.Msg.Currency}
	for _, p := range req.Msg.Participants {
		if !current.HasParticipant(p.ID) {
			return nil, invalidArgument("participant '%s' is not in the group", p.ID)
		}
		pname := strings.TrimSpace(p.Name)
		if pname == "" {
			return nil, invalidArgument("participant name required")
		}
		names[p.ID] = pname
		group.Participants = append(group.Participants, models.Participant{ID: p.ID, GroupID: current.ID, Name: pname})
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return nil, invalidArgument("participant '%s' listed twice", n)
		}
		seen[n] = true
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, storeError(err)
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "group_id", group.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: toAPIGroup(updated)}), nil
}

// DeleteGroup removes a group with everything recorded in it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// groupSettlement is a group's expenses run through the settlement engine.
type groupSettlement struct {
	group    *models.Group
	expenses []*models.Expense
	result   calculator.SettlementBalances
}

// settle loads a fresh snapshot of the group and its expenses and computes
// the settlement. Nothing computed is stored.
func (s *GroupService) settle(ctx context.Context, groupID string) (*groupSettlement, error) {
	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID, storage.ListExpensesFilter{})
	if err != nil {
		return nil, storeError(err)
	}

	return &groupSettlement{
		group:    group,
		expenses: expenses,
		result:   calculator.GetSettlementBalances(expenses),
	}, nil
}

// GetGroupBalances computes the settlement of all expenses in a group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	settlement, err := s.settle(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, err
	}
	result := settlement.result

	viewerID := middleware.ViewerFor(ctx, groupID)
	if viewerID != "" && !settlement.group.HasParticipant(viewerID) {
		viewerID = ""
	}

	resp := &api.GetGroupBalancesResponse{
		Balances:       toAPIBalances(settlement.group, result.Normal.PublicBalances),
		Reimbursements: toAPIReimbursements(result.Normal.Reimbursements),
		Straight:       toAPIStraight(result.Straight),
		Lease:          toAPILease(result.Lease),
		Totals:         toAPITotals(result.Totals),
		Stats:          toAPIStats(calculator.GetStats(viewerID, settlement.expenses)),
	}
	if viewerID != "" {
		totals := toAPITotals(calculator.GetViewerTotals(viewerID, result))
		resp.ViewerTotals = &totals
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(settlement.expenses),
		"reimbursements_count", len(result.Normal.Reimbursements),
		"straight_count", len(result.Straight),
		"lease_count", len(result.Lease),
	)

	return connect.NewResponse(resp), nil
}

// GetPersonDebts lists everything one participant owes, grouped by creditor.
// The person defaults to the viewer.
func (s *GroupService) GetPersonDebts(ctx context.Context, req *connect.Request[api.GetPersonDebtsRequest]) (*connect.Response[api.GetPersonDebtsResponse], error) {
	groupID := req.Msg.GroupID
	personID := req.Msg.PersonID
	if personID == "" {
		personID = middleware.ViewerFor(ctx, groupID)
	}
	slog.Info("GetPersonDebts request received", "group_id", groupID, "person_id", personID)

	if personID == "" {
		return nil, invalidArgument("person_id required when no viewer is selected")
	}

	settlement, err := s.settle(ctx, groupID)
	if err != nil {
		slog.Error("GetPersonDebts failed", "group_id", groupID, "error", err)
		return nil, err
	}
	if err := validateParticipant("person_id", personID, settlement.group); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result := settlement.result
	debts := calculator.GetPersonDebts(personID, result.Normal.Reimbursements, result.Straight, result.Lease)

	return connect.NewResponse(&api.GetPersonDebtsResponse{
		PersonID: personID,
		Debts:    toAPIDebts(debts),
	}), nil
}

// SelectViewer issues a viewer token naming a participant of the group.
func (s *GroupService) SelectViewer(ctx context.Context, req *connect.Request[api.SelectViewerRequest]) (*connect.Response[api.SelectViewerResponse], error) {
	slog.Info("SelectViewer request received", "group_id", req.Msg.GroupID, "participant_id", req.Msg.ParticipantID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("SelectViewer failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	if err := validateParticipant("participant_id", req.Msg.ParticipantID, group); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	token, err := s.jwtManager.Generate(group.ID, req.Msg.ParticipantID)
	if err != nil {
		slog.Error("SelectViewer failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to issue viewer token: %w", err))
	}

	return connect.NewResponse(&api.SelectViewerResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtManager.ExpiresIn()).Unix(),
	}), nil
}
