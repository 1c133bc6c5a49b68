package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitease/internal/ledger"
	"github.com/mmynk/splitease/internal/models"
)

// GroupService implements the GroupService RPC interface: group lifecycle,
// per-group balances and the cross-group dashboard summary.
type GroupService struct {
	ledger *ledger.Ledger
}

// NewGroupService creates a new GroupService backed by the given ledger.
func NewGroupService(l *ledger.Ledger) *GroupService {
	return &GroupService{ledger: l}
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberEmails),
		"user_id", userID,
	)

	group, err := s.ledger.CreateGroup(ctx, userID, ledger.NewGroup{
		Name:         req.Msg.Name,
		Category:     models.Category(req.Msg.Category),
		MemberEmails: req.Msg.MemberEmails,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	view, err := s.ledger.GroupView(ctx, userID, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&CreateGroupResponse{Group: toGroup(view.Group, view.Members)}), nil
}

// ListGroups lists the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.ledger.ListGroups(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	groups := make([]GroupSummary, len(items))
	for i, item := range items {
		groups[i] = toGroupSummary(item)
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&ListGroupsResponse{Groups: groups}), nil
}

// GetGroup returns a group with its entries, balances and settlement suggestions.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID, "user_id", userID)

	view, err := s.ledger.GroupView(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetGroupResponse{
		Group:       toGroup(view.Group, view.Members),
		Entries:     toEntries(view.Entries),
		TotalSpent:  view.TotalSpent,
		EntryCount:  view.EntryCount,
		Balances:    view.Balances,
		YouAreOwed:  view.YouAreOwed,
		YouOwe:      view.YouOwe,
		Suggestions: toSuggestions(view.Suggestions),
	}), nil
}

// DeleteGroup removes a group and all of its entries.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteGroup(ctx, userID, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID, "user_id", userID)
	return connect.NewResponse(&DeleteGroupResponse{}), nil
}

// GetSummary returns the caller's position summed over all of their groups.
func (s *GroupService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.Summary(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetSummaryResponse{
		YouAreOwed:  summary.YouAreOwed,
		YouOwe:      summary.YouOwe,
		TotalGroups: summary.TotalGroups,
	}), nil
}
