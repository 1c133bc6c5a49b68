package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitease/internal/calculator"
	"github.com/mmynk/splitease/internal/ledger"
)

// ExpenseService implements the ExpenseService RPC interface.
type ExpenseService struct {
	ledger *ledger.Ledger
}

// NewExpenseService creates a new ExpenseService backed by the given ledger.
func NewExpenseService(l *ledger.Ledger) *ExpenseService {
	return &ExpenseService{ledger: l}
}

// AddExpense records an expense with explicit splits.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount.String(),
		"splits_count", len(req.Msg.Splits),
		"user_id", userID,
	)

	entry, err := s.ledger.AddExpense(ctx, userID, ledger.ExpenseInput{
		GroupID:     req.Msg.GroupID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PayerID:     req.Msg.PaidBy,
		Splits:      fromSplits(req.Msg.Splits),
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Expense recorded", "entry_id", entry.ID, "group_id", entry.GroupID)
	return connect.NewResponse(&AddExpenseResponse{Entry: toEntry(entry)}), nil
}

// ListExpenses lists a group's entries, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListEntries(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ListExpensesResponse{Entries: toEntries(entries)}), nil
}

// CalculateSplit previews the shares of an itemised receipt without storing anything.
// The returned splits can be passed straight to AddExpense.
func (s *ExpenseService) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	items := make([]calculator.Item, len(req.Msg.Items))
	for i, item := range req.Msg.Items {
		items[i] = calculator.Item{
			Description: item.Description,
			Amount:      item.Amount,
			AssignedTo:  item.AssignedTo,
		}
	}

	splits, err := calculator.ItemizedShares(items, req.Msg.Total, req.Msg.Subtotal, req.Msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	return connect.NewResponse(&CalculateSplitResponse{Splits: toSplits(splits)}), nil
}
