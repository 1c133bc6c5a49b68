package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/calculator"
	"github.com/mmynk/splitease/internal/ledger"
	"github.com/mmynk/splitease/internal/models"
)

// Wire messages. Money is encoded as a decimal string ("12.50"); requests also
// accept plain JSON numbers. Timestamps are Unix milliseconds.

// User is a registered account as returned to clients.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

// Member is a group member with their display name.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a group with its ordered member list.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Members   []Member `json:"members"`
	CreatedBy string   `json:"createdBy"`
	CreatedAt int64    `json:"createdAt"`
}

// GroupSummary is one row of the caller's group list.
type GroupSummary struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	MemberCount  int             `json:"memberCount"`
	CreatedAt    int64           `json:"createdAt"`
	LastActivity int64           `json:"lastActivity"`
	YouAreOwed   decimal.Decimal `json:"youAreOwed"`
	YouOwe       decimal.Decimal `json:"youOwe"`
}

// Split is one member's share of an entry.
type Split struct {
	MemberID string          `json:"memberId"`
	Share    decimal.Decimal `json:"share"`
}

// Entry is an expense or wallet payment recorded in a group.
type Entry struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paidBy"`
	Kind        string          `json:"kind"`
	Splits      []Split         `json:"splits"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   int64           `json:"createdAt"`
}

// Suggestion is one suggested transfer: Debtor pays Creditor Amount.
type Suggestion struct {
	Debtor   string          `json:"debtor"`
	Creditor string          `json:"creditor"`
	Amount   decimal.Decimal `json:"amount"`
}

// Item is a receipt line assigned to one or more participants.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	AssignedTo  []string        `json:"assignedTo"`
}

// Wallet is a user's standalone cash balance.
type Wallet struct {
	UserID    string          `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt int64           `json:"updatedAt"`
}

// AuthService messages.

// RegisterRequest is the request message for AuthService.Register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterResponse carries the new user and a session token.
type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoginRequest is the request message for AuthService.Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the user and a session token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// GetCurrentUserRequest is the request message for AuthService.GetCurrentUser.
type GetCurrentUserRequest struct{}

// GetCurrentUserResponse carries the authenticated user.
type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// GroupService messages.

// CreateGroupRequest is the request message for GroupService.CreateGroup. Members are given by email.
type CreateGroupRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	MemberEmails []string `json:"memberEmails"`
}

// CreateGroupResponse carries the created group.
type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

// ListGroupsRequest is the request message for GroupService.ListGroups.
type ListGroupsRequest struct{}

// ListGroupsResponse lists the caller's groups, newest first.
type ListGroupsResponse struct {
	Groups []GroupSummary `json:"groups"`
}

// GetGroupRequest is the request message for GroupService.GetGroup.
type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

// GetGroupResponse is the full group view: entries, balances and settlement suggestions.
type GetGroupResponse struct {
	Group       *Group                     `json:"group"`
	Entries     []Entry                    `json:"entries"`
	TotalSpent  decimal.Decimal            `json:"totalSpent"`
	EntryCount  int                        `json:"entryCount"`
	Balances    map[string]decimal.Decimal `json:"balances"`
	YouAreOwed  decimal.Decimal            `json:"youAreOwed"`
	YouOwe      decimal.Decimal            `json:"youOwe"`
	Suggestions []Suggestion               `json:"suggestions"`
}

// DeleteGroupRequest is the request message for GroupService.DeleteGroup.
type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

// DeleteGroupResponse is empty on success.
type DeleteGroupResponse struct{}

// GetSummaryRequest is the request message for GroupService.GetSummary.
type GetSummaryRequest struct{}

// GetSummaryResponse is the caller's position summed over all groups.
type GetSummaryResponse struct {
	YouAreOwed  decimal.Decimal `json:"youAreOwed"`
	YouOwe      decimal.Decimal `json:"youOwe"`
	TotalGroups int             `json:"totalGroups"`
}

// ExpenseService messages.

// AddExpenseRequest is the request message for ExpenseService.AddExpense. PaidBy defaults to the caller.
type AddExpenseRequest struct {
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paidBy"`
	Splits      []Split         `json:"splits"`
}

// AddExpenseResponse carries the recorded entry.
type AddExpenseResponse struct {
	Entry *Entry `json:"entry"`
}

// ListExpensesRequest is the request message for ExpenseService.ListExpenses.
type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

// ListExpensesResponse lists the group's entries, newest first.
type ListExpensesResponse struct {
	Entries []Entry `json:"entries"`
}

// CalculateSplitRequest is the request message for ExpenseService.CalculateSplit.
type CalculateSplitRequest struct {
	Items        []Item          `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Participants []string        `json:"participants"`
}

// CalculateSplitResponse carries shares that sum exactly to the total.
type CalculateSplitResponse struct {
	Splits []Split `json:"splits"`
}

// WalletService messages.

// GetWalletRequest is the request message for WalletService.GetWallet.
type GetWalletRequest struct{}

// GetWalletResponse carries the caller's wallet.
type GetWalletResponse struct {
	Wallet *Wallet `json:"wallet"`
}

// AddFundsRequest is the request message for WalletService.AddFunds.
type AddFundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AddFundsResponse carries the updated wallet.
type AddFundsResponse struct {
	Wallet *Wallet `json:"wallet"`
}

// PayRequest is the request message for WalletService.Pay.
type PayRequest struct {
	GroupID string          `json:"groupId"`
	PayeeID string          `json:"payeeId"`
	Amount  decimal.Decimal `json:"amount"`
	Note    string          `json:"note"`
}

// PayResponse carries the payer's updated wallet and the recorded payment entry.
type PayResponse struct {
	Wallet  *Wallet `json:"wallet"`
	Payment *Entry  `json:"payment"`
}

// Conversions from domain types.

func toUser(u *models.User) *User {
	return &User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toGroup(g *models.Group, members []models.Member) *Group {
	out := &Group{
		ID:        g.ID,
		Name:      g.Name,
		Category:  string(g.Category),
		Members:   make([]Member, len(members)),
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
	for i, m := range members {
		out.Members[i] = Member{ID: m.ID, Name: m.Name}
	}
	return out
}

func toSplits(splits []models.Split) []Split {
	out := make([]Split, len(splits))
	for i, s := range splits {
		out[i] = Split{MemberID: s.MemberID, Share: s.Share}
	}
	return out
}

func fromSplits(splits []Split) []models.Split {
	out := make([]models.Split, len(splits))
	for i, s := range splits {
		out[i] = models.Split{MemberID: s.MemberID, Share: s.Share}
	}
	return out
}

func toEntry(e *models.LedgerEntry) *Entry {
	return &Entry{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PayerID,
		Kind:        string(e.Kind),
		Splits:      toSplits(e.Splits),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toEntries(entries []models.LedgerEntry) []Entry {
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = *toEntry(&entries[i])
	}
	return out
}

func toSuggestions(suggestions []calculator.Suggestion) []Suggestion {
	out := make([]Suggestion, len(suggestions))
	for i, s := range suggestions {
		out[i] = Suggestion{Debtor: s.Debtor, Creditor: s.Creditor, Amount: s.Amount}
	}
	return out
}

func toGroupSummary(item ledger.GroupListItem) GroupSummary {
	return GroupSummary{
		ID:           item.ID,
		Name:         item.Name,
		Category:     string(item.Category),
		MemberCount:  item.MemberCount,
		CreatedAt:    item.CreatedAt,
		LastActivity: item.LastActivity,
		YouAreOwed:   item.YouAreOwed,
		YouOwe:       item.YouOwe,
	}
}

func toWallet(w *models.Wallet) *Wallet {
	return &Wallet{UserID: w.UserID, Balance: w.Balance, UpdatedAt: w.UpdatedAt}
}
