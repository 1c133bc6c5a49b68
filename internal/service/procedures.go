package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// Fully-qualified service names.
const (
	AuthServiceName    = "splitease.v1.AuthService"
	GroupServiceName   = "splitease.v1.GroupService"
	ExpenseServiceName = "splitease.v1.ExpenseService"
	WalletServiceName  = "splitease.v1.WalletService"
)

// Procedure paths. Clients POST the JSON request message to these paths.
const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"

	GroupServiceCreateGroupProcedure = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceListGroupsProcedure  = "/" + GroupServiceName + "/ListGroups"
	GroupServiceGetGroupProcedure    = "/" + GroupServiceName + "/GetGroup"
	GroupServiceDeleteGroupProcedure = "/" + GroupServiceName + "/DeleteGroup"
	GroupServiceGetSummaryProcedure  = "/" + GroupServiceName + "/GetSummary"

	ExpenseServiceAddExpenseProcedure     = "/" + ExpenseServiceName + "/AddExpense"
	ExpenseServiceListExpensesProcedure   = "/" + ExpenseServiceName + "/ListExpenses"
	ExpenseServiceCalculateSplitProcedure = "/" + ExpenseServiceName + "/CalculateSplit"

	WalletServiceGetWalletProcedure = "/" + WalletServiceName + "/GetWallet"
	WalletServiceAddFundsProcedure  = "/" + WalletServiceName + "/AddFunds"
	WalletServicePayProcedure       = "/" + WalletServiceName + "/Pay"
)

// handlerOptions prepends the JSON codec so callers cannot forget it.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...))
	mux.Handle(AuthServiceGetCurrentUserProcedure, connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...))
	return "/" + AuthServiceName + "/", mux
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc *GroupService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(GroupServiceCreateGroupProcedure, connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GroupServiceListGroupsProcedure, connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(GroupServiceGetGroupProcedure, connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(GroupServiceDeleteGroupProcedure, connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...))
	mux.Handle(GroupServiceGetSummaryProcedure, connect.NewUnaryHandler(GroupServiceGetSummaryProcedure, svc.GetSummary, opts...))
	return "/" + GroupServiceName + "/", mux
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
func NewExpenseServiceHandler(svc *ExpenseService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceAddExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(ExpenseServiceListExpensesProcedure, connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(ExpenseServiceCalculateSplitProcedure, connect.NewUnaryHandler(ExpenseServiceCalculateSplitProcedure, svc.CalculateSplit, opts...))
	return "/" + ExpenseServiceName + "/", mux
}

// NewWalletServiceHandler builds an HTTP handler from the service implementation.
func NewWalletServiceHandler(svc *WalletService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(WalletServiceGetWalletProcedure, connect.NewUnaryHandler(WalletServiceGetWalletProcedure, svc.GetWallet, opts...))
	mux.Handle(WalletServiceAddFundsProcedure, connect.NewUnaryHandler(WalletServiceAddFundsProcedure, svc.AddFunds, opts...))
	mux.Handle(WalletServicePayProcedure, connect.NewUnaryHandler(WalletServicePayProcedure, svc.Pay, opts...))
	return "/" + WalletServiceName + "/", mux
}
