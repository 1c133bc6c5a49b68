package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitease/internal/auth"
	"github.com/mmynk/splitease/internal/ledger"
	"github.com/mmynk/splitease/internal/middleware"
)

// toConnectError maps a ledger error kind onto the matching Connect code.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ledger.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// requireUser returns the authenticated user ID placed in ctx by the auth interceptor.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
