package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitease/internal/ledger"
)

// WalletService implements the WalletService RPC interface.
type WalletService struct {
	ledger *ledger.Ledger
}

// NewWalletService creates a new WalletService backed by the given ledger.
func NewWalletService(l *ledger.Ledger) *WalletService {
	return &WalletService{ledger: l}
}

// GetWallet returns the caller's wallet.
func (s *WalletService) GetWallet(ctx context.Context, req *connect.Request[GetWalletRequest]) (*connect.Response[GetWalletResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	wallet, err := s.ledger.Wallet(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetWalletResponse{Wallet: toWallet(wallet)}), nil
}

// AddFunds tops up the caller's wallet.
func (s *WalletService) AddFunds(ctx context.Context, req *connect.Request[AddFundsRequest]) (*connect.Response[AddFundsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	wallet, err := s.ledger.Credit(ctx, userID, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AddFundsResponse{Wallet: toWallet(wallet)}), nil
}

// Pay settles a debt to another group member out of the caller's wallet.
func (s *WalletService) Pay(ctx context.Context, req *connect.Request[PayRequest]) (*connect.Response[PayResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	settled, err := s.ledger.DebitAndSettle(ctx, ledger.SettleRequest{
		PayerID: userID,
		PayeeID: req.Msg.PayeeID,
		GroupID: req.Msg.GroupID,
		Amount:  req.Msg.Amount,
		Note:    req.Msg.Note,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&PayResponse{
		Wallet:  toWallet(settled.Wallet),
		Payment: toEntry(settled.Payment),
	}), nil
}
