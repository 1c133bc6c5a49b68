package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/splitease/internal/storage"
)

// Error kinds surfaced by the ledger. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInternal          = errors.New("internal error")

	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
)

// storageError translates a storage failure into a ledger error kind.
func storageError(err error, what string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, storage.ErrInsufficientFunds):
		return fmt.Errorf("%s: %w", what, ErrInsufficientFunds)
	default:
		return fmt.Errorf("%w: %s: %w", ErrInternal, what, err)
	}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
