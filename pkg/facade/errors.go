package facade

import (
	"errors"
	"fmt"

	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

var (
	ErrUserRejected      = errors.New("user rejected the request")
	ErrNoCurrentAccount  = state.ErrNoCurrentAccount
	ErrNotStaked         = errors.New("account is not staked")
	ErrAlreadyAssociated = errors.New("all tokens are already associated")
	ErrSwapUnavailable   = errors.New("swap is not available")
)

// ValidationError reports a request field that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field string, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
