package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateUsername is returned by CreateUser when the username is
	// already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned by Authenticate when no user matches
	// the given username and password pair. Unknown usernames and wrong
	// passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports a rejected input field on an add operation. No row
// is written when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func requireNonBlank(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be blank"}
	}
	return nil
}

// parseAmount validates and normalizes a monetary amount. Blank strings and
// anything decimal cannot parse are rejected; any parsable value is
// accepted, sign and scale included.
func parseAmount(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must not be blank"}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Reason: "must be a decimal number"}
	}
	return d, nil
}
