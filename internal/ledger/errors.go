package ledger

import "errors"

var (
	// ErrNotFound covers both "no such entity" and "entity belongs to another
	// admin". Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate - unique key collision (admin name, client username).
	ErrDuplicate = errors.New("duplicate")
)

// ValidationError - a transaction payload that fails the transaction-type
// specific completeness rules (e.g. missing credit_amount on a credit).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErr(msg string) error {
	return &ValidationError{Msg: msg}
}
