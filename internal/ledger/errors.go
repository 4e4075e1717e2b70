package ledger

import "fmt"

// ValidationError reports malformed or inconsistent input: non-positive
// amounts, payer or split sums that don't match the total, unknown member
// references, refunds exceeding what was paid.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// InvariantError reports a post-computation consistency failure: member
// balances that do not sum to zero. A correct calculator never produces one.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string { return e.msg }

func invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}
