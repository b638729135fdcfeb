package services

import (
	goerrors "errors"

	"duospace/errors"
)

// withRetry runs a read-modify-write attempt up to attempts times,
// retrying only on version conflicts. Each retry re-reads inside fn, so
// the action is re-validated against the fresh state; a retried move
// that became illegal fails with its own precondition error rather than
// being replayed blindly. When the budget runs out the caller gets
// ErrStateChanged: the action was valid when issued, the world moved.
func withRetry(attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if !goerrors.Is(err, errors.ErrVersionConflict) {
			return err
		}
	}
	return errors.ErrStateChanged
}
