package repositories

import (
	stderrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is the only store-specific failure callers need to tell apart;
// every other error is an unhandled store failure.
var ErrNotFound = stderrors.New("record not found")

// translate maps gorm's not-found signal onto ErrNotFound and wraps anything
// else with op for the logs.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.WithMessage(ErrNotFound, op)
	}
	return errors.Wrap(err, op)
}
