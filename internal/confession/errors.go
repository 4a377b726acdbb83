package confession

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrAlreadyLiked marks the expected outcome of liking a confession the
	// identity has already liked. Callers treat it as a benign no-op.
	ErrAlreadyLiked = errors.New("you have already liked this confession")

	// ErrNoIdentity is returned when a like operation is attempted with
	// neither a platform FID nor an anonymous identifier.
	ErrNoIdentity = errors.New("either a platform fid or an anonymous identifier must be provided")

	// ErrNotFound is returned when the target confession does not exist.
	ErrNotFound = errors.New("confession not found")
)

// ValidationError rejects bad input before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// isDuplicate reports whether err is a unique-constraint violation. GORM
// translates these to ErrDuplicatedKey for both drivers we use; the string
// checks cover driver versions that predate the translation.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505")
}
