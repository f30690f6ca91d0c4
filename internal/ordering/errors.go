package ordering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound      = errors.New("parent not found")
	ErrOrderMismatch = errors.New("submitted order does not match children")
	ErrPersistence   = errors.New("persisting order failed")
)

// MismatchError describes how a submitted sequence differs from the
// parent's actual children. It matches ErrOrderMismatch with errors.Is.
type MismatchError struct {
	ParentID int64
	// Missing holds existing children left out of the submission.
	Missing []int64
	// Foreign holds submitted ids that are not children of the parent.
	Foreign []int64
	// Duplicate holds ids submitted more than once.
	Duplicate []int64
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+joinIDs(e.Missing))
	}
	if len(e.Foreign) > 0 {
		parts = append(parts, "foreign "+joinIDs(e.Foreign))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate "+joinIDs(e.Duplicate))
	}
	return fmt.Sprintf("parent %d: %s: %s", e.ParentID, ErrOrderMismatch, strings.Join(parts, "; "))
}

func (e *MismatchError) Is(target error) bool { return target == ErrOrderMismatch }

// PersistenceError wraps an infrastructure failure while reading or writing
// a parent's order. The prior order is intact and the call may be retried.
type PersistenceError struct {
	Op       string
	ParentID int64
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s parent %d: %v", e.Op, e.ParentID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func joinIDs(ids []int64) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(s, ",") + "]"
}
