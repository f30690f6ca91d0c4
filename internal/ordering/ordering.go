// Package ordering decides whether a parent's children are in automatic or
// custom order and rewrites their display order as one atomic unit.
//
// The package knows nothing about the concrete parent and child tables. A
// ParentResolver turns an id into a Parent, and a Store lists children, sums
// their display order and runs the scoped write transaction a reindex needs.
// Nothing in here logs: callers decide what an outcome is worth reporting.
package ordering

import "context"

// OrderMode classifies a parent's child collection. It is derived on every
// read and never stored.
type OrderMode string

const (
	// Auto means no explicit order was persisted; children render in the
	// store's natural order.
	Auto OrderMode = "auto"
	// Custom means an operator-chosen order was persisted.
	Custom OrderMode = "custom"
)

func (m OrderMode) String() string { return string(m) }

// ParseOrderMode accepts the two radio values the order form posts.
func ParseOrderMode(s string) (OrderMode, bool) {
	switch OrderMode(s) {
	case Auto:
		return Auto, true
	case Custom:
		return Custom, true
	}
	return "", false
}

// Classify maps a display order sum onto a mode. A sum of zero is Auto,
// which also covers an empty collection and a custom order whose values
// happen to cancel out (-1, +1).
func Classify(sum int64) OrderMode {
	if sum == 0 {
		return Auto
	}
	return Custom
}

type Parent struct {
	ID    int64
	Title string
}

type Child struct {
	ID           int64
	DisplayOrder int
	// Label is whatever the presentation layer renders for the child (text
	// or markup). The engine never looks at it.
	Label string
}

// ParentResolver loads a parent by id or reports ErrNotFound.
type ParentResolver interface {
	Resolve(ctx context.Context, parentID int64) (Parent, error)
}

// ChildEnumerator lists a parent's children in the store's natural order.
type ChildEnumerator interface {
	ListChildren(ctx context.Context, parentID int64) ([]Child, error)
}

// Store is the persistence side of a child collection.
type Store interface {
	ChildEnumerator

	// SumOrder returns sum(display_order) over the parent's children, 0 for
	// none. It must be a single read so it never sees a partial reindex.
	SumOrder(ctx context.Context, parentID int64) (int64, error)

	// Transact runs fn in one write transaction scoped to parentID. Writers
	// on the same parent are serialised; an error from fn, or a cancelled
	// ctx, rolls back every write made through tx.
	Transact(ctx context.Context, parentID int64, fn func(tx Tx) error) error
}

// Tx is the write half of a Store, valid only inside Transact.
type Tx interface {
	// ChildIDs returns the ids of the parent's children, locked until the
	// transaction ends.
	ChildIDs(ctx context.Context) ([]int64, error)
	// SetOrder writes display_order for one child of the transaction's parent.
	SetOrder(ctx context.Context, childID int64, order int) error
}
