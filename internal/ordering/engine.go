package ordering

import (
	"context"
	"errors"
)

// Engine detects order modes and rewrites child order for one collection.
type Engine struct {
	parents ParentResolver
	store   Store
}

func New(parents ParentResolver, store Store) *Engine {
	return &Engine{parents: parents, store: store}
}

// State is what an order page shows before the operator submits.
type State struct {
	Parent   Parent
	Children []Child
	Mode     OrderMode
}

// DetectOrderMode classifies the parent's children by the sum of their
// display order.
func (e *Engine) DetectOrderMode(ctx context.Context, parentID int64) (OrderMode, error) {
	if _, err := e.resolve(ctx, parentID); err != nil {
		return "", err
	}
	return e.detect(ctx, parentID)
}

// Current loads the parent, its children in natural order and the mode.
func (e *Engine) Current(ctx context.Context, parentID int64) (State, error) {
	p, err := e.resolve(ctx, parentID)
	if err != nil {
		return State{}, err
	}
	children, err := e.store.ListChildren(ctx, parentID)
	if err != nil {
		return State{}, &PersistenceError{Op: "list", ParentID: parentID, Err: err}
	}
	mode, err := e.detect(ctx, parentID)
	if err != nil {
		return State{}, err
	}
	return State{Parent: p, Children: children, Mode: mode}, nil
}

// Reindex gives the child at position i of orderedIDs display order i.
// orderedIDs must hold every child of the parent exactly once; otherwise a
// *MismatchError is returned and nothing is written. The returned mode
// follows from the written values: Auto for zero or one child, Custom
// otherwise.
func (e *Engine) Reindex(ctx context.Context, parentID int64, orderedIDs []int64) (OrderMode, error) {
	if _, err := e.resolve(ctx, parentID); err != nil {
		return "", err
	}

	var sum int64
	err := e.store.Transact(ctx, parentID, func(tx Tx) error {
		current, err := tx.ChildIDs(ctx)
		if err != nil {
			return err
		}
		if err := CheckPermutation(parentID, current, orderedIDs); err != nil {
			return err
		}
		sum = 0
		for i, id := range orderedIDs {
			if err := tx.SetOrder(ctx, id, i); err != nil {
				return err
			}
			sum += int64(i)
		}
		return nil
	})
	if err != nil {
		return "", e.writeErr("reindex", parentID, err)
	}
	return Classify(sum), nil
}

// Reset puts every child of the parent back to display order 0, which
// returns the collection to natural order.
func (e *Engine) Reset(ctx context.Context, parentID int64) (OrderMode, error) {
	if _, err := e.resolve(ctx, parentID); err != nil {
		return "", err
	}
	err := e.store.Transact(ctx, parentID, func(tx Tx) error {
		ids, err := tx.ChildIDs(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := tx.SetOrder(ctx, id, 0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", e.writeErr("reset", parentID, err)
	}
	return Auto, nil
}

func (e *Engine) resolve(ctx context.Context, parentID int64) (Parent, error) {
	p, err := e.parents.Resolve(ctx, parentID)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, ErrNotFound) {
		return Parent{}, err
	}
	return Parent{}, &PersistenceError{Op: "resolve", ParentID: parentID, Err: err}
}

func (e *Engine) detect(ctx context.Context, parentID int64) (OrderMode, error) {
	sum, err := e.store.SumOrder(ctx, parentID)
	if err != nil {
		return "", &PersistenceError{Op: "detect", ParentID: parentID, Err: err}
	}
	return Classify(sum), nil
}

func (e *Engine) writeErr(op string, parentID int64, err error) error {
	var mismatch *MismatchError
	if errors.As(err, &mismatch) {
		return mismatch
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return perr
	}
	return &PersistenceError{Op: op, ParentID: parentID, Err: err}
}
