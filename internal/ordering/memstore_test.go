package ordering_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/lojf/inquisition/internal/ordering"
)

var errDiskFull = errors.New("disk full")

// memStore keeps children per parent in insertion order. Writes made inside
// Transact are staged and only applied when fn returns nil.
type memStore struct {
	mu       sync.Mutex
	parents  map[int64]string
	children map[int64][]ordering.Child

	// failAfter makes the n-th SetOrder of a transaction fail (1-based).
	failAfter int
	writes    int
}

func newMemStore() *memStore {
	return &memStore{
		parents:  map[int64]string{},
		children: map[int64][]ordering.Child{},
	}
}

func (s *memStore) addParent(id int64, title string) {
	s.parents[id] = title
}

func (s *memStore) addChild(parentID, id int64, order int) {
	s.children[parentID] = append(s.children[parentID], ordering.Child{
		ID:           id,
		DisplayOrder: order,
		Label:        "child",
	})
}

func (s *memStore) Resolve(_ context.Context, parentID int64) (ordering.Parent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	title, ok := s.parents[parentID]
	if !ok {
		return ordering.Parent{}, ordering.ErrNotFound
	}
	return ordering.Parent{ID: parentID, Title: title}, nil
}

func (s *memStore) ListChildren(_ context.Context, parentID int64) ([]ordering.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ordering.Child, len(s.children[parentID]))
	copy(out, s.children[parentID])
	return out, nil
}

func (s *memStore) SumOrder(_ context.Context, parentID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, c := range s.children[parentID] {
		sum += int64(c.DisplayOrder)
	}
	return sum, nil
}

func (s *memStore) Transact(ctx context.Context, parentID int64, fn func(tx ordering.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, parentID: parentID, staged: map[int64]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := s.children[parentID]
	for i := range rows {
		if o, ok := tx.staged[rows[i].ID]; ok {
			rows[i].DisplayOrder = o
		}
	}
	return nil
}

// orderOf returns the ids of a parent sorted by display order, ties broken
// by natural order.
func (s *memStore) orderOf(parentID int64) []int64 {
	rows := append([]ordering.Child(nil), s.children[parentID]...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DisplayOrder < rows[j].DisplayOrder })
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func (s *memStore) orders(parentID int64) map[int64]int {
	out := map[int64]int{}
	for _, c := range s.children[parentID] {
		out[c.ID] = c.DisplayOrder
	}
	return out
}

type memTx struct {
	store    *memStore
	parentID int64
	staged   map[int64]int
}

func (tx *memTx) ChildIDs(context.Context) ([]int64, error) {
	rows := tx.store.children[tx.parentID]
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids, nil
}

func (tx *memTx) SetOrder(ctx context.Context, childID int64, order int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.store.writes++
	if tx.store.failAfter > 0 && tx.store.writes >= tx.store.failAfter {
		return errDiskFull
	}
	tx.staged[childID] = order
	return nil
}
