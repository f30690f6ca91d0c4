package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lojf/inquisition/internal/ordering"
)

// Collection says where a child collection and its order column live.
type Collection struct {
	Table        string
	ParentColumn string
	KeyColumn    string
	OrderColumn  string

	// LabelSelect is the SQL expression selected as the raw label; it may
	// refer to tables brought in by Joins.
	LabelSelect string
	Joins       string
	// Label turns the raw label into what the page renders. Nil keeps it.
	Label func(raw string) string
}

func (c Collection) col(name string) string {
	return c.Table + "." + name
}

// TableStore implements ordering.Store over one Collection.
type TableStore struct {
	db  *gorm.DB
	col Collection
}

var _ ordering.Store = (*TableStore)(nil)

func NewTableStore(conn *gorm.DB, col Collection) *TableStore {
	return &TableStore{db: conn, col: col}
}

type childRow struct {
	ID           int64
	DisplayOrder int
	Label        string
}

// ListChildren returns the parent's children as the page lists them:
// display order first, then key.
func (s *TableStore) ListChildren(ctx context.Context, parentID int64) ([]ordering.Child, error) {
	q := s.db.WithContext(ctx).Table(s.col.Table).
		Select(fmt.Sprintf("%s AS id, %s AS display_order, %s AS label",
			s.col.col(s.col.KeyColumn), s.col.col(s.col.OrderColumn), s.col.LabelSelect))
	if s.col.Joins != "" {
		q = q.Joins(s.col.Joins)
	}

	var rows []childRow
	err := q.Where(s.col.col(s.col.ParentColumn)+" = ?", parentID).
		Order(s.col.col(s.col.OrderColumn) + " asc").
		Order(s.col.col(s.col.KeyColumn) + " asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]ordering.Child, len(rows))
	for i, r := range rows {
		label := r.Label
		if s.col.Label != nil {
			label = s.col.Label(label)
		}
		out[i] = ordering.Child{ID: r.ID, DisplayOrder: r.DisplayOrder, Label: label}
	}
	return out, nil
}

func (s *TableStore) SumOrder(ctx context.Context, parentID int64) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).Table(s.col.Table).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", s.col.OrderColumn)).
		Where(s.col.ParentColumn+" = ?", parentID).
		Scan(&sum).Error
	return sum, err
}

func (s *TableStore) Transact(ctx context.Context, parentID int64, fn func(tx ordering.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&tableTx{tx: tx, col: s.col, parentID: parentID})
	})
}

type tableTx struct {
	tx       *gorm.DB
	col      Collection
	parentID int64
}

func (t *tableTx) ChildIDs(ctx context.Context) ([]int64, error) {
	q := t.tx.WithContext(ctx).Table(t.col.Table)
	// SQLite has no row locks; its single connection pool and database
	// write lock already serialise writers.
	if t.tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []int64
	err := q.Where(t.col.ParentColumn+" = ?", t.parentID).
		Order(t.col.KeyColumn + " asc").
		Pluck(t.col.KeyColumn, &ids).Error
	return ids, err
}

func (t *tableTx) SetOrder(ctx context.Context, childID int64, order int) error {
	res := t.tx.WithContext(ctx).Table(t.col.Table).
		Where(t.col.KeyColumn+" = ? AND "+t.col.ParentColumn+" = ?", childID, t.parentID).
		Update(t.col.OrderColumn, order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%s %d of parent %d: %d rows updated", t.col.Table, childID, t.parentID, res.RowsAffected)
	}
	return nil
}
