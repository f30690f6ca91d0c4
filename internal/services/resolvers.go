package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lojf/inquisition/internal/models"
	"github.com/lojf/inquisition/internal/ordering"
)

// QuestionResolver resolves question ids, the parent of both collections.
type QuestionResolver struct {
	DB *gorm.DB
}

func (r QuestionResolver) Resolve(ctx context.Context, id int64) (ordering.Parent, error) {
	var q models.Question
	if err := first(ctx, r.DB, &q, id); err != nil {
		return ordering.Parent{}, fmt.Errorf("question %d: %w", id, err)
	}
	return ordering.Parent{ID: int64(q.ID), Title: questionTitle(q)}, nil
}

// InquisitionResolver resolves the optional inquisition a question page was
// reached from.
type InquisitionResolver struct {
	DB *gorm.DB
}

func (r InquisitionResolver) Resolve(ctx context.Context, id int64) (ordering.Parent, error) {
	var inq models.Inquisition
	if err := first(ctx, r.DB, &inq, id); err != nil {
		return ordering.Parent{}, fmt.Errorf("inquisition %d: %w", id, err)
	}
	return ordering.Parent{ID: int64(inq.ID), Title: inq.Title}, nil
}

func first(ctx context.Context, conn *gorm.DB, dest any, id int64) error {
	if id <= 0 {
		return ordering.ErrNotFound
	}
	err := conn.WithContext(ctx).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ordering.ErrNotFound
	}
	return err
}

func questionTitle(q models.Question) string {
	const maxRunes = 60
	t := q.BodyText
	if r := []rune(t); len(r) > maxRunes {
		t = string(r[:maxRunes]) + "…"
	}
	if t == "" {
		return "Question"
	}
	return t
}
