package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lojf/inquisition/internal/models"
	"github.com/lojf/inquisition/internal/ordering"
)

// LoadQuestion loads a question with its options and images in display
// order, the way the question detail view lists them.
func LoadQuestion(ctx context.Context, conn *gorm.DB, id int64) (models.Question, error) {
	var q models.Question
	err := conn.WithContext(ctx).
		Preload("Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("display_order asc, id asc")
		}).
		Preload("Bindings", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("display_order asc, image_id asc")
		}).
		Preload("Bindings.Image").
		First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Question{}, fmt.Errorf("question %d: %w", id, ordering.ErrNotFound)
	}
	return q, err
}
