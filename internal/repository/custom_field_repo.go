package repository

import (
	"context"

	"github.com/Eursukkul/regdesk/internal/models"
	"gorm.io/gorm"
)

type CustomFieldRepository interface {
	ListByEvent(ctx context.Context, eventID string) ([]models.CustomFormField, error)
	ReplaceForEvent(ctx context.Context, eventID string, fields []models.CustomFormField) error
}

type customFieldRepository struct {
	db *gorm.DB
}

func NewCustomFieldRepository(db *gorm.DB) CustomFieldRepository {
	return &customFieldRepository{db: db}
}

func (r *customFieldRepository) ListByEvent(ctx context.Context, eventID string) ([]models.CustomFormField, error) {
	var fields []models.CustomFormField
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sort_order ASC, created_at ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// ReplaceForEvent swaps the event's whole field set in one transaction.
func (r *customFieldRepository) ReplaceForEvent(ctx context.Context, eventID string, fields []models.CustomFormField) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.CustomFormField{}).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Create(&fields).Error
	})
}
