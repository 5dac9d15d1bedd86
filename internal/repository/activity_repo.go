package repository

import (
	"context"

	"github.com/Eursukkul/regdesk/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	ListByEvent(ctx context.Context, eventID string, limit int) ([]models.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByEvent returns the newest entries first. A non-positive limit means no limit.
func (r *activityRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]models.ActivityLog, error) {
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("occurred_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var entries []models.ActivityLog
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
