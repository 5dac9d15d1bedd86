package repository

import (
	"context"
	"errors"

	"github.com/Eursukkul/regdesk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isUUID guards uuid columns; postgres rejects malformed ids with a syntax error.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
	ListAll(ctx context.Context) ([]models.Event, error)
	UpdateStatus(ctx context.Context, id string, status models.EventStatus) error
	Delete(ctx context.Context, id string) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Update writes every column, including zero values and nils.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Select("*").Omit("CreatedAt").Updates(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	var event models.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (r *eventRepository) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateStatus is idempotent; closing an already closed event is a no-op write.
func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status models.EventStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the event; registrations and custom fields go with it via ON DELETE CASCADE.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
