package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Eursukkul/regdesk/internal/models"
	"gorm.io/gorm"
)

type ContactField string

const (
	ContactPhone ContactField = "phone"
	ContactEmail ContactField = "email"
)

// RegistrationFilter narrows organizer listings. Zero values match everything.
type RegistrationFilter struct {
	Status *models.RegistrationStatus
	Search string
}

type StatusCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	FindByNumber(ctx context.Context, number string) (*models.Registration, error)
	FindFirstByTransactionID(ctx context.Context, trxID string) (*models.Registration, error)
	FindByTransactionID(ctx context.Context, trxID string) ([]models.Registration, error)
	FindByContact(ctx context.Context, field ContactField, value string) ([]models.Registration, error)
	ExistsByTransactionID(ctx context.Context, trxID string) (bool, error)
	CountOccupied(ctx context.Context, eventID string) (int64, error)
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error)
	ListPublic(ctx context.Context, eventID string) ([]models.Registration, error)
	ListByEvent(ctx context.Context, eventID string, filter RegistrationFilter) ([]models.Registration, error)
	CountByStatus(ctx context.Context, eventID string) (StatusCounts, error)
	DuplicateTransactionIDs(ctx context.Context, eventID string) ([]string, error)
	UpdateStatus(ctx context.Context, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error)
	UpdateTag(ctx context.Context, eventID, id string, tag *string) error
}

type registrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	var reg models.Registration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error; err != nil {
		return nil, notFound(err)
	}
	return &reg, nil
}

func (r *registrationRepository) FindByNumber(ctx context.Context, number string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).Where("registration_number = ?", number).First(&reg).Error; err != nil {
		return nil, notFound(err)
	}
	return &reg, nil
}

func (r *registrationRepository) FindFirstByTransactionID(ctx context.Context, trxID string) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", trxID).
		Order("created_at ASC").
		First(&reg).Error; err != nil {
		return nil, notFound(err)
	}
	return &reg, nil
}

func (r *registrationRepository) FindByTransactionID(ctx context.Context, trxID string) ([]models.Registration, error) {
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", trxID).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) FindByContact(ctx context.Context, field ContactField, value string) ([]models.Registration, error) {
	column := "email"
	if field == ContactPhone {
		column = "phone"
	}

	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", value).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// ExistsByTransactionID checks across every event and status.
func (r *registrationRepository) ExistsByTransactionID(ctx context.Context, trxID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("transaction_id = ?", trxID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// CountOccupied counts registrations holding a seat (pending or approved).
func (r *registrationRepository) CountOccupied(ctx context.Context, eventID string) (int64, error) {
	if !isUUID(eventID) {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND status IN ?", eventID, models.OccupyingStatuses).
		Count(&count).Error
	return count, err
}

// CountByIPSince counts registrations from ip created at or after since, across all events.
func (r *registrationRepository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("ip_address = ? AND created_at >= ?", ip, since).
		Count(&count).Error
	return count, err
}

func (r *registrationRepository) ListPublic(ctx context.Context, eventID string) ([]models.Registration, error) {
	if !isUUID(eventID) {
		return nil, nil
	}
	var regs []models.Registration
	if err := r.db.WithContext(ctx).
		Select("name", "status", "created_at").
		Where("event_id = ? AND status IN ?", eventID, models.OccupyingStatuses).
		Order("created_at ASC").
		Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string, filter RegistrationFilter) ([]models.Registration, error) {
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(phone, '')) LIKE ? "+
				"OR LOWER(registration_number) LIKE ? OR LOWER(COALESCE(transaction_id, '')) LIKE ?",
			like, like, like, like, like,
		)
	}

	var regs []models.Registration
	if err := q.Order("created_at DESC").Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) CountByStatus(ctx context.Context, eventID string) (StatusCounts, error) {
	var rows []struct {
		Status models.RegistrationStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Select("status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.RegistrationPending:
			counts.Pending = row.Count
		case models.RegistrationApproved:
			counts.Approved = row.Count
		case models.RegistrationRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}

// DuplicateTransactionIDs returns ids of registrations in the event whose
// transaction id (trimmed, case-insensitive) appears more than once.
func (r *registrationRepository) DuplicateTransactionIDs(ctx context.Context, eventID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND LOWER(TRIM(transaction_id)) IN (?)", eventID,
			r.db.Model(&models.Registration{}).
				Select("LOWER(TRIM(transaction_id))").
				Where("event_id = ? AND TRIM(COALESCE(transaction_id, '')) <> ''", eventID).
				Group("LOWER(TRIM(transaction_id))").
				Having("COUNT(*) > 1"),
		).
		Pluck("id", &ids).Error
	return ids, err
}

// UpdateStatus sets the status of the given registrations in one event.
// The rejection reason is kept only for rejected registrations.
func (r *registrationRepository) UpdateStatus(ctx context.Context, eventID string, ids []string, status models.RegistrationStatus, reason *string) (int64, error) {
	updates := map[string]any{"status": status, "rejection_reason": nil}
	if status == models.RegistrationRejected && reason != nil {
		updates["rejection_reason"] = *reason
	}

	res := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND id IN ?", eventID, ids).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *registrationRepository) UpdateTag(ctx context.Context, eventID, id string, tag *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND id = ?", eventID, id).
		Update("tag", tag)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
