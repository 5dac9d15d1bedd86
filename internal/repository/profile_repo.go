package repository

import (
	"context"

	"github.com/Eursukkul/regdesk/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}
