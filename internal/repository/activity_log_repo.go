package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/models"
)

// ActivityLogRepository persists the append-only candidate audit trail.
type ActivityLogRepository interface {
	Record(ctx context.Context, entry *models.CandidateActivityLog) error
	ActionByName(ctx context.Context, name string) (models.UserAction, error)
	ListByUser(ctx context.Context, userID string) ([]models.CandidateActivityLog, error)
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

type activityLogRepository struct {
	db *gorm.DB
}

func (r *activityLogRepository) Record(ctx context.Context, entry *models.CandidateActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ActionByName resolves a user action reference row, creating it on first
// use so fresh databases do not need a separate seeding step.
func (r *activityLogRepository) ActionByName(ctx context.Context, name string) (models.UserAction, error) {
	var action models.UserAction
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&action).Error
	if err == nil {
		return action, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserAction{}, err
	}
	action = models.UserAction{Name: name}
	if err := r.db.WithContext(ctx).Create(&action).Error; err != nil {
		return models.UserAction{}, err
	}
	return action, nil
}

func (r *activityLogRepository) ListByUser(ctx context.Context, userID string) ([]models.CandidateActivityLog, error) {
	var entries []models.CandidateActivityLog
	err := r.db.WithContext(ctx).
		Preload("UserAction").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
