package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/models"
)

// AssessmentCandidateRepository exposes persistence helpers for invited
// candidates and the invitation delivery log.
type AssessmentCandidateRepository interface {
	Create(ctx context.Context, candidate *models.AssessmentCandidate) error
	GetByPair(ctx context.Context, assessmentID, candidateID string) (models.AssessmentCandidate, error)
	UpdateStatus(ctx context.Context, assessmentID, candidateID string, status models.CandidateStatus) (models.AssessmentCandidate, error)
	CreateEmails(ctx context.Context, rows []models.AssessmentCandidateEmail) (int64, error)
}

// NewAssessmentCandidateRepository constructs a candidate repository.
func NewAssessmentCandidateRepository(db *gorm.DB) AssessmentCandidateRepository {
	return &assessmentCandidateRepository{db: db}
}

type assessmentCandidateRepository struct {
	db *gorm.DB
}

func (r *assessmentCandidateRepository) Create(ctx context.Context, candidate *models.AssessmentCandidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *assessmentCandidateRepository) GetByPair(ctx context.Context, assessmentID, candidateID string) (models.AssessmentCandidate, error) {
	var candidate models.AssessmentCandidate
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Where("assessment_id = ? AND candidate_id = ?", assessmentID, candidateID).
		First(&candidate).Error
	if err != nil {
		return models.AssessmentCandidate{}, err
	}
	return candidate, nil
}

func (r *assessmentCandidateRepository) UpdateStatus(ctx context.Context, assessmentID, candidateID string, status models.CandidateStatus) (models.AssessmentCandidate, error) {
	err := r.db.WithContext(ctx).
		Model(&models.AssessmentCandidate{}).
		Where("assessment_id = ? AND candidate_id = ?", assessmentID, candidateID).
		Update("status", status).Error
	if err != nil {
		return models.AssessmentCandidate{}, err
	}
	return r.GetByPair(ctx, assessmentID, candidateID)
}

// CreateEmails bulk-inserts delivery log rows in one round trip.
func (r *assessmentCandidateRepository) CreateEmails(ctx context.Context, rows []models.AssessmentCandidateEmail) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Create(&rows)
	return result.RowsAffected, result.Error
}
