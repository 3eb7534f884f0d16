package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/models"
)

// AssessmentRepository exposes persistence helpers for assessments and their
// quiz links.
type AssessmentRepository interface {
	CreateWithQuizzes(ctx context.Context, assessment *models.Assessment, quizIDs []string) error
	Update(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id string) (models.Assessment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Assessment, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	AddQuizzes(ctx context.Context, assessmentID string, quizIDs []string) (int64, error)
	RemoveQuiz(ctx context.Context, assessmentID, quizID string) error
	CountQuizzes(ctx context.Context, assessmentID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// NewAssessmentRepository constructs an assessment repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

type assessmentRepository struct {
	db *gorm.DB
}

// CreateWithQuizzes persists the assessment and its initial quiz links in one
// transaction so an assessment never exists without at least one quiz.
func (r *assessmentRepository) CreateWithQuizzes(ctx context.Context, assessment *models.Assessment, quizIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assessment).Error; err != nil {
			return err
		}
		links := make([]models.AssessmentQuiz, 0, len(quizIDs))
		for _, quizID := range quizIDs {
			links = append(links, models.AssessmentQuiz{
				AssessmentID: assessment.ID,
				QuizID:       quizID,
			})
		}
		return tx.Create(&links).Error
	})
}

func (r *assessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).
		Model(&models.Assessment{ID: assessment.ID}).
		Updates(map[string]interface{}{
			"title":       assessment.Title,
			"description": assessment.Description,
			"start_at":    assessment.StartAt,
			"end_at":      assessment.EndAt,
		}).Error
}

func (r *assessmentRepository) GetByID(ctx context.Context, id string) (models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Quizzes.Quiz.DifficultyLevel").
		Preload("Quizzes.Quiz.CodeLanguage").
		Preload("Candidates.Candidate").
		Preload("Results.Submissions").
		First(&assessment, "id = ?", id).Error
	if err != nil {
		return models.Assessment{}, err
	}
	return assessment, nil
}

func (r *assessmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Quizzes").
		Preload("Candidates.Candidate").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, err
	}
	return assessments, nil
}

func (r *assessmentRepository) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Assessment{}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *assessmentRepository) AddQuizzes(ctx context.Context, assessmentID string, quizIDs []string) (int64, error) {
	links := make([]models.AssessmentQuiz, 0, len(quizIDs))
	for _, quizID := range quizIDs {
		links = append(links, models.AssessmentQuiz{
			AssessmentID: assessmentID,
			QuizID:       quizID,
		})
	}
	result := r.db.WithContext(ctx).Create(&links)
	return result.RowsAffected, result.Error
}

func (r *assessmentRepository) CountQuizzes(ctx context.Context, assessmentID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssessmentQuiz{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error
	return int(count), err
}

func (r *assessmentRepository) RemoveQuiz(ctx context.Context, assessmentID, quizID string) error {
	return r.db.WithContext(ctx).
		Where("assessment_id = ? AND quiz_id = ?", assessmentID, quizID).
		Delete(&models.AssessmentQuiz{}).Error
}

// Delete removes the assessment and everything hanging off it. Dependents go
// first so the cascade never trips a foreign key: submissions, results,
// candidates, the email delivery log, quiz links, then the assessment row.
func (r *assessmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resultIDs []string
		if err := tx.Model(&models.AssessmentResult{}).
			Where("assessment_id = ?", id).
			Pluck("id", &resultIDs).Error; err != nil {
			return err
		}
		if len(resultIDs) > 0 {
			if err := tx.Where("result_id IN ?", resultIDs).
				Delete(&models.AssessmentQuizSubmission{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("assessment_id = ?", id).
			Delete(&models.AssessmentResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", id).
			Delete(&models.AssessmentCandidate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", id).
			Delete(&models.AssessmentCandidateEmail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", id).
			Delete(&models.AssessmentQuiz{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Assessment{}, "id = ?", id).Error
	})
}
