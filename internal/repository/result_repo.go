package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirelens/hirelens-api/internal/models"
)

// AssessmentResultRepository exposes persistence helpers for results and
// their attempt rows.
type AssessmentResultRepository interface {
	GetOrCreate(ctx context.Context, assessmentID, candidateID, quizID string) (models.AssessmentResult, bool, error)
	GetByID(ctx context.Context, id string) (models.AssessmentResult, error)
	FindByAssessmentAndQuiz(ctx context.Context, assessmentID, quizID string) (models.AssessmentResult, error)
	Update(ctx context.Context, result *models.AssessmentResult) error
	Delete(ctx context.Context, id string) error
	ListCompleted(ctx context.Context, assessmentID string) ([]models.AssessmentResult, error)
	CountCompletedForCandidate(ctx context.Context, assessmentID, candidateID string) (int, error)
	AppendSubmission(ctx context.Context, submission *models.AssessmentQuizSubmission) error
	GetSubmission(ctx context.Context, id string) (models.AssessmentQuizSubmission, error)
	UpdateSubmission(ctx context.Context, submission *models.AssessmentQuizSubmission) error
	DeleteSubmissions(ctx context.Context, ids []string) (int64, error)
}

// NewAssessmentResultRepository constructs a result repository.
func NewAssessmentResultRepository(db *gorm.DB) AssessmentResultRepository {
	return &assessmentResultRepository{db: db}
}

type assessmentResultRepository struct {
	db *gorm.DB
}

// GetOrCreate returns the result row for the triple, creating a STARTED row
// when none exists. The unique index on the triple plus the retry below keeps
// near-simultaneous starts down to a single row.
func (r *assessmentResultRepository) GetOrCreate(ctx context.Context, assessmentID, candidateID, quizID string) (models.AssessmentResult, bool, error) {
	result, err := r.findByTriple(ctx, assessmentID, candidateID, quizID)
	if err == nil {
		return result, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AssessmentResult{}, false, err
	}

	fresh := models.AssessmentResult{
		AssessmentID: assessmentID,
		CandidateID:  candidateID,
		QuizID:       quizID,
		Status:       models.ResultStatusStarted,
		TotalPoint:   0,
	}
	createErr := r.db.WithContext(ctx).Create(&fresh).Error
	if createErr == nil {
		return fresh, true, nil
	}
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		// Lost the race; the winner's row is the one.
		result, err = r.findByTriple(ctx, assessmentID, candidateID, quizID)
		return result, false, err
	}
	return models.AssessmentResult{}, false, createErr
}

func (r *assessmentResultRepository) findByTriple(ctx context.Context, assessmentID, candidateID, quizID string) (models.AssessmentResult, error) {
	var result models.AssessmentResult
	err := r.db.WithContext(ctx).
		Preload("Submissions").
		Where("assessment_id = ? AND candidate_id = ? AND quiz_id = ?", assessmentID, candidateID, quizID).
		First(&result).Error
	if err != nil {
		return models.AssessmentResult{}, err
	}
	return result, nil
}

func (r *assessmentResultRepository) GetByID(ctx context.Context, id string) (models.AssessmentResult, error) {
	var result models.AssessmentResult
	err := r.db.WithContext(ctx).
		Preload("Submissions").
		First(&result, "id = ?", id).Error
	if err != nil {
		return models.AssessmentResult{}, err
	}
	return result, nil
}

func (r *assessmentResultRepository) FindByAssessmentAndQuiz(ctx context.Context, assessmentID, quizID string) (models.AssessmentResult, error) {
	var result models.AssessmentResult
	err := r.db.WithContext(ctx).
		Preload("Submissions").
		Where("assessment_id = ? AND quiz_id = ?", assessmentID, quizID).
		First(&result).Error
	if err != nil {
		return models.AssessmentResult{}, err
	}
	return result, nil
}

func (r *assessmentResultRepository) Update(ctx context.Context, result *models.AssessmentResult) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(result).Error
}

func (r *assessmentResultRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("result_id = ?", id).
			Delete(&models.AssessmentQuizSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AssessmentResult{}, "id = ?", id).Error
	})
}

func (r *assessmentResultRepository) ListCompleted(ctx context.Context, assessmentID string) ([]models.AssessmentResult, error) {
	var results []models.AssessmentResult
	err := r.db.WithContext(ctx).
		Preload("Submissions").
		Where("assessment_id = ? AND status = ?", assessmentID, models.ResultStatusCompleted).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentResultRepository) CountCompletedForCandidate(ctx context.Context, assessmentID, candidateID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AssessmentResult{}).
		Where("assessment_id = ? AND candidate_id = ? AND status = ?", assessmentID, candidateID, models.ResultStatusCompleted).
		Count(&count).Error
	return int(count), err
}

func (r *assessmentResultRepository) AppendSubmission(ctx context.Context, submission *models.AssessmentQuizSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *assessmentResultRepository) GetSubmission(ctx context.Context, id string) (models.AssessmentQuizSubmission, error) {
	var submission models.AssessmentQuizSubmission
	err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error
	if err != nil {
		return models.AssessmentQuizSubmission{}, err
	}
	return submission, nil
}

func (r *assessmentResultRepository) UpdateSubmission(ctx context.Context, submission *models.AssessmentQuizSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *assessmentResultRepository) DeleteSubmissions(ctx context.Context, ids []string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.AssessmentQuizSubmission{})
	return result.RowsAffected, result.Error
}
