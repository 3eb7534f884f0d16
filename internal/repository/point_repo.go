package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirelens/hirelens-api/internal/models"
)

// AssessmentPointRepository reads the globally configured point categories.
type AssessmentPointRepository interface {
	List(ctx context.Context) ([]models.AssessmentPoint, error)
}

// NewAssessmentPointRepository constructs an assessment point repository.
func NewAssessmentPointRepository(db *gorm.DB) AssessmentPointRepository {
	return &assessmentPointRepository{db: db}
}

type assessmentPointRepository struct {
	db *gorm.DB
}

func (r *assessmentPointRepository) List(ctx context.Context) ([]models.AssessmentPoint, error) {
	var points []models.AssessmentPoint
	if err := r.db.WithContext(ctx).Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

// QuizPointCollectionRepository maintains the per-user per-quiz point rows
// the comparative scoring population is counted from.
type QuizPointCollectionRepository interface {
	Upsert(ctx context.Context, userID, quizID string, point float64) error
	CountUsersForQuiz(ctx context.Context, userID, quizID string) (int, error)
	CountUsersBelowPoint(ctx context.Context, userID, quizID string, point float64) (int, error)
}

// NewQuizPointCollectionRepository constructs a quiz point collection
// repository.
func NewQuizPointCollectionRepository(db *gorm.DB) QuizPointCollectionRepository {
	return &quizPointCollectionRepository{db: db}
}

type quizPointCollectionRepository struct {
	db *gorm.DB
}

func (r *quizPointCollectionRepository) Upsert(ctx context.Context, userID, quizID string, point float64) error {
	row := models.QuizPointCollection{
		UserID: userID,
		QuizID: quizID,
		Point:  point,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"point", "updated_at"}),
		}).
		Create(&row).Error
}

// CountUsersForQuiz counts other users holding any recorded point for the
// quiz.
func (r *quizPointCollectionRepository) CountUsersForQuiz(ctx context.Context, userID, quizID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.QuizPointCollection{}).
		Where("quiz_id = ? AND user_id <> ?", quizID, userID).
		Count(&count).Error
	return int(count), err
}

// CountUsersBelowPoint counts other users whose recorded point is strictly
// below the threshold.
func (r *quizPointCollectionRepository) CountUsersBelowPoint(ctx context.Context, userID, quizID string, point float64) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.QuizPointCollection{}).
		Where("quiz_id = ? AND user_id <> ? AND point < ?", quizID, userID, point).
		Count(&count).Error
	return int(count), err
}
