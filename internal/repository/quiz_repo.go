package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/models"
)

// QuizRepository exposes persistence helpers for quizzes and their reference
// tables.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id string) (models.Quiz, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Quiz, error)
	Delete(ctx context.Context, id string) error
}

// NewQuizRepository constructs a quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

type quizRepository struct {
	db *gorm.DB
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) GetByID(ctx context.Context, id string) (models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.WithContext(ctx).
		Preload("DifficultyLevel").
		Preload("CodeLanguage").
		First(&quiz, "id = ?", id).Error
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (r *quizRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).
		Preload("DifficultyLevel").
		Preload("CodeLanguage").
		Where("id IN ?", ids).
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Quiz{}, "id = ?", id).Error
}
