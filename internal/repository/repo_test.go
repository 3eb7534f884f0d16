package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserAction{},
		&models.DifficultyLevel{},
		&models.CodeLanguage{},
		&models.Quiz{},
		&models.QuizPointCollection{},
		&models.Assessment{},
		&models.AssessmentQuiz{},
		&models.AssessmentCandidate{},
		&models.AssessmentCandidateEmail{},
		&models.AssessmentPoint{},
		&models.AssessmentResult{},
		&models.AssessmentQuizSubmission{},
		&models.CandidateActivityLog{},
	))
	return db
}

func seedQuiz(t *testing.T, db *gorm.DB, id, difficulty string) models.Quiz {
	t.Helper()
	level := models.DifficultyLevel{Name: difficulty}
	require.NoError(t, db.FirstOrCreate(&level, models.DifficultyLevel{Name: difficulty}).Error)
	language := models.CodeLanguage{Name: "javascript"}
	require.NoError(t, db.FirstOrCreate(&language, models.CodeLanguage{Name: "javascript"}).Error)

	quiz := models.Quiz{
		ID:                id,
		UserID:            "owner1",
		Title:             "Two Sum",
		DifficultyLevelID: level.ID,
		CodeLanguageID:    language.ID,
	}
	require.NoError(t, db.Create(&quiz).Error)
	return quiz
}
