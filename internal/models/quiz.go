package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DifficultyLevel classifies how hard a quiz is. The level name keys into the
// assessment point categories ("easy" -> "easyQuizCompletionPoint").
type DifficultyLevel struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

// CodeLanguage is the programming language a quiz is authored for.
type CodeLanguage struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}

// Quiz is a single coding problem with difficulty and language classification.
type Quiz struct {
	ID                string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title             string          `gorm:"size:255;not null" json:"title"`
	Instruction       string          `gorm:"type:text" json:"instruction"`
	DefaultCode       string          `gorm:"type:text" json:"default_code"`
	Answer            string          `gorm:"type:text" json:"answer"`
	Locale            string          `gorm:"size:16" json:"locale"`
	DifficultyLevelID uint            `gorm:"not null" json:"difficulty_level_id"`
	CodeLanguageID    uint            `gorm:"not null" json:"code_language_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	DifficultyLevel   DifficultyLevel `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"difficulty_level"`
	CodeLanguage      CodeLanguage    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"code_language"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (q *Quiz) BeforeCreate(_ *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuizPointCollection keeps one row per (user, quiz) with the user's recorded
// point for that quiz. It is the population comparative scoring ranks against.
type QuizPointCollection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_point_user_quiz" json:"user_id"`
	QuizID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_point_user_quiz" json:"quiz_id"`
	Point     float64   `gorm:"not null;default:0" json:"point"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
