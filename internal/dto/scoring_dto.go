package dto

import (
	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/validation"
)

// PointValue pairs a configured point category value with its row id.
type PointValue struct {
	ID    string  `json:"id"`
	Point float64 `json:"point"`
}

// QuizPointsInput feeds the quiz points computation: the assigned quiz links
// (with preloaded difficulty) and the named point categories.
type QuizPointsInput struct {
	AssessmentQuizzes []models.AssessmentQuiz `json:"assessmentQuizzes"`
	AssessmentPoints  map[string]PointValue   `json:"assessmentPoints"`
}

// Validate enforces presence of both inputs and rejects an empty quiz list.
func (p QuizPointsInput) Validate() error {
	if p.AssessmentQuizzes == nil {
		return &validation.MissingFieldError{Field: "assessmentQuizzes"}
	}
	if len(p.AssessmentQuizzes) == 0 {
		return validation.Empty("assessmentQuizzes")
	}
	if p.AssessmentPoints == nil {
		return &validation.MissingFieldError{Field: "assessmentPoints"}
	}
	return nil
}

// QuizPointsOutput is the computed point breakdown across assigned quizzes.
type QuizPointsOutput struct {
	TotalPoint      float64            `json:"totalPoint"`
	QuizPoints      map[string]float64 `json:"quizPoints"`
	AssignedQuizzes []models.Quiz      `json:"assignedQuizzes"`
}

// ComparativeScoreParams feeds the comparative score computation.
type ComparativeScoreParams struct {
	UsersCount           *int     `json:"usersCount"`
	UsersBelowPointCount *int     `json:"usersBelowPointCount"`
	Point                *float64 `json:"point"`
}

// Validate enforces the required fields in check order.
func (p ComparativeScoreParams) Validate() error {
	return validation.Require(
		validation.Field("usersCount", p.UsersCount != nil),
		validation.Field("usersBelowPointCount", p.UsersBelowPointCount != nil),
		validation.Field("point", p.Point != nil),
	)
}

// ComparativeScoreResult carries the normalized score and the population
// below the candidate's point.
type ComparativeScoreResult struct {
	ComparativeScore     float64 `json:"comparativeScore"`
	UsersBelowPointCount int     `json:"usersBelowPointCount"`
}

// ComparativeLevelParams feeds the qualitative level classification. A zero
// score is a valid "low"; only an absent score fails.
type ComparativeLevelParams struct {
	ComparativeScore *float64 `json:"comparativeScore"`
}

// Validate enforces presence of the score.
func (p ComparativeLevelParams) Validate() error {
	return validation.Require(
		validation.Field("comparativeScore", p.ComparativeScore != nil),
	)
}

// UsersCountParams scopes a population count to a (user, quiz) pair.
type UsersCountParams struct {
	UserID *string `json:"userId"`
	QuizID *string `json:"quizId"`
}

// Validate enforces the required fields in check order.
func (p UsersCountParams) Validate() error {
	return validation.Require(
		validation.Field("userId", p.UserID != nil),
		validation.Field("quizId", p.QuizID != nil),
	)
}

// UsersBelowPointCountParams scopes the strictly-below count to a threshold.
type UsersBelowPointCountParams struct {
	UserID *string  `json:"userId"`
	QuizID *string  `json:"quizId"`
	Point  *float64 `json:"point"`
}

// Validate enforces the required fields in check order.
func (p UsersBelowPointCountParams) Validate() error {
	return validation.Require(
		validation.Field("userId", p.UserID != nil),
		validation.Field("quizId", p.QuizID != nil),
		validation.Field("point", p.Point != nil),
	)
}
