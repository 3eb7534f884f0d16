package dto

import (
	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/validation"
)

// CreateSubmissionParams starts a candidate's attempt for one quiz.
type CreateSubmissionParams struct {
	AssessmentID *string `json:"assessmentId"`
	QuizID       *string `json:"quizId"`
	UserID       *string `json:"userId"`
}

// Validate enforces the required addressing fields.
func (p CreateSubmissionParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("quizId", p.QuizID != nil),
		validation.Field("userId", p.UserID != nil),
	)
}

// UpdateSubmissionParams records the candidate's code for an open attempt.
type UpdateSubmissionParams struct {
	AssessmentQuizSubmissionID *string `json:"assessmentQuizSubmissionId"`
	Code                       *string `json:"code"`
	UserID                     *string `json:"userId"`
	QuizID                     *string `json:"quizId"`
}

// Validate enforces the required addressing fields.
func (p UpdateSubmissionParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentQuizSubmissionId", p.AssessmentQuizSubmissionID != nil),
		validation.Field("code", p.Code != nil),
		validation.Field("userId", p.UserID != nil),
		validation.Field("quizId", p.QuizID != nil),
	)
}

// ResultIDParam addresses a single assessment result.
type ResultIDParam struct {
	AssessmentResultID *string `json:"assessmentResultId"`
}

// Validate enforces presence of the result id.
func (p ResultIDParam) Validate() error {
	return validation.Require(
		validation.Field("assessmentResultId", p.AssessmentResultID != nil),
	)
}

// ResultLookupParams addresses a result by assessment and quiz.
type ResultLookupParams struct {
	AssessmentID *string `json:"assessmentId"`
	QuizID       *string `json:"quizId"`
}

// Validate enforces the required lookup fields.
func (p ResultLookupParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("quizId", p.QuizID != nil),
	)
}

// DeleteSubmissionsParams bulk-deletes attempt rows. A missing id list is a
// validation failure; an empty list is a no-op.
type DeleteSubmissionsParams struct {
	SubmissionIDs []string `json:"submissionIds"`
}

// Validate enforces presence of the id list.
func (p DeleteSubmissionsParams) Validate() error {
	return validation.Require(
		validation.Field("submissionIds", p.SubmissionIDs != nil),
	)
}

// CandidateSubmissionResult is returned when an attempt is started or
// updated: the refreshed result row with its attempt records.
type CandidateSubmissionResult struct {
	Result models.AssessmentResult `json:"updatedAssessmentResult"`
}
