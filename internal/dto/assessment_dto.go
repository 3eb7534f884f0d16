package dto

import (
	"time"

	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/validation"
)

// Params structs model optional fields with pointers (and nil-vs-empty
// slices) so that an absent field and a zero value stay distinguishable.
// Each Validate method declares the operation's required fields in check
// order; the first absent field wins.

// CreateAssessmentParams carries the input for creating an assessment.
type CreateAssessmentParams struct {
	UserID      *string    `json:"userId"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	QuizIDs     []string   `json:"quizIds"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
}

// Validate enforces the required fields for assessment creation.
func (p CreateAssessmentParams) Validate() error {
	if err := validation.Require(
		validation.Field("userId", p.UserID != nil),
		validation.Field("title", p.Title != nil),
		validation.Field("description", p.Description != nil),
		validation.Field("quizIds", p.QuizIDs != nil),
	); err != nil {
		return err
	}
	if len(p.QuizIDs) == 0 {
		return validation.ZeroFound("quizId")
	}
	return nil
}

// UpdateAssessmentParams carries the mutable assessment fields.
type UpdateAssessmentParams struct {
	AssessmentID *string    `json:"assessmentId"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	StartAt      *time.Time `json:"startAt"`
	EndAt        *time.Time `json:"endAt"`
}

// Validate enforces the required fields for assessment updates.
func (p UpdateAssessmentParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("title", p.Title != nil),
		validation.Field("description", p.Description != nil),
	)
}

// AddQuizzesParams links additional quizzes to an existing assessment.
type AddQuizzesParams struct {
	AssessmentID *string  `json:"assessmentId"`
	QuizIDs      []string `json:"quizIds"`
}

// Validate enforces the required fields for adding quiz links.
func (p AddQuizzesParams) Validate() error {
	if err := validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("quizIds", p.QuizIDs != nil),
	); err != nil {
		return err
	}
	if len(p.QuizIDs) == 0 {
		return validation.ZeroFound("quizId")
	}
	return nil
}

// RemoveQuizParams unlinks one quiz from an assessment.
type RemoveQuizParams struct {
	AssessmentID *string `json:"assessmentId"`
	QuizID       *string `json:"quizId"`
}

// Validate enforces the required fields for removing a quiz link.
func (p RemoveQuizParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("quizId", p.QuizID != nil),
	)
}

// AddCandidatesParams invites a batch of candidate emails.
type AddCandidatesParams struct {
	AssessmentID       *string  `json:"assessmentId"`
	NewCandidateEmails []string `json:"newCandidateEmails"`
}

// Validate enforces the required fields for inviting candidates.
func (p AddCandidatesParams) Validate() error {
	if err := validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("newCandidateEmails", p.NewCandidateEmails != nil),
	); err != nil {
		return err
	}
	if len(p.NewCandidateEmails) == 0 {
		return validation.ZeroFound("email")
	}
	return nil
}

// CandidateEmailRow is one delivery-log entry for a dispatched invitation.
type CandidateEmailRow struct {
	AssessmentID *string `json:"assessmentId"`
	Email        *string `json:"email"`
	StatusCode   *int    `json:"statusCode"`
	ErrorMessage *string `json:"errorMessage"`
}

// Validate enforces the required fields on a delivery-log row.
func (r CandidateEmailRow) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", r.AssessmentID != nil),
		validation.Field("email", r.Email != nil),
		validation.Field("statusCode", r.StatusCode != nil),
		validation.Field("errorMessage", r.ErrorMessage != nil),
	)
}

// AcceptCandidateParams transitions an invited candidate to ACCEPTED.
type AcceptCandidateParams struct {
	AssessmentID *string `json:"assessmentId"`
	Token        *string `json:"token"`
	UserID       *string `json:"userId"`
}

// Validate enforces the required fields for accepting an invite.
func (p AcceptCandidateParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("token", p.Token != nil),
		validation.Field("userId", p.UserID != nil),
	)
}

// UpdateCandidateStatusParams changes a candidate's workflow status.
type UpdateCandidateStatusParams struct {
	AssessmentID *string                `json:"assessmentId"`
	CandidateID  *string                `json:"candidateId"`
	Status       models.CandidateStatus `json:"status"`
}

// Validate enforces the required fields for a candidate status change.
func (p UpdateCandidateStatusParams) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
		validation.Field("candidateId", p.CandidateID != nil),
	)
}

// AssessmentIDParam addresses a single assessment.
type AssessmentIDParam struct {
	AssessmentID *string `json:"assessmentId"`
}

// Validate enforces presence of the assessment id.
func (p AssessmentIDParam) Validate() error {
	return validation.Require(
		validation.Field("assessmentId", p.AssessmentID != nil),
	)
}

// UserIDParam addresses operations scoped to one owner.
type UserIDParam struct {
	UserID *string `json:"userId"`
}

// Validate enforces presence of the user id.
func (p UserIDParam) Validate() error {
	return validation.Require(
		validation.Field("userId", p.UserID != nil),
	)
}

// AssessmentView is the aggregate read model consumed by the UI and the
// scoring pipeline.
type AssessmentView struct {
	Data        AssessmentData         `json:"data"`
	Quizzes     []QuizView             `json:"quizzes"`
	Candidates  []CandidateView        `json:"candidates"`
	Submissions []CandidateSubmissions `json:"submissions"`
}

// AssessmentData is the assessment row plus its owner's name.
type AssessmentData struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	OwnerName   string     `json:"owner_name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// QuizView is the quiz projection inside an assessment view.
type QuizView struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Instruction     string `json:"instruction"`
	DifficultyLevel string `json:"difficulty_level"`
	CodeLanguage    string `json:"code_language"`
}

// CandidateView is the candidate projection inside an assessment view.
type CandidateView struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Email  string                 `json:"email"`
	Status models.CandidateStatus `json:"status"`
}

// CandidateSubmissions groups one candidate's per-quiz result summaries.
type CandidateSubmissions struct {
	CandidateID string       `json:"candidate_id"`
	Name        string       `json:"name"`
	Data        []ResultView `json:"data"`
}

// ResultView summarises one result: status, total point, and the unique list
// of real attempts (placeholder rows are not counted).
type ResultView struct {
	ID         string              `json:"id"`
	QuizID     string              `json:"quiz_id"`
	Status     models.ResultStatus `json:"status"`
	TotalPoint float64             `json:"total_point"`
	Attempts   []AttemptView       `json:"attempts"`
}

// AttemptView is one submitted attempt in a result summary.
type AttemptView struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// AssessmentListItem is the GetMany projection: assessment fields with nested
// owner name, quiz ids, and candidate statuses.
type AssessmentListItem struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	OwnerName   string                    `json:"owner_name"`
	QuizIDs     []string                  `json:"quiz_ids"`
	Candidates  []AssessmentListCandidate `json:"candidates"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// AssessmentListCandidate is the nested candidate projection for list views.
type AssessmentListCandidate struct {
	Name   string                 `json:"name"`
	Status models.CandidateStatus `json:"status"`
}

// NewAssessmentData projects a model row (with preloaded owner) into the
// aggregate header.
func NewAssessmentData(assessment models.Assessment) AssessmentData {
	return AssessmentData{
		ID:          assessment.ID,
		OwnerID:     assessment.OwnerID,
		OwnerName:   assessment.Owner.Name,
		Title:       assessment.Title,
		Description: assessment.Description,
		StartAt:     assessment.StartAt,
		EndAt:       assessment.EndAt,
		CreatedAt:   assessment.CreatedAt,
	}
}

// NewQuizView projects a quiz with its preloaded reference rows.
func NewQuizView(quiz models.Quiz) QuizView {
	return QuizView{
		ID:              quiz.ID,
		Title:           quiz.Title,
		Instruction:     quiz.Instruction,
		DifficultyLevel: quiz.DifficultyLevel.Name,
		CodeLanguage:    quiz.CodeLanguage.Name,
	}
}

// NewCandidateView projects an assessment candidate with its preloaded user.
func NewCandidateView(candidate models.AssessmentCandidate) CandidateView {
	return CandidateView{
		ID:     candidate.CandidateID,
		Name:   candidate.Candidate.Name,
		Email:  candidate.Candidate.Email,
		Status: candidate.Status,
	}
}

// NewResultView projects a result, keeping only the latest real attempt.
func NewResultView(result models.AssessmentResult) ResultView {
	view := ResultView{
		ID:         result.ID,
		QuizID:     result.QuizID,
		Status:     result.Status,
		TotalPoint: result.TotalPoint,
		Attempts:   []AttemptView{},
	}
	if latest := result.LatestAttempt(); latest != nil {
		view.Attempts = append(view.Attempts, AttemptView{
			ID:          latest.ID,
			Code:        latest.Code,
			SubmittedAt: latest.SubmittedAt,
		})
	}
	return view
}
