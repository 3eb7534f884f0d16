package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResultStatus is the state of a candidate's per-quiz result. PENDING is the
// conceptual state before any result row exists; a persisted row is always
// STARTED or COMPLETED. Transitions are monotonic and never regress.
type ResultStatus string

const (
	// ResultStatusPending means no result row exists yet for the triple.
	ResultStatusPending ResultStatus = "PENDING"
	// ResultStatusStarted means the result row exists with no scored attempt.
	ResultStatusStarted ResultStatus = "STARTED"
	// ResultStatusCompleted means at least one attempt has been scored.
	ResultStatusCompleted ResultStatus = "COMPLETED"
)

var resultStatusRank = map[ResultStatus]int{
	ResultStatusPending:   0,
	ResultStatusStarted:   1,
	ResultStatusCompleted: 2,
}

// CanTransition reports whether moving from s to next keeps the status
// monotonic. Staying on the same status is allowed.
func (s ResultStatus) CanTransition(next ResultStatus) bool {
	from, ok := resultStatusRank[s]
	if !ok {
		return false
	}
	to, ok := resultStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// Start transitions into STARTED.
func (s ResultStatus) Start() (ResultStatus, error) {
	if !s.CanTransition(ResultStatusStarted) {
		return s, fmt.Errorf("result status cannot move from %s to %s", s, ResultStatusStarted)
	}
	return ResultStatusStarted, nil
}

// Complete transitions into COMPLETED.
func (s ResultStatus) Complete() (ResultStatus, error) {
	if !s.CanTransition(ResultStatusCompleted) {
		return s, fmt.Errorf("result status cannot move from %s to %s", s, ResultStatusCompleted)
	}
	return ResultStatusCompleted, nil
}

// AssessmentResult aggregates a candidate's attempts for one quiz within one
// assessment. At most one row exists per (assessment, candidate, quiz) triple.
type AssessmentResult struct {
	ID           string       `gorm:"type:uuid;primaryKey" json:"id"`
	AssessmentID string       `gorm:"type:uuid;not null;uniqueIndex:idx_result_triple" json:"assessment_id"`
	CandidateID  string       `gorm:"type:uuid;not null;uniqueIndex:idx_result_triple" json:"candidate_id"`
	QuizID       string       `gorm:"type:uuid;not null;uniqueIndex:idx_result_triple" json:"quiz_id"`
	Status       ResultStatus `gorm:"size:16;not null;default:STARTED" json:"status"`
	TotalPoint   float64      `gorm:"not null;default:0" json:"total_point"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Submissions []AssessmentQuizSubmission `gorm:"foreignKey:ResultID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"submissions"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (r *AssessmentResult) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// LatestAttempt returns the most recent submission carrying code, or nil when
// the candidate has not submitted anything real yet.
func (r *AssessmentResult) LatestAttempt() *AssessmentQuizSubmission {
	var latest *AssessmentQuizSubmission
	for i := range r.Submissions {
		sub := &r.Submissions[i]
		if !sub.HasCode() {
			continue
		}
		if latest == nil || sub.SubmittedAt.After(*latest.SubmittedAt) {
			latest = sub
		}
	}
	return latest
}

// AssessmentQuizSubmission is one attempt record. A row is created empty when
// the candidate opens the editor and stamped with code on submit; rows are
// append-only per result.
type AssessmentQuizSubmission struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	ResultID    string     `gorm:"type:uuid;not null;index" json:"result_id"`
	Code        string     `gorm:"type:text" json:"code"`
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (s *AssessmentQuizSubmission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// HasCode reports whether the attempt holds a real submission.
func (s AssessmentQuizSubmission) HasCode() bool {
	return s.Code != "" && s.SubmittedAt != nil
}
