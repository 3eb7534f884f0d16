package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CandidateStatus tracks where an invited candidate is in the assessment
// workflow.
type CandidateStatus string

const (
	// CandidateStatusPending means the candidate was invited but has not
	// accepted yet.
	CandidateStatusPending CandidateStatus = "PENDING"
	// CandidateStatusAccepted means the candidate accepted the invite and may
	// start submitting.
	CandidateStatusAccepted CandidateStatus = "ACCEPTED"
	// CandidateStatusCompleted means the candidate finished the assessment.
	CandidateStatusCompleted CandidateStatus = "COMPLETED"
)

// Assessment is a timed bundle of quizzes an owner assigns to candidates.
type Assessment struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string     `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Owner      User                  `gorm:"foreignKey:OwnerID" json:"owner"`
	Quizzes    []AssessmentQuiz      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"quizzes"`
	Candidates []AssessmentCandidate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"candidates"`
	Results    []AssessmentResult    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"results"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (a *Assessment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AssessmentQuiz links an assessment to one of its quizzes. The quiz point
// value is derived by the points module, never stored here.
type AssessmentQuiz struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssessmentID string    `gorm:"type:uuid;not null;uniqueIndex:idx_assessment_quiz" json:"assessment_id"`
	QuizID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_assessment_quiz" json:"quiz_id"`
	CreatedAt    time.Time `json:"created_at"`
	Quiz         Quiz      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"quiz"`
}

// AssessmentCandidate pairs an assessment with an invited candidate.
type AssessmentCandidate struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AssessmentID string          `gorm:"type:uuid;not null;uniqueIndex:idx_assessment_candidate" json:"assessment_id"`
	CandidateID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_assessment_candidate" json:"candidate_id"`
	Status       CandidateStatus `gorm:"size:16;not null;default:PENDING" json:"status"`
	Token        string          `gorm:"type:uuid;index" json:"token"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Candidate    User            `gorm:"foreignKey:CandidateID" json:"candidate"`
}

// AssessmentCandidateEmail is the delivery log for one invitation dispatch.
// A failed dispatch is recorded here and never aborts the rest of the batch.
type AssessmentCandidateEmail struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssessmentID string    `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	StatusCode   int       `gorm:"not null" json:"status_code"`
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time `json:"created_at"`
}

// AssessmentPoint is a globally configured, named point category, e.g.
// {name: "easyQuizCompletionPoint", point: 1000}.
type AssessmentPoint struct {
	ID    string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string  `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Point float64 `gorm:"not null" json:"point"`
}

// BeforeCreate assigns a uuid primary key when none was provided.
func (p *AssessmentPoint) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
