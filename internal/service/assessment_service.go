package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/observability"
	"github.com/hirelens/hirelens-api/internal/repository"
	"github.com/hirelens/hirelens-api/pkg/mailer"
)

// ErrAssessmentNotFound indicates the assessment was not located.
var ErrAssessmentNotFound = errors.New("assessment not found")

// ErrCandidateNotFound indicates the invited candidate was not located.
var ErrCandidateNotFound = errors.New("assessment candidate not found")

// ErrInvalidInviteToken indicates the accept token does not match the invite.
var ErrInvalidInviteToken = errors.New("invalid invitation token")

// AssessmentService composes validation, points, scoring, and persistence
// into the assessment workflow surface.
type AssessmentService interface {
	Create(ctx context.Context, params dto.CreateAssessmentParams) (models.Assessment, error)
	Update(ctx context.Context, params dto.UpdateAssessmentParams) (models.Assessment, error)
	Delete(ctx context.Context, params dto.AssessmentIDParam) error
	Get(ctx context.Context, params dto.AssessmentIDParam) (*dto.AssessmentView, error)
	GetMany(ctx context.Context, params dto.UserIDParam) ([]dto.AssessmentListItem, error)
	GetIDs(ctx context.Context, params dto.UserIDParam) ([]string, error)
	AddQuizzes(ctx context.Context, params dto.AddQuizzesParams) (int64, error)
	RemoveQuiz(ctx context.Context, params dto.RemoveQuizParams) error
	Points(ctx context.Context, params dto.AssessmentIDParam) (dto.QuizPointsOutput, error)
	AddCandidates(ctx context.Context, params dto.AddCandidatesParams) (int64, error)
	CreateCandidateEmails(ctx context.Context, rows []dto.CandidateEmailRow) (int64, error)
	AcceptCandidate(ctx context.Context, params dto.AcceptCandidateParams) (models.AssessmentCandidate, error)
	GetResult(ctx context.Context, params dto.ResultLookupParams) (models.AssessmentResult, error)
	DeleteResult(ctx context.Context, params dto.ResultIDParam) error
	DeleteSubmissions(ctx context.Context, params dto.DeleteSubmissionsParams) (int64, error)
	CompletedQuizzes(ctx context.Context, params dto.AssessmentIDParam) ([]models.AssessmentResult, error)
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	candidates  repository.AssessmentCandidateRepository
	results     repository.AssessmentResultRepository
	users       repository.UserRepository
	points      repository.AssessmentPointRepository
	mail        mailer.Mailer
	activity    ActivityRecorder
	cache       AssessmentViewCache
	sanitizer   *bluemonday.Policy
	baseURL     string
	pointScale  float64
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// AssessmentServiceConfig groups the orchestration dependencies.
type AssessmentServiceConfig struct {
	Assessments repository.AssessmentRepository
	Candidates  repository.AssessmentCandidateRepository
	Results     repository.AssessmentResultRepository
	Users       repository.UserRepository
	Points      repository.AssessmentPointRepository
	Mailer      mailer.Mailer
	Activity    ActivityRecorder
	Cache       AssessmentViewCache
	BaseURL     string
	PointScale  float64
	Logger      zerolog.Logger
}

// NewAssessmentService constructs the assessment orchestration service.
func NewAssessmentService(cfg AssessmentServiceConfig) AssessmentService {
	return &assessmentService{
		assessments: cfg.Assessments,
		candidates:  cfg.Candidates,
		results:     cfg.Results,
		users:       cfg.Users,
		points:      cfg.Points,
		mail:        cfg.Mailer,
		activity:    cfg.Activity,
		cache:       cfg.Cache,
		sanitizer:   bluemonday.StrictPolicy(),
		baseURL:     cfg.BaseURL,
		pointScale:  cfg.PointScale,
		logger:      cfg.Logger.With().Str("component", "assessment_service").Logger(),
		tracer:      otel.Tracer("github.com/hirelens/hirelens-api/internal/service"),
	}
}

// Create persists an assessment with its initial quiz links atomically.
func (s *assessmentService) Create(ctx context.Context, params dto.CreateAssessmentParams) (models.Assessment, error) {
	if err := params.Validate(); err != nil {
		return models.Assessment{}, err
	}

	ctx, span := s.tracer.Start(ctx, "assessment.create", trace.WithAttributes(
		attribute.Int("assessment.quiz_count", len(params.QuizIDs)),
	))
	defer span.End()

	assessment := models.Assessment{
		OwnerID:     *params.UserID,
		Title:       s.sanitizer.Sanitize(*params.Title),
		Description: s.sanitizer.Sanitize(*params.Description),
		StartAt:     params.StartAt,
		EndAt:       params.EndAt,
	}
	if err := s.assessments.CreateWithQuizzes(ctx, &assessment, params.QuizIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment_create_failed")
		return models.Assessment{}, err
	}

	s.logger.Info().Str("assessment_id", assessment.ID).Msg("assessment created")
	return s.assessments.GetByID(ctx, assessment.ID)
}

// Update mutates the assessment's own fields; linked quizzes and candidates
// are untouched.
func (s *assessmentService) Update(ctx context.Context, params dto.UpdateAssessmentParams) (models.Assessment, error) {
	if err := params.Validate(); err != nil {
		return models.Assessment{}, err
	}

	current, err := s.assessments.GetByID(ctx, *params.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}

	current.Title = s.sanitizer.Sanitize(*params.Title)
	current.Description = s.sanitizer.Sanitize(*params.Description)
	if params.StartAt != nil {
		current.StartAt = params.StartAt
	}
	if params.EndAt != nil {
		current.EndAt = params.EndAt
	}
	if err := s.assessments.Update(ctx, &current); err != nil {
		return models.Assessment{}, err
	}

	s.invalidate(ctx, current.ID)
	return s.assessments.GetByID(ctx, current.ID)
}

// Delete cascades removal of quiz links, candidates, results, and attempt
// rows before the assessment row itself.
func (s *assessmentService) Delete(ctx context.Context, params dto.AssessmentIDParam) error {
	if err := params.Validate(); err != nil {
		return err
	}

	ctx, span := s.tracer.Start(ctx, "assessment.delete", trace.WithAttributes(
		attribute.String("assessment.id", *params.AssessmentID),
	))
	defer span.End()

	if err := s.assessments.Delete(ctx, *params.AssessmentID); err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx, *params.AssessmentID)
	s.logger.Info().Str("assessment_id", *params.AssessmentID).Msg("assessment deleted")
	return nil
}

// Get assembles the aggregate assessment view for the UI and the scoring
// pipeline.
func (s *assessmentService) Get(ctx context.Context, params dto.AssessmentIDParam) (*dto.AssessmentView, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, *params.AssessmentID); ok {
			return view, nil
		}
	}

	assessment, err := s.assessments.GetByID(ctx, *params.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, err
	}

	view := buildAssessmentView(assessment)
	if s.cache != nil {
		s.cache.Set(ctx, assessment.ID, view)
	}
	return view, nil
}

func (s *assessmentService) GetMany(ctx context.Context, params dto.UserIDParam) ([]dto.AssessmentListItem, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	assessments, err := s.assessments.ListByOwner(ctx, *params.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AssessmentListItem, 0, len(assessments))
	for _, assessment := range assessments {
		item := dto.AssessmentListItem{
			ID:          assessment.ID,
			Title:       assessment.Title,
			Description: assessment.Description,
			OwnerName:   assessment.Owner.Name,
			QuizIDs:     make([]string, 0, len(assessment.Quizzes)),
			Candidates:  make([]dto.AssessmentListCandidate, 0, len(assessment.Candidates)),
			CreatedAt:   assessment.CreatedAt,
		}
		for _, link := range assessment.Quizzes {
			item.QuizIDs = append(item.QuizIDs, link.QuizID)
		}
		for _, candidate := range assessment.Candidates {
			item.Candidates = append(item.Candidates, dto.AssessmentListCandidate{
				Name:   candidate.Candidate.Name,
				Status: candidate.Status,
			})
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *assessmentService) GetIDs(ctx context.Context, params dto.UserIDParam) ([]string, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.assessments.ListIDsByOwner(ctx, *params.UserID)
}

func (s *assessmentService) AddQuizzes(ctx context.Context, params dto.AddQuizzesParams) (int64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	count, err := s.assessments.AddQuizzes(ctx, *params.AssessmentID, params.QuizIDs)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, *params.AssessmentID)
	return count, nil
}

func (s *assessmentService) RemoveQuiz(ctx context.Context, params dto.RemoveQuizParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := s.assessments.RemoveQuiz(ctx, *params.AssessmentID, *params.QuizID); err != nil {
		return err
	}
	s.invalidate(ctx, *params.AssessmentID)
	return nil
}

// Points computes the current point breakdown for the assessment's assigned
// quizzes from the configured point categories.
func (s *assessmentService) Points(ctx context.Context, params dto.AssessmentIDParam) (dto.QuizPointsOutput, error) {
	if err := params.Validate(); err != nil {
		return dto.QuizPointsOutput{}, err
	}

	assessment, err := s.assessments.GetByID(ctx, *params.AssessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizPointsOutput{}, ErrAssessmentNotFound
		}
		return dto.QuizPointsOutput{}, err
	}

	stored, err := s.points.List(ctx)
	if err != nil {
		return dto.QuizPointsOutput{}, err
	}

	return ComputeQuizPoints(dto.QuizPointsInput{
		AssessmentQuizzes: assessment.Quizzes,
		AssessmentPoints:  NormalizePoints(stored, s.pointScale),
	})
}

// AddCandidates invites a batch of addresses: each gets a PENDING candidate
// row, an invitation email, and a delivery-log entry. A failed dispatch is
// recorded and never aborts the rest of the batch.
func (s *assessmentService) AddCandidates(ctx context.Context, params dto.AddCandidatesParams) (int64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	ctx, span := s.tracer.Start(ctx, "assessment.add_candidates", trace.WithAttributes(
		attribute.String("assessment.id", *params.AssessmentID),
		attribute.Int("assessment.invite_count", len(params.NewCandidateEmails)),
	))
	defer span.End()

	rows := make([]dto.CandidateEmailRow, 0, len(params.NewCandidateEmails))
	for _, email := range params.NewCandidateEmails {
		email := email
		statusCode, errorMessage := s.inviteCandidate(ctx, *params.AssessmentID, email)
		rows = append(rows, dto.CandidateEmailRow{
			AssessmentID: params.AssessmentID,
			Email:        &email,
			StatusCode:   &statusCode,
			ErrorMessage: &errorMessage,
		})
	}

	count, err := s.CreateCandidateEmails(ctx, rows)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	s.invalidate(ctx, *params.AssessmentID)
	return count, nil
}

// inviteCandidate handles a single address and reports the dispatch outcome
// for the delivery log.
func (s *assessmentService) inviteCandidate(ctx context.Context, assessmentID, email string) (statusCode int, errorMessage string) {
	user, err := s.users.EnsureByEmail(ctx, email)
	if err != nil {
		observability.InvitationsTotal().WithLabelValues("rejected").Inc()
		s.logger.Error().Err(err).Str("email", email).Msg("failed to resolve candidate account")
		return 0, err.Error()
	}

	token := uuid.NewString()
	candidate := models.AssessmentCandidate{
		AssessmentID: assessmentID,
		CandidateID:  user.ID,
		Status:       models.CandidateStatusPending,
		Token:        token,
	}
	if err := s.candidates.Create(ctx, &candidate); err != nil {
		observability.InvitationsTotal().WithLabelValues("rejected").Inc()
		s.logger.Error().Err(err).Str("email", email).Msg("failed to create candidate row")
		return 0, err.Error()
	}

	assessmentURL := fmt.Sprintf("%s/c/assessments/%s?token=%s", s.baseURL, assessmentID, token)
	result, err := s.mail.Send(ctx, mailer.Message{
		To:            []string{email},
		Subject:       "You have been invited to a coding assessment",
		TextContent:   "Open the link to accept your assessment invite: " + assessmentURL,
		HTMLContent:   fmt.Sprintf(`<p>Open <a href=%q>your assessment</a> to accept the invite.</p>`, assessmentURL),
		AssessmentURL: assessmentURL,
	})
	if err != nil || len(result.Rejected) > 0 {
		observability.InvitationsTotal().WithLabelValues("rejected").Inc()
		message := "recipient rejected"
		if err != nil {
			message = err.Error()
		}
		s.logger.Warn().Str("email", email).Str("reason", message).Msg("invitation dispatch failed")
		return 0, message
	}

	observability.InvitationsTotal().WithLabelValues("accepted").Inc()
	return http.StatusOK, ""
}

// CreateCandidateEmails validates and bulk-inserts delivery-log rows.
func (s *assessmentService) CreateCandidateEmails(ctx context.Context, rows []dto.CandidateEmailRow) (int64, error) {
	entries := make([]models.AssessmentCandidateEmail, 0, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return 0, err
		}
		entries = append(entries, models.AssessmentCandidateEmail{
			AssessmentID: *row.AssessmentID,
			Email:        *row.Email,
			StatusCode:   *row.StatusCode,
			ErrorMessage: *row.ErrorMessage,
		})
	}
	return s.candidates.CreateEmails(ctx, entries)
}

// AcceptCandidate transitions an invited candidate from PENDING to ACCEPTED
// and records the "accept" activity. Accepting twice is a no-op.
func (s *assessmentService) AcceptCandidate(ctx context.Context, params dto.AcceptCandidateParams) (models.AssessmentCandidate, error) {
	if err := params.Validate(); err != nil {
		return models.AssessmentCandidate{}, err
	}

	candidate, err := s.candidates.GetByPair(ctx, *params.AssessmentID, *params.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AssessmentCandidate{}, ErrCandidateNotFound
		}
		return models.AssessmentCandidate{}, err
	}
	if candidate.Token != *params.Token {
		return models.AssessmentCandidate{}, ErrInvalidInviteToken
	}
	if candidate.Status != models.CandidateStatusPending {
		return candidate, nil
	}

	updated, err := s.candidates.UpdateStatus(ctx, *params.AssessmentID, *params.UserID, models.CandidateStatusAccepted)
	if err != nil {
		return models.AssessmentCandidate{}, err
	}

	if s.activity != nil {
		metadata := map[string]interface{}{"assessment_id": *params.AssessmentID}
		if err := s.activity.Record(ctx, *params.UserID, models.UserActionAccept, metadata); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record accept activity")
		}
	}

	s.invalidate(ctx, *params.AssessmentID)
	return updated, nil
}

func (s *assessmentService) GetResult(ctx context.Context, params dto.ResultLookupParams) (models.AssessmentResult, error) {
	if err := params.Validate(); err != nil {
		return models.AssessmentResult{}, err
	}
	result, err := s.results.FindByAssessmentAndQuiz(ctx, *params.AssessmentID, *params.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AssessmentResult{}, ErrResultNotFound
		}
		return models.AssessmentResult{}, err
	}
	return result, nil
}

func (s *assessmentService) DeleteResult(ctx context.Context, params dto.ResultIDParam) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return s.results.Delete(ctx, *params.AssessmentResultID)
}

// DeleteSubmissions bulk-deletes attempt rows. An empty id list is a no-op.
func (s *assessmentService) DeleteSubmissions(ctx context.Context, params dto.DeleteSubmissionsParams) (int64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	if len(params.SubmissionIDs) == 0 {
		return 0, nil
	}
	return s.results.DeleteSubmissions(ctx, params.SubmissionIDs)
}

func (s *assessmentService) CompletedQuizzes(ctx context.Context, params dto.AssessmentIDParam) ([]models.AssessmentResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.results.ListCompleted(ctx, *params.AssessmentID)
}

func (s *assessmentService) invalidate(ctx context.Context, assessmentID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, assessmentID)
	}
}

// buildAssessmentView assembles the aggregate read model: header, quizzes,
// candidates, and one submissions bucket per candidate. Candidates without
// any result still get an empty bucket.
func buildAssessmentView(assessment models.Assessment) *dto.AssessmentView {
	view := &dto.AssessmentView{
		Data:        dto.NewAssessmentData(assessment),
		Quizzes:     make([]dto.QuizView, 0, len(assessment.Quizzes)),
		Candidates:  make([]dto.CandidateView, 0, len(assessment.Candidates)),
		Submissions: make([]dto.CandidateSubmissions, 0, len(assessment.Candidates)),
	}

	for _, link := range assessment.Quizzes {
		view.Quizzes = append(view.Quizzes, dto.NewQuizView(link.Quiz))
	}

	resultsByCandidate := make(map[string][]models.AssessmentResult, len(assessment.Candidates))
	for _, result := range assessment.Results {
		resultsByCandidate[result.CandidateID] = append(resultsByCandidate[result.CandidateID], result)
	}

	for _, candidate := range assessment.Candidates {
		view.Candidates = append(view.Candidates, dto.NewCandidateView(candidate))

		bucket := dto.CandidateSubmissions{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Candidate.Name,
			Data:        make([]dto.ResultView, 0),
		}
		for _, result := range resultsByCandidate[candidate.CandidateID] {
			bucket.Data = append(bucket.Data, dto.NewResultView(result))
		}
		view.Submissions = append(view.Submissions, bucket)
	}

	return view
}
