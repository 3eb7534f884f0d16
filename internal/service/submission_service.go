package service

import (
	"context"
	"errors"
	"time"

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
)

// ErrSubmissionNotFound indicates the attempt row was not located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrResultNotFound indicates the result row was not located.
var ErrResultNotFound = errors.New("assessment result not found")

// SubmissionService manages the candidate attempt lifecycle: starting an
// attempt, recording code, and recomputing the result's total point.
type SubmissionService interface {
	Create(ctx context.Context, params dto.CreateSubmissionParams) (dto.CandidateSubmissionResult, error)
	Update(ctx context.Context, params dto.UpdateSubmissionParams) (dto.CandidateSubmissionResult, error)
}

type submissionService struct {
	results     repository.AssessmentResultRepository
	assessments repository.AssessmentRepository
	candidates  repository.AssessmentCandidateRepository
	quizzes     repository.QuizRepository
	points      repository.AssessmentPointRepository
	quizPoints  repository.QuizPointCollectionRepository
	activity    ActivityRecorder
	pointScale  float64
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs the submission lifecycle service.
func NewSubmissionService(
	results repository.AssessmentResultRepository,
	assessments repository.AssessmentRepository,
	candidates repository.AssessmentCandidateRepository,
	quizzes repository.QuizRepository,
	points repository.AssessmentPointRepository,
	quizPoints repository.QuizPointCollectionRepository,
	activity ActivityRecorder,
	pointScale float64,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		results:     results,
		assessments: assessments,
		candidates:  candidates,
		quizzes:     quizzes,
		points:      points,
		quizPoints:  quizPoints,
		activity:    activity,
		pointScale:  pointScale,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/hirelens/hirelens-api/internal/service"),
		now:         time.Now,
	}
}

// Create locates or creates the result row for the triple and opens an empty
// attempt for the candidate's editor session. Retrying after a crash finds
// the existing STARTED row instead of duplicating it.
func (s *submissionService) Create(ctx context.Context, params dto.CreateSubmissionParams) (dto.CandidateSubmissionResult, error) {
	if err := params.Validate(); err != nil {
		return dto.CandidateSubmissionResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "submission.create", trace.WithAttributes(
		attribute.String("submission.assessment_id", *params.AssessmentID),
		attribute.String("submission.quiz_id", *params.QuizID),
	))
	defer span.End()

	result, created, err := s.results.GetOrCreate(ctx, *params.AssessmentID, *params.UserID, *params.QuizID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result_get_or_create_failed")
		return dto.CandidateSubmissionResult{}, err
	}

	attempt := models.AssessmentQuizSubmission{ResultID: result.ID}
	if err := s.results.AppendSubmission(ctx, &attempt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "attempt_append_failed")
		return dto.CandidateSubmissionResult{}, err
	}
	result.Submissions = append(result.Submissions, attempt)

	if created {
		s.logger.Info().
			Str("assessment_id", *params.AssessmentID).
			Str("quiz_id", *params.QuizID).
			Msg("candidate started quiz")
	}

	span.SetAttributes(attribute.Bool("submission.result_created", created))
	return dto.CandidateSubmissionResult{Result: result}, nil
}

// Update stamps the attempt with the candidate's code, completes the result,
// and recomputes its total point from the configured point categories.
func (s *submissionService) Update(ctx context.Context, params dto.UpdateSubmissionParams) (dto.CandidateSubmissionResult, error) {
	if err := params.Validate(); err != nil {
		return dto.CandidateSubmissionResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "submission.update", trace.WithAttributes(
		attribute.String("submission.id", *params.AssessmentQuizSubmissionID),
		attribute.String("submission.quiz_id", *params.QuizID),
	))
	defer span.End()

	attempt, err := s.results.GetSubmission(ctx, *params.AssessmentQuizSubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CandidateSubmissionResult{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.CandidateSubmissionResult{}, err
	}

	submittedAt := s.now()
	attempt.Code = *params.Code
	attempt.SubmittedAt = &submittedAt
	if err := s.results.UpdateSubmission(ctx, &attempt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "attempt_update_failed")
		return dto.CandidateSubmissionResult{}, err
	}

	result, err := s.results.GetByID(ctx, attempt.ResultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CandidateSubmissionResult{}, ErrResultNotFound
		}
		span.RecordError(err)
		return dto.CandidateSubmissionResult{}, err
	}

	point, err := s.quizPoint(ctx, *params.QuizID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "point_computation_failed")
		return dto.CandidateSubmissionResult{}, err
	}

	status, err := result.Status.Complete()
	if err != nil {
		span.RecordError(err)
		return dto.CandidateSubmissionResult{}, err
	}
	result.Status = status
	result.TotalPoint = point
	if err := s.results.Update(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result_update_failed")
		return dto.CandidateSubmissionResult{}, err
	}

	if err := s.quizPoints.Upsert(ctx, *params.UserID, *params.QuizID, point); err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", *params.QuizID).Msg("failed to record quiz point")
	}

	if s.activity != nil {
		metadata := map[string]interface{}{
			"assessment_id": result.AssessmentID,
			"quiz_id":       result.QuizID,
			"total_point":   point,
		}
		if err := s.activity.Record(ctx, *params.UserID, models.UserActionComplete, metadata); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record complete activity")
		}
	}

	s.detectCandidateCompletion(ctx, result.AssessmentID, result.CandidateID)

	observability.SubmissionsCompletedTotal().Inc()
	span.SetAttributes(attribute.Float64("submission.total_point", point))

	return dto.CandidateSubmissionResult{Result: result}, nil
}

// quizPoint computes the point a completed quiz is worth right now.
func (s *submissionService) quizPoint(ctx context.Context, quizID string) (float64, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return 0, err
	}
	stored, err := s.points.List(ctx)
	if err != nil {
		return 0, err
	}

	output, err := ComputeQuizPoints(dto.QuizPointsInput{
		AssessmentQuizzes: []models.AssessmentQuiz{{QuizID: quiz.ID, Quiz: quiz}},
		AssessmentPoints:  NormalizePoints(stored, s.pointScale),
	})
	if err != nil {
		return 0, err
	}
	return output.QuizPoints[quiz.ID], nil
}

// detectCandidateCompletion flips the candidate to COMPLETED once every quiz
// in the assessment has a completed result. Failures only log; the
// submission itself has already been recorded.
func (s *submissionService) detectCandidateCompletion(ctx context.Context, assessmentID, candidateID string) {
	quizCount, err := s.assessments.CountQuizzes(ctx, assessmentID)
	if err != nil || quizCount == 0 {
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to count assessment quizzes")
		}
		return
	}
	completed, err := s.results.CountCompletedForCandidate(ctx, assessmentID, candidateID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to count completed results")
		return
	}
	if completed < quizCount {
		return
	}
	if _, err := s.candidates.UpdateStatus(ctx, assessmentID, candidateID, models.CandidateStatusCompleted); err != nil {
		s.logger.Warn().Err(err).Msg("failed to mark candidate completed")
	}
}
