package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/repository"
)

// Comparative level bands. A score of zero is a valid "low".
const (
	ComparativeLevelLow    = "low"
	ComparativeLevelMedium = "medium"
	ComparativeLevelHigh   = "high"

	comparativeLevelMediumCutoff = 34
	comparativeLevelHighCutoff   = 67
)

// ComparativeScore normalizes a candidate's point against the population of
// users scored on the same quiz. With no comparison population the
// candidate's own point stands unscaled.
func ComparativeScore(params dto.ComparativeScoreParams) (dto.ComparativeScoreResult, error) {
	if err := params.Validate(); err != nil {
		return dto.ComparativeScoreResult{}, err
	}

	if *params.UsersCount == 0 {
		return dto.ComparativeScoreResult{
			ComparativeScore:     *params.Point,
			UsersBelowPointCount: 0,
		}, nil
	}

	score := math.Round(float64(*params.UsersBelowPointCount) / float64(*params.UsersCount) * 100)
	return dto.ComparativeScoreResult{
		ComparativeScore:     score,
		UsersBelowPointCount: *params.UsersBelowPointCount,
	}, nil
}

// ComparativeScoreLevel classifies a comparative score into a qualitative
// band using fixed cutoffs.
func ComparativeScoreLevel(params dto.ComparativeLevelParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}
	score := *params.ComparativeScore
	switch {
	case score < comparativeLevelMediumCutoff:
		return ComparativeLevelLow, nil
	case score < comparativeLevelHighCutoff:
		return ComparativeLevelMedium, nil
	default:
		return ComparativeLevelHigh, nil
	}
}

// ScoringService answers population questions for comparative scoring.
type ScoringService interface {
	UsersCount(ctx context.Context, params dto.UsersCountParams) (int, error)
	UsersBelowPointCount(ctx context.Context, params dto.UsersBelowPointCountParams) (int, error)
	ComparativeScoreForQuiz(ctx context.Context, userID, quizID string, point float64) (dto.ComparativeScoreResult, string, error)
}

type scoringService struct {
	points repository.QuizPointCollectionRepository
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewScoringService constructs the scoring service.
func NewScoringService(points repository.QuizPointCollectionRepository, logger zerolog.Logger) ScoringService {
	return &scoringService{
		points: points,
		logger: logger.With().Str("component", "scoring_service").Logger(),
		tracer: otel.Tracer("github.com/hirelens/hirelens-api/internal/service"),
	}
}

func (s *scoringService) UsersCount(ctx context.Context, params dto.UsersCountParams) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	return s.points.CountUsersForQuiz(ctx, *params.UserID, *params.QuizID)
}

func (s *scoringService) UsersBelowPointCount(ctx context.Context, params dto.UsersBelowPointCountParams) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	return s.points.CountUsersBelowPoint(ctx, *params.UserID, *params.QuizID, *params.Point)
}

// ComparativeScoreForQuiz composes the population counts with the pure score
// and level functions for one candidate's quiz point.
func (s *scoringService) ComparativeScoreForQuiz(ctx context.Context, userID, quizID string, point float64) (dto.ComparativeScoreResult, string, error) {
	ctx, span := s.tracer.Start(ctx, "scoring.comparative_score", trace.WithAttributes(
		attribute.String("scoring.quiz_id", quizID),
		attribute.Float64("scoring.point", point),
	))
	defer span.End()

	usersCount, err := s.UsersCount(ctx, dto.UsersCountParams{UserID: &userID, QuizID: &quizID})
	if err != nil {
		span.RecordError(err)
		return dto.ComparativeScoreResult{}, "", err
	}
	belowCount, err := s.UsersBelowPointCount(ctx, dto.UsersBelowPointCountParams{UserID: &userID, QuizID: &quizID, Point: &point})
	if err != nil {
		span.RecordError(err)
		return dto.ComparativeScoreResult{}, "", err
	}

	result, err := ComparativeScore(dto.ComparativeScoreParams{
		UsersCount:           &usersCount,
		UsersBelowPointCount: &belowCount,
		Point:                &point,
	})
	if err != nil {
		return dto.ComparativeScoreResult{}, "", err
	}

	level, err := ComparativeScoreLevel(dto.ComparativeLevelParams{ComparativeScore: &result.ComparativeScore})
	if err != nil {
		return dto.ComparativeScoreResult{}, "", err
	}

	span.SetAttributes(attribute.Float64("scoring.comparative_score", result.ComparativeScore))
	return result, level, nil
}
