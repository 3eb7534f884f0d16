package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/hirelens/hirelens-api/internal/models"
	"github.com/hirelens/hirelens-api/internal/repository"
)

// ActivityRecorder defines behaviour for recording candidate activity.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, action string, metadata map[string]interface{}) error
}

type activityService struct {
	repo        repository.ActivityLogRepository
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
}

type candidateEvent struct {
	UserID   string                 `json:"user_id"`
	Action   string                 `json:"action"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	SentAt   time.Time              `json:"sent_at"`
}

// NewActivityService constructs the candidate activity recorder. The NATS
// connection is optional; when present, every recorded action is also
// published as an event, best-effort.
func NewActivityService(repo repository.ActivityLogRepository, natsConn *nats.Conn, natsSubject string, logger zerolog.Logger) ActivityRecorder {
	return &activityService{
		repo:        repo,
		nats:        natsConn,
		natsSubject: natsSubject,
		logger:      logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, userID, action string, metadata map[string]interface{}) error {
	userAction, err := s.repo.ActionByName(ctx, action)
	if err != nil {
		return err
	}

	entry := models.CandidateActivityLog{
		UserID:       userID,
		UserActionID: userAction.ID,
		Metadata:     datatypes.JSONMap(metadata),
	}
	if err := s.repo.Record(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to persist activity log")
		return err
	}

	s.publish(userID, action, metadata)
	return nil
}

func (s *activityService) publish(userID, action string, metadata map[string]interface{}) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}
	payload, err := json.Marshal(candidateEvent{
		UserID:   userID,
		Action:   action,
		Metadata: metadata,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode candidate event")
		return
	}
	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.natsSubject).Msg("failed to publish candidate event")
	}
}
