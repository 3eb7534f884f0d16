package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/service"
	"github.com/hirelens/hirelens-api/internal/utils"
)

// SubmissionHandler wires candidate attempt routes.
type SubmissionHandler struct {
	submissions service.SubmissionService
	scoring     service.ScoringService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(submissions service.SubmissionService, scoring service.ScoringService, validator *validator.Validate, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		scoring:     scoring,
		validator:   validator,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches submission endpoints to the router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Get("/quizzes/:quizId/comparative-score", h.comparativeScore)
}

type createSubmissionRequest struct {
	AssessmentID string `json:"assessmentId" validate:"required"`
	QuizID       string `json:"quizId" validate:"required"`
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var req createSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	created, err := h.submissions.Create(c.Context(), dto.CreateSubmissionParams{
		AssessmentID: &req.AssessmentID,
		QuizID:       &req.QuizID,
		UserID:       &userID,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attempt started", created)
}

type updateSubmissionRequest struct {
	Code   string `json:"code" validate:"required"`
	QuizID string `json:"quizId" validate:"required"`
}

func (h *SubmissionHandler) update(c *fiber.Ctx) error {
	var req updateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")
	userID := userIDFromContext(c)
	updated, err := h.submissions.Update(c.Context(), dto.UpdateSubmissionParams{
		AssessmentQuizSubmissionID: &id,
		Code:                       &req.Code,
		UserID:                     &userID,
		QuizID:                     &req.QuizID,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "attempt submitted", updated)
}

func (h *SubmissionHandler) comparativeScore(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	point, err := strconv.ParseFloat(c.Query("point", "0"), 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid point")
	}

	userID := userIDFromContext(c)
	result, level, err := h.scoring.ComparativeScoreForQuiz(c.Context(), userID, quizID, point)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "comparative score computed", fiber.Map{
		"comparativeScore":     result.ComparativeScore,
		"usersBelowPointCount": result.UsersBelowPointCount,
		"level":                level,
	})
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, resp := domainBadRequest(c, err); handled {
		return resp
	}
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment result not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
