package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hirelens/hirelens-api/internal/dto"
	"github.com/hirelens/hirelens-api/internal/service"
	"github.com/hirelens/hirelens-api/internal/utils"
)

// AssessmentHandler wires assessment HTTP routes.
type AssessmentHandler struct {
	service   service.AssessmentService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAssessmentHandler constructs the handler.
func NewAssessmentHandler(service service.AssessmentService, validator *validator.Validate, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register attaches assessment endpoints to the router group.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/ids", h.listIDs)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/points", h.points)
	router.Post("/:id/quizzes", h.addQuizzes)
	router.Delete("/:id/quizzes/:quizId", h.removeQuiz)
	router.Post("/:id/candidates", h.addCandidates)
	router.Post("/:id/accept", h.acceptCandidate)
	router.Get("/:id/results", h.getResult)
	router.Get("/:id/results/completed", h.completedQuizzes)
	router.Delete("/results/:resultId", h.deleteResult)
	router.Delete("/submissions", h.deleteSubmissions)
}

type createAssessmentRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	QuizIDs     []string `json:"quizIds" validate:"required,min=1,dive,uuid4"`
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	var req createAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	assessment, err := h.service.Create(c.Context(), dto.CreateAssessmentParams{
		UserID:      &userID,
		Title:       &req.Title,
		Description: &req.Description,
		QuizIDs:     req.QuizIDs,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment created", assessment)
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	items, err := h.service.GetMany(c.Context(), dto.UserIDParam{UserID: &userID})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "assessments retrieved", items)
}

func (h *AssessmentHandler) listIDs(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	ids, err := h.service.GetIDs(c.Context(), dto.UserIDParam{UserID: &userID})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "assessment ids retrieved", ids)
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	id := c.Params("id")
	view, err := h.service.Get(c.Context(), dto.AssessmentIDParam{AssessmentID: &id})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "assessment retrieved", view)
}

type updateAssessmentRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (h *AssessmentHandler) update(c *fiber.Ctx) error {
	var req updateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")
	assessment, err := h.service.Update(c.Context(), dto.UpdateAssessmentParams{
		AssessmentID: &id,
		Title:        &req.Title,
		Description:  &req.Description,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "assessment updated", assessment)
}

func (h *AssessmentHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), dto.AssessmentIDParam{AssessmentID: &id}); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "assessment deleted", fiber.Map{"id": id})
}

func (h *AssessmentHandler) points(c *fiber.Ctx) error {
	id := c.Params("id")
	output, err := h.service.Points(c.Context(), dto.AssessmentIDParam{AssessmentID: &id})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "assessment points computed", output)
}

type quizLinkRequest struct {
	QuizIDs []string `json:"quizIds" validate:"required,min=1"`
}

func (h *AssessmentHandler) addQuizzes(c *fiber.Ctx) error {
	var req quizLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	id := c.Params("id")
	count, err := h.service.AddQuizzes(c.Context(), dto.AddQuizzesParams{
		AssessmentID: &id,
		QuizIDs:      req.QuizIDs,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "quizzes added", fiber.Map{"count": count})
}

func (h *AssessmentHandler) removeQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	quizID := c.Params("quizId")
	err := h.service.RemoveQuiz(c.Context(), dto.RemoveQuizParams{
		AssessmentID: &id,
		QuizID:       &quizID,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "quiz removed", fiber.Map{"quizId": quizID})
}

type addCandidatesRequest struct {
	NewCandidateEmails []string `json:"newCandidateEmails" validate:"required,min=1,dive,email"`
}

func (h *AssessmentHandler) addCandidates(c *fiber.Ctx) error {
	var req addCandidatesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")
	count, err := h.service.AddCandidates(c.Context(), dto.AddCandidatesParams{
		AssessmentID:       &id,
		NewCandidateEmails: req.NewCandidateEmails,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "candidates invited", fiber.Map{"count": count})
}

type acceptCandidateRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *AssessmentHandler) acceptCandidate(c *fiber.Ctx) error {
	var req acceptCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	id := c.Params("id")
	userID := userIDFromContext(c)
	candidate, err := h.service.AcceptCandidate(c.Context(), dto.AcceptCandidateParams{
		AssessmentID: &id,
		Token:        &req.Token,
		UserID:       &userID,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "invitation accepted", candidate)
}

func (h *AssessmentHandler) getResult(c *fiber.Ctx) error {
	id := c.Params("id")
	params := dto.ResultLookupParams{AssessmentID: &id}
	if quizID := c.Query("quizId"); quizID != "" {
		params.QuizID = &quizID
	}
	result, err := h.service.GetResult(c.Context(), params)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *AssessmentHandler) completedQuizzes(c *fiber.Ctx) error {
	id := c.Params("id")
	results, err := h.service.CompletedQuizzes(c.Context(), dto.AssessmentIDParam{AssessmentID: &id})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "completed results retrieved", results)
}

func (h *AssessmentHandler) deleteResult(c *fiber.Ctx) error {
	resultID := c.Params("resultId")
	if err := h.service.DeleteResult(c.Context(), dto.ResultIDParam{AssessmentResultID: &resultID}); err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "result deleted", fiber.Map{"id": resultID})
}

type deleteSubmissionsRequest struct {
	SubmissionIDs []string `json:"submissionIds"`
}

func (h *AssessmentHandler) deleteSubmissions(c *fiber.Ctx) error {
	var req deleteSubmissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	count, err := h.service.DeleteSubmissions(c.Context(), dto.DeleteSubmissionsParams{
		SubmissionIDs: req.SubmissionIDs,
	})
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "submissions deleted", fiber.Map{"count": count})
}

func (h *AssessmentHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, resp := domainBadRequest(c, err); handled {
		return resp
	}
	switch {
	case errors.Is(err, service.ErrAssessmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrCandidateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment candidate not found")
	case errors.Is(err, service.ErrInvalidInviteToken):
		return utils.SendError(c, fiber.StatusForbidden, "invalid invitation token")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment result not found")
	default:
		return h.internalError(c, err)
	}
}

func (h *AssessmentHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
