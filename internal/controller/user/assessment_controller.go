package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Dunnarts/internal/dto"
	"github.com/lshigami/Dunnarts/internal/service"
	"github.com/rs/zerolog/log"
)

type AssessmentController struct {
	attemptService service.AttemptService
}

func NewAssessmentController(attemptService service.AttemptService) *AssessmentController {
	return &AssessmentController{attemptService: attemptService}
}

// GetAvailability godoc
// @Summary Check whether a module's assessment can be taken
// @Description Returns an explicit availability flag plus the pool size, using the same minimum-pool rule as starting an attempt.
// @Tags Assessments
// @Produce json
// @Param module_id path int true "Module ID"
// @Success 200 {object} dto.AvailabilityDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Module ID format"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Router /modules/{module_id}/assessment/availability [get]
func (c *AssessmentController) GetAvailability(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}
	availability, err := c.attemptService.Availability(moduleID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, availability)
}

// StartAttempt godoc
// @Summary Start an assessment attempt for a module
// @Description Selects a difficulty-balanced question set and opens an attempt. Questions are returned without correct answers, in the order answers are expected.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param request body dto.StartAttemptRequestDTO true "Caller identity"
// @Success 200 {object} dto.StartAttemptResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "An attempt is already in progress"
// @Failure 422 {object} dto.ErrorResponse "Module is not assessable"
// @Router /modules/{module_id}/attempts [post]
func (c *AssessmentController) StartAttempt(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}
	var req dto.StartAttemptRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.attemptService.Start(moduleID, req.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RecordAnswer godoc
// @Summary Record one answer on an open attempt
// @Description Writes a single answer slot; last write wins. The option must be one of the question's listed options.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param request body dto.RecordAnswerRequestDTO true "Answer payload"
// @Success 204 "Answer recorded"
// @Failure 400 {object} dto.ErrorResponse "Unknown question or invalid option"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /attempts/{attempt_id}/answers [put]
func (c *AssessmentController) RecordAnswer(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.RecordAnswerRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("RecordAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := c.attemptService.RecordAnswer(attemptID, req.UserID, req.QuestionID, req.SelectedOption); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// SubmitAttempt godoc
// @Summary Submit an attempt for scoring
// @Description Final, terminal transition. Missing answers score as incorrect; an unknown question rejects the whole submission with no side effect.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param request body dto.SubmitAttemptRequestDTO true "All answers"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown question or invalid option"
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /attempts/{attempt_id}/submit [post]
func (c *AssessmentController) SubmitAttempt(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.SubmitAttemptRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.attemptService.Submit(attemptID, req.UserID, req.Answers)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// RetakeAttempt godoc
// @Summary Start a fresh attempt after a failed one
// @Description Opens a new attempt with a freshly selected question set. The failed attempt is retained as history. A passed module cannot be retaken.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param request body dto.StartAttemptRequestDTO true "Caller identity"
// @Success 200 {object} dto.StartAttemptResponseDTO
// @Failure 403 {object} dto.ErrorResponse "Module already passed"
// @Failure 404 {object} dto.ErrorResponse "Nothing to retake"
// @Failure 409 {object} dto.ErrorResponse "An attempt is already in progress"
// @Router /modules/{module_id}/attempts/retake [post]
func (c *AssessmentController) RetakeAttempt(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}
	var req dto.StartAttemptRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("RetakeAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.attemptService.Retake(moduleID, req.UserID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAttemptDetails godoc
// @Summary Get the full state of one attempt
// @Description Correct answers, per-question correctness and explanations appear only after the attempt has been submitted.
// @Tags Assessments
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param user_id query int true "User ID (temporary, until auth token)"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 403 {object} dto.ErrorResponse "Attempt belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *AssessmentController) GetAttemptDetails(ctx *gin.Context) {
	attemptID, ok := pathID(ctx, "attempt_id")
	if !ok {
		return
	}
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}

	detail, err := c.attemptService.GetAttemptDetails(attemptID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetMyAttempts godoc
// @Summary List a user's attempts for a module
// @Description Summaries only, newest first. Scores of past attempts are immutable history.
// @Tags Assessments
// @Produce json
// @Param module_id path int true "Module ID"
// @Param user_id query int true "User ID (temporary, until auth token)"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Router /modules/{module_id}/my-attempts [get]
func (c *AssessmentController) GetMyAttempts(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "module_id")
	if !ok {
		return
	}
	userID, ok := queryUserID(ctx)
	if !ok {
		return
	}

	attempts, err := c.attemptService.GetUserAttemptsForModule(moduleID, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func queryUserID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Query("user_id")
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid User ID format in query"})
		return 0, false
	}
	return uint(val), true
}

// respondServiceError maps lifecycle errors to HTTP statuses and stable kinds.
func respondServiceError(ctx *gin.Context, err error) {
	var status int
	var kind string

	switch {
	case errors.Is(err, service.ErrModuleNotAssessable):
		status, kind = http.StatusUnprocessableEntity, dto.KindModuleNotAssessable
	case errors.Is(err, service.ErrAttemptAlreadyInProgress):
		status, kind = http.StatusConflict, dto.KindAttemptInProgress
	case errors.Is(err, service.ErrAttemptNotFound):
		status, kind = http.StatusNotFound, dto.KindAttemptNotFound
	case errors.Is(err, service.ErrAttemptNotOwned):
		status, kind = http.StatusForbidden, dto.KindAttemptNotOwned
	case errors.Is(err, service.ErrAlreadySubmitted):
		status, kind = http.StatusConflict, dto.KindAlreadySubmitted
	case errors.Is(err, service.ErrAlreadyPassed):
		status, kind = http.StatusForbidden, dto.KindAlreadyPassed
	case errors.Is(err, service.ErrNothingToRetake):
		status, kind = http.StatusNotFound, dto.KindNothingToRetake
	case errors.Is(err, service.ErrUnknownQuestion):
		status, kind = http.StatusBadRequest, dto.KindUnknownQuestion
	case errors.Is(err, service.ErrInvalidOption):
		status, kind = http.StatusBadRequest, dto.KindInvalidOption
	case errors.Is(err, service.ErrStoreUnavailable):
		status, kind = http.StatusServiceUnavailable, dto.KindStoreUnavailable
	default:
		log.Error().Err(err).Msg("Unexpected service error")
		status, kind = http.StatusInternalServerError, dto.KindInternal
	}

	ctx.JSON(status, dto.ErrorResponse{Kind: kind, Message: err.Error()})
}
