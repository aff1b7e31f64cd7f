package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Dunnarts/internal/dto"
	"github.com/lshigami/Dunnarts/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminQuestionController struct {
	questionService service.QuestionService
}

func NewAdminQuestionController(questionService service.QuestionService) *AdminQuestionController {
	return &AdminQuestionController{questionService: questionService}
}

// CreateQuestions godoc
// @Summary (Admin) Author questions for a module in bulk
// @Description Creates a batch of multiple-choice questions. Each question needs 2-6 distinct options and a correct answer that is one of them.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param batch body dto.QuestionBatchCreateDTO true "Questions to create"
// @Success 201 {array} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/modules/{module_id}/questions [post]
func (c *AdminQuestionController) CreateQuestions(ctx *gin.Context) {
	moduleID, ok := moduleIDParam(ctx)
	if !ok {
		return
	}
	var req dto.QuestionBatchCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestions: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	created, err := c.questionService.CreateBatch(moduleID, req)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("Admin CreateQuestions: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Failed to create questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// GenerateQuestions godoc
// @Summary (Admin) Generate questions from module content with the LLM
// @Description Drafts multiple-choice questions from the provided source text and stores the ones that pass authoring validation.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param module_id path int true "Module ID"
// @Param request body dto.GenerateQuestionsDTO true "Source text and desired count"
// @Success 201 {array} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 502 {object} dto.ErrorResponse "Generation failed"
// @Router /admin/modules/{module_id}/questions/generate [post]
func (c *AdminQuestionController) GenerateQuestions(ctx *gin.Context) {
	moduleID, ok := moduleIDParam(ctx)
	if !ok {
		return
	}
	var req dto.GenerateQuestionsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin GenerateQuestions: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	created, err := c.questionService.GenerateAndStore(moduleID, req)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("Admin GenerateQuestions: service error")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Kind: dto.KindInternal, Message: "Failed to generate questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// ListQuestions godoc
// @Summary (Admin) List a module's question pool with answers
// @Description Authoring view including correct answers and explanations.
// @Tags Admin - Questions
// @Produce json
// @Param module_id path int true "Module ID"
// @Success 200 {array} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Module ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/modules/{module_id}/questions [get]
func (c *AdminQuestionController) ListQuestions(ctx *gin.Context) {
	moduleID, ok := moduleIDParam(ctx)
	if !ok {
		return
	}
	questions, err := c.questionService.ListByModule(moduleID)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("Admin ListQuestions: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Kind: dto.KindInternal, Message: "Failed to list questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question from the pool
// @Description Soft-deletes the question. Attempts that already reference it keep their snapshot through the attempt's question rows.
// @Tags Admin - Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid Question ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/{question_id} [delete]
func (c *AdminQuestionController) DeleteQuestion(ctx *gin.Context) {
	raw := ctx.Param("question_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid Question ID format"})
		return
	}
	if err := c.questionService.Delete(uint(id)); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Kind: dto.KindInternal, Message: "Failed to delete question", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func moduleIDParam(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("module_id")
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Kind: dto.KindBadRequest, Message: "Invalid Module ID format"})
		return 0, false
	}
	return uint(val), true
}
