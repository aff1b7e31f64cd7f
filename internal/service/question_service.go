package service

import (
	"fmt"

	"github.com/lshigami/Dunnarts/internal/dto"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/lshigami/Dunnarts/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService covers the authoring side of a module's pool: bulk create,
// LLM generation, listing with answers, deletion. All candidate-facing reads
// go through AttemptService instead.
type QuestionService interface {
	CreateBatch(moduleID uint, req dto.QuestionBatchCreateDTO) ([]dto.QuestionAdminDTO, error)
	GenerateAndStore(moduleID uint, req dto.GenerateQuestionsDTO) ([]dto.QuestionAdminDTO, error)
	ListByModule(moduleID uint) ([]dto.QuestionAdminDTO, error)
	Delete(questionID uint) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
	genService   QuestionGenService
}

func NewQuestionService(questionRepo repository.QuestionRepository, genService QuestionGenService) QuestionService {
	return &questionService{questionRepo: questionRepo, genService: genService}
}

func (s *questionService) CreateBatch(moduleID uint, req dto.QuestionBatchCreateDTO) ([]dto.QuestionAdminDTO, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, qDto := range req.Questions {
		if err := validateAuthoredQuestion(qDto); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, model.Question{
			ModuleID:      moduleID,
			Text:          qDto.Text,
			Options:       qDto.Options,
			Difficulty:    qDto.Difficulty,
			CorrectAnswer: qDto.CorrectAnswer,
			Explanation:   qDto.Explanation,
		})
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("CreateBatch: failed to persist questions")
		return nil, fmt.Errorf("database error creating questions: %w", err)
	}
	return toAdminDTOs(questions), nil
}

func (s *questionService) GenerateAndStore(moduleID uint, req dto.GenerateQuestionsDTO) ([]dto.QuestionAdminDTO, error) {
	questions, err := s.genService.GenerateQuestions(moduleID, req.SourceText, req.Count)
	if err != nil {
		return nil, fmt.Errorf("generating questions: %w", err)
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("GenerateAndStore: failed to persist generated questions")
		return nil, fmt.Errorf("database error storing generated questions: %w", err)
	}

	log.Info().Uint("moduleID", moduleID).Int("requested", req.Count).Int("stored", len(questions)).
		Msg("Generated questions stored")
	return toAdminDTOs(questions), nil
}

func (s *questionService) ListByModule(moduleID uint) ([]dto.QuestionAdminDTO, error) {
	questions, err := s.questionRepo.FindByModuleID(moduleID)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("ListByModule: repository error")
		return nil, fmt.Errorf("error fetching questions for module %d: %w", moduleID, err)
	}
	return toAdminDTOs(questions), nil
}

func (s *questionService) Delete(questionID uint) error {
	if err := s.questionRepo.Delete(questionID); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("Delete: repository error")
		return fmt.Errorf("error deleting question %d: %w", questionID, err)
	}
	return nil
}

// validateAuthoredQuestion enforces the rules binding tags cannot express:
// distinct options and a correct answer that is actually one of them.
func validateAuthoredQuestion(q dto.QuestionCreateDTO) error {
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if opt == "" {
			return fmt.Errorf("options must be non-empty")
		}
		if seen[opt] {
			return fmt.Errorf("duplicate option %q", opt)
		}
		seen[opt] = true
	}
	if !seen[q.CorrectAnswer] {
		return fmt.Errorf("correct answer %q is not one of the options", q.CorrectAnswer)
	}
	return nil
}

func toAdminDTOs(questions []model.Question) []dto.QuestionAdminDTO {
	out := make([]dto.QuestionAdminDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.QuestionAdminDTO{
			ID:            q.ID,
			ModuleID:      q.ModuleID,
			Text:          q.Text,
			Options:       q.Options,
			Difficulty:    q.Difficulty,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			CreatedAt:     q.CreatedAt,
		})
	}
	return out
}
