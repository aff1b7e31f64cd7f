package service

import (
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/internal/dto"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/lshigami/Dunnarts/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle: start, record answers, submit,
// retake. It is the only component that sees correct answers and candidate
// answers side by side; everything it returns to callers has the correct
// answers stripped until the attempt is submitted.
type AttemptService interface {
	Availability(moduleID uint) (*dto.AvailabilityDTO, error)
	Start(moduleID, userID uint) (*dto.StartAttemptResponseDTO, error)
	RecordAnswer(attemptID, userID, questionID uint, option string) error
	Submit(attemptID, userID uint, answers []dto.AnswerSubmissionDTO) (*dto.AttemptResultDTO, error)
	Retake(moduleID, userID uint) (*dto.StartAttemptResponseDTO, error)
	GetAttemptDetails(attemptID, userID uint) (*dto.AttemptDetailDTO, error)
	GetUserAttemptsForModule(moduleID, userID uint) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	selector     SelectorService
	scorer       ScorerService
	cfg          *config.Config
}

func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	selector SelectorService,
	scorer ScorerService,
	cfg *config.Config,
) AttemptService {
	return &attemptService{
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		selector:     selector,
		scorer:       scorer,
		cfg:          cfg,
	}
}

// Availability is the single read-only probe the UI uses to decide whether to
// offer the assessment. It applies the same minimum-pool rule as Start.
func (s *attemptService) Availability(moduleID uint) (*dto.AvailabilityDTO, error) {
	count, err := s.questionRepo.CountByModuleID(moduleID)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("Availability: failed to count question pool")
		return nil, ErrStoreUnavailable
	}
	return &dto.AvailabilityDTO{
		Available:     count >= int64(s.cfg.Assessment.MinPoolSize),
		QuestionCount: int(count),
	}, nil
}

func (s *attemptService) Start(moduleID, userID uint) (*dto.StartAttemptResponseDTO, error) {
	pool, err := s.questionRepo.FindByModuleID(moduleID)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("Start: failed to load question pool")
		return nil, ErrStoreUnavailable
	}
	if len(pool) < s.cfg.Assessment.MinPoolSize {
		return nil, ErrModuleNotAssessable
	}

	// Fast path; the partial unique index still decides races.
	if _, err := s.attemptRepo.FindActive(moduleID, userID); err == nil {
		return nil, ErrAttemptAlreadyInProgress
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Uint("moduleID", moduleID).Uint("userID", userID).Msg("Start: failed to check for active attempt")
		return nil, ErrStoreUnavailable
	}

	selected, err := s.selector.Select(pool, s.cfg.Assessment.AttemptSize)
	if err != nil {
		if errors.Is(err, ErrInsufficientQuestions) {
			return nil, ErrModuleNotAssessable
		}
		return nil, err
	}

	attempt := model.Attempt{
		ModuleID:  moduleID,
		UserID:    userID,
		Status:    model.AttemptStatusInProgress,
		StartedAt: time.Now(),
		Total:     len(selected),
	}
	for i, q := range selected {
		attempt.Questions = append(attempt.Questions, model.AttemptQuestion{
			QuestionID: q.ID,
			Position:   i + 1,
		})
	}

	if err := s.attemptRepo.CreateWithQuestions(&attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent start.
			return nil, ErrAttemptAlreadyInProgress
		}
		log.Error().Err(err).Uint("moduleID", moduleID).Uint("userID", userID).Msg("Start: failed to create attempt")
		return nil, ErrStoreUnavailable
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("moduleID", moduleID).Uint("userID", userID).
		Int("questions", len(selected)).Msg("Assessment attempt started")

	return &dto.StartAttemptResponseDTO{
		AttemptID: attempt.ID,
		ModuleID:  moduleID,
		Questions: stripAnswers(selected),
	}, nil
}

func (s *attemptService) RecordAnswer(attemptID, userID, questionID uint, option string) error {
	attempt, err := s.loadOwnedAttempt(attemptID, userID)
	if err != nil {
		return err
	}
	if attempt.IsSubmitted() {
		return ErrAlreadySubmitted
	}

	var slot *model.AttemptQuestion
	for i := range attempt.Questions {
		if attempt.Questions[i].QuestionID == questionID {
			slot = &attempt.Questions[i]
			break
		}
	}
	if slot == nil {
		return ErrUnknownQuestion
	}
	if !slot.Question.HasOption(option) {
		return ErrInvalidOption
	}

	rows, err := s.attemptRepo.SaveAnswer(attemptID, questionID, option)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Uint("questionID", questionID).Msg("RecordAnswer: failed to save answer")
		return ErrStoreUnavailable
	}
	if rows == 0 {
		// The attempt was submitted between the load above and this write.
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *attemptService) Submit(attemptID, userID uint, answers []dto.AnswerSubmissionDTO) (*dto.AttemptResultDTO, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.IsSubmitted() {
		return nil, ErrAlreadySubmitted
	}

	questionByID := make(map[uint]model.Question, len(attempt.Questions))
	for _, aq := range attempt.Questions {
		questionByID[aq.QuestionID] = aq.Question
	}

	// Validate the whole submission before touching anything: an unknown
	// question or invalid option rejects it with no persisted side effect.
	submitted := make(map[uint]string, len(answers))
	for _, a := range answers {
		q, ok := questionByID[a.QuestionID]
		if !ok {
			return nil, ErrUnknownQuestion
		}
		if a.SelectedOption == "" {
			continue // unanswered, scored as incorrect
		}
		if !q.HasOption(a.SelectedOption) {
			return nil, ErrInvalidOption
		}
		submitted[a.QuestionID] = a.SelectedOption
	}

	// Merge over answers recorded earlier in the attempt; the submission wins
	// where both exist.
	final := make(map[uint]string, len(attempt.Questions))
	for _, aq := range attempt.Questions {
		if aq.SelectedOption != nil && *aq.SelectedOption != "" {
			final[aq.QuestionID] = *aq.SelectedOption
		}
	}
	for id, opt := range submitted {
		final[id] = opt
	}

	questions := make([]model.Question, 0, len(attempt.Questions))
	for _, aq := range attempt.Questions {
		questions = append(questions, aq.Question)
	}
	result := s.scorer.Score(questions, final)

	transitioned, err := s.attemptRepo.FinalizeSubmission(attemptID, final, repository.SubmitResult{
		SubmittedAt: time.Now(),
		Correct:     result.Correct,
		Score:       result.Score,
		Passed:      result.Passed,
	})
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Submit: failed to finalize submission")
		return nil, ErrStoreUnavailable
	}
	if !transitioned {
		return nil, ErrAlreadySubmitted
	}

	log.Info().Uint("attemptID", attemptID).Int("score", result.Score).
		Int("correct", result.Correct).Int("total", result.Total).Bool("passed", result.Passed).
		Msg("Assessment attempt submitted")

	return &dto.AttemptResultDTO{
		AttemptID: attemptID,
		Score:     result.Score,
		Correct:   result.Correct,
		Total:     result.Total,
		Passed:    result.Passed,
	}, nil
}

// Retake starts a fresh attempt after a failed submission. The failed attempt
// is kept as history. A passed module cannot be retaken.
func (s *attemptService) Retake(moduleID, userID uint) (*dto.StartAttemptResponseDTO, error) {
	attempts, err := s.attemptRepo.FindAllByModuleAndUser(moduleID, userID)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Uint("userID", userID).Msg("Retake: failed to load attempt history")
		return nil, ErrStoreUnavailable
	}

	hasSubmitted := false
	for _, a := range attempts {
		if a.Status == model.AttemptStatusInProgress {
			return nil, ErrAttemptAlreadyInProgress
		}
		if a.IsSubmitted() {
			hasSubmitted = true
			if a.Passed != nil && *a.Passed {
				return nil, ErrAlreadyPassed
			}
		}
	}
	if !hasSubmitted {
		return nil, ErrNothingToRetake
	}

	return s.Start(moduleID, userID)
}

func (s *attemptService) GetAttemptDetails(attemptID, userID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.loadOwnedAttempt(attemptID, userID)
	if err != nil {
		return nil, err
	}

	resp := dto.AttemptDetailDTO{
		ID:          attempt.ID,
		ModuleID:    attempt.ModuleID,
		UserID:      attempt.UserID,
		Status:      attempt.Status,
		StartedAt:   attempt.StartedAt,
		SubmittedAt: attempt.SubmittedAt,
		Score:       attempt.Score,
		Correct:     attempt.Correct,
		Total:       attempt.Total,
		Passed:      attempt.Passed,
	}

	revealed := attempt.IsSubmitted()
	for _, aq := range attempt.Questions {
		entry := dto.AttemptAnswerDTO{
			QuestionID:     aq.QuestionID,
			Position:       aq.Position,
			Text:           aq.Question.Text,
			Options:        aq.Question.Options,
			Difficulty:     aq.Question.Difficulty,
			SelectedOption: aq.SelectedOption,
		}
		if revealed {
			correctAnswer := aq.Question.CorrectAnswer
			isCorrect := aq.SelectedOption != nil && *aq.SelectedOption == correctAnswer
			entry.Correct = &isCorrect
			entry.CorrectAnswer = &correctAnswer
			if aq.Question.Explanation != "" {
				explanation := aq.Question.Explanation
				entry.Explanation = &explanation
			}
		}
		resp.Questions = append(resp.Questions, entry)
	}

	return &resp, nil
}

func (s *attemptService) GetUserAttemptsForModule(moduleID, userID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByModuleAndUser(moduleID, userID)
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Uint("userID", userID).Msg("GetUserAttemptsForModule: repository error")
		return nil, ErrStoreUnavailable
	}

	summaries := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, attempt := range attempts {
		var summary dto.AttemptSummaryDTO
		if err := copier.Copy(&summary, &attempt); err != nil {
			log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("GetUserAttemptsForModule: error copying attempt to summary DTO")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// loadOwnedAttempt fetches an attempt with its question set and checks the
// caller owns it.
func (s *attemptService) loadOwnedAttempt(attemptID, userID uint) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.FindByIDWithQuestions(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load attempt")
		return nil, ErrStoreUnavailable
	}
	if attempt.UserID != userID {
		return nil, ErrAttemptNotOwned
	}
	return attempt, nil
}

// stripAnswers converts selected questions into their candidate-facing shape.
// Built field by field on purpose: the correct answer must not leak through a
// generic copy.
func stripAnswers(questions []model.Question) []dto.AttemptQuestionDTO {
	out := make([]dto.AttemptQuestionDTO, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.AttemptQuestionDTO{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Difficulty: q.Difficulty,
		})
	}
	return out
}
