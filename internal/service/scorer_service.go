package service

import (
	"math"

	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/internal/model"
)

// ScoreResult is the verdict for one submitted attempt. Score is the rounded
// percentage (round half up).
type ScoreResult struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
}

// ScorerService grades a fixed question set against submitted answers. It is
// pure: no I/O, no state beyond the configured pass threshold.
type ScorerService interface {
	Score(questions []model.Question, answers map[uint]string) ScoreResult
}

type scorerService struct {
	passThreshold int
}

func NewScorerService(cfg *config.Config) ScorerService {
	return &scorerService{passThreshold: cfg.Assessment.PassThreshold}
}

// Score counts exact, case-sensitive matches against each question's stored
// correct answer. Unanswered questions count as incorrect. Total is the size
// of the question set, never the answer count, so partial submissions grade
// against the full attempt.
func (s *scorerService) Score(questions []model.Question, answers map[uint]string) ScoreResult {
	correct := 0
	for _, q := range questions {
		if answer, ok := answers[q.ID]; ok && answer == q.CorrectAnswer {
			correct++
		}
	}

	total := len(questions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(correct) * 100 / float64(total)))
	}

	return ScoreResult{
		Correct: correct,
		Total:   total,
		Score:   percentage,
		Passed:  percentage >= s.passThreshold,
	}
}
