package service_test

import (
	"fmt"
	"testing"

	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/lshigami/Dunnarts/internal/service"
)

func scorerWithThreshold(threshold int) service.ScorerService {
	cfg := &config.Config{}
	cfg.Assessment.PassThreshold = threshold
	return service.NewScorerService(cfg)
}

// questionSet builds n questions whose correct answer is always "A".
func questionSet(n int) []model.Question {
	qs := make([]model.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, model.Question{
			ID:            uint(i),
			Text:          fmt.Sprintf("question %d", i),
			Options:       []string{"A", "B", "C", "D"},
			Difficulty:    model.DifficultyBeginner,
			CorrectAnswer: "A",
		})
	}
	return qs
}

func TestScoreSevenOfTenPassesAtSeventy(t *testing.T) {
	scorer := scorerWithThreshold(70)
	qs := questionSet(10)

	answers := map[uint]string{}
	for i := 1; i <= 7; i++ {
		answers[uint(i)] = "A"
	}
	for i := 8; i <= 10; i++ {
		answers[uint(i)] = "B"
	}

	res := scorer.Score(qs, answers)
	if res.Correct != 7 || res.Total != 10 {
		t.Fatalf("correct/total = %d/%d, want 7/10", res.Correct, res.Total)
	}
	if res.Score != 70 {
		t.Fatalf("score = %d, want 70", res.Score)
	}
	if !res.Passed {
		t.Fatal("passed = false, want true at threshold 70")
	}
}

func TestScoreRoundsHalfUp(t *testing.T) {
	scorer := scorerWithThreshold(70)

	cases := []struct {
		total   int
		correct int
		want    int
	}{
		{3, 1, 33},  // 33.33 -> 33
		{3, 2, 67},  // 66.67 -> 67
		{8, 5, 63},  // 62.5  -> 63 (half rounds up)
		{8, 3, 38},  // 37.5  -> 38
		{10, 0, 0},  // floor
		{10, 10, 100},
	}

	for _, tc := range cases {
		qs := questionSet(tc.total)
		answers := map[uint]string{}
		for i := 1; i <= tc.correct; i++ {
			answers[uint(i)] = "A"
		}
		res := scorer.Score(qs, answers)
		if res.Score != tc.want {
			t.Errorf("%d/%d: score = %d, want %d", tc.correct, tc.total, res.Score, tc.want)
		}
	}
}

func TestScoreIsCaseSensitive(t *testing.T) {
	scorer := scorerWithThreshold(70)
	qs := []model.Question{{
		ID:            1,
		Text:          "capital of France",
		Options:       []string{"Paris", "Lyon"},
		Difficulty:    model.DifficultyBeginner,
		CorrectAnswer: "Paris",
	}}

	res := scorer.Score(qs, map[uint]string{1: "paris"})
	if res.Correct != 0 {
		t.Fatalf("correct = %d, want 0 for case mismatch", res.Correct)
	}
}

func TestScoreCountsUnansweredAsIncorrect(t *testing.T) {
	scorer := scorerWithThreshold(70)
	qs := questionSet(10)

	// Only half the questions answered; total still reflects the full set.
	answers := map[uint]string{}
	for i := 1; i <= 5; i++ {
		answers[uint(i)] = "A"
	}

	res := scorer.Score(qs, answers)
	if res.Total != 10 {
		t.Fatalf("total = %d, want 10", res.Total)
	}
	if res.Correct != 5 || res.Score != 50 {
		t.Fatalf("correct/score = %d/%d, want 5/50", res.Correct, res.Score)
	}
	if res.Passed {
		t.Fatal("passed = true, want false at 50 against threshold 70")
	}
}

func TestScoreThresholdBoundary(t *testing.T) {
	scorer := scorerWithThreshold(70)

	qs := questionSet(10)
	answers := map[uint]string{}
	for i := 1; i <= 6; i++ {
		answers[uint(i)] = "A"
	}
	if res := scorer.Score(qs, answers); res.Passed {
		t.Fatalf("score %d passed, want fail below threshold", res.Score)
	}
	answers[uint(7)] = "A"
	if res := scorer.Score(qs, answers); !res.Passed {
		t.Fatalf("score %d failed, want pass at threshold", res.Score)
	}
}
