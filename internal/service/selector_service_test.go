package service_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/lshigami/Dunnarts/internal/service"
)

func selectorWithSeed(minPool int, seed int64) service.SelectorService {
	cfg := &config.Config{}
	cfg.Assessment.MinPoolSize = minPool
	return service.NewSelectorService(cfg, rand.New(rand.NewSource(seed)))
}

// makePool builds a pool with the given number of questions per tier,
// numbering ids sequentially.
func makePool(beginner, intermediate, advanced int) []model.Question {
	var pool []model.Question
	id := uint(1)
	add := func(n int, tier string) {
		for i := 0; i < n; i++ {
			pool = append(pool, model.Question{
				ID:            id,
				ModuleID:      1,
				Text:          "q",
				Options:       []string{"A", "B", "C", "D"},
				Difficulty:    tier,
				CorrectAnswer: "A",
			})
			id++
		}
	}
	add(beginner, model.DifficultyBeginner)
	add(intermediate, model.DifficultyIntermediate)
	add(advanced, model.DifficultyAdvanced)
	return pool
}

func TestSelectReturnsExactSizeWithoutReplacement(t *testing.T) {
	sel := selectorWithSeed(10, 1)
	pool := makePool(10, 10, 10)

	got, err := sel.Select(pool, 10)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("selected %d questions, want 10", len(got))
	}

	poolIDs := make(map[uint]bool, len(pool))
	for _, q := range pool {
		poolIDs[q.ID] = true
	}
	seen := make(map[uint]bool, len(got))
	for _, q := range got {
		if !poolIDs[q.ID] {
			t.Errorf("question %d not in pool", q.ID)
		}
		if seen[q.ID] {
			t.Errorf("question %d selected twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSelectDeterministicForFixedSeed(t *testing.T) {
	pool := makePool(10, 10, 10)

	first, err := selectorWithSeed(10, 42).Select(pool, 10)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := selectorWithSeed(10, 42).Select(pool, 10)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("selections differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("selections diverge at position %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSelectBalancesDifficultyTiers(t *testing.T) {
	sel := selectorWithSeed(10, 7)
	pool := makePool(20, 20, 20)

	got, err := sel.Select(pool, 10)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	counts := map[string]int{}
	for _, q := range got {
		counts[q.Difficulty]++
	}
	// 30/30/40 split of 10.
	if counts[model.DifficultyBeginner] != 3 {
		t.Errorf("beginner count = %d, want 3", counts[model.DifficultyBeginner])
	}
	if counts[model.DifficultyIntermediate] != 3 {
		t.Errorf("intermediate count = %d, want 3", counts[model.DifficultyIntermediate])
	}
	if counts[model.DifficultyAdvanced] != 4 {
		t.Errorf("advanced count = %d, want 4", counts[model.DifficultyAdvanced])
	}
}

func TestSelectBackfillsUnderpopulatedTier(t *testing.T) {
	sel := selectorWithSeed(10, 3)
	// Only one beginner question: the shortfall must come from other tiers.
	pool := makePool(1, 10, 10)

	got, err := sel.Select(pool, 10)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("selected %d questions, want 10", len(got))
	}

	counts := map[string]int{}
	for _, q := range got {
		counts[q.Difficulty]++
	}
	if counts[model.DifficultyBeginner] != 1 {
		t.Errorf("beginner count = %d, want 1 (the whole tier)", counts[model.DifficultyBeginner])
	}
	if counts[model.DifficultyIntermediate]+counts[model.DifficultyAdvanced] != 9 {
		t.Errorf("backfill counts = %v, want 9 across remaining tiers", counts)
	}
}

func TestSelectFailsBelowMinimumPool(t *testing.T) {
	sel := selectorWithSeed(10, 1)
	pool := makePool(2, 2, 2)

	_, err := sel.Select(pool, 10)
	if !errors.Is(err, service.ErrInsufficientQuestions) {
		t.Fatalf("err = %v, want ErrInsufficientQuestions", err)
	}
}

func TestSelectClampsSizeToPool(t *testing.T) {
	sel := selectorWithSeed(10, 1)
	pool := makePool(4, 3, 3)

	got, err := sel.Select(pool, 15)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("selected %d questions, want the whole pool of 10", len(got))
	}
}
