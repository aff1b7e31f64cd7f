package service

import (
	"math/rand"

	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/internal/model"
)

// Difficulty mix targeted by Select when the pool supports it. Advanced gets
// the largest share, matching how pools are authored (heavier tail of applied
// questions).
var difficultyShares = map[string]float64{
	model.DifficultyBeginner:     0.30,
	model.DifficultyIntermediate: 0.30,
	model.DifficultyAdvanced:     0.40,
}

// selectionOrder keeps quota assignment deterministic for a fixed seed.
var selectionOrder = []string{
	model.DifficultyBeginner,
	model.DifficultyIntermediate,
	model.DifficultyAdvanced,
}

// SelectorService draws a bounded, difficulty-balanced subset from a module's
// question pool. The returned order is the attempt's canonical answer order.
type SelectorService interface {
	Select(pool []model.Question, size int) ([]model.Question, error)
}

type selectorService struct {
	minPool int
	rng     *rand.Rand
}

// NewSelectorService builds a selector with the deployment's minimum pool
// size. The rand source is injected so tests can pin a seed; production
// wiring passes a time-seeded source (see cmd/main.go).
func NewSelectorService(cfg *config.Config, rng *rand.Rand) SelectorService {
	return &selectorService{minPool: cfg.Assessment.MinPoolSize, rng: rng}
}

func (s *selectorService) Select(pool []model.Question, size int) ([]model.Question, error) {
	if len(pool) < s.minPool {
		return nil, ErrInsufficientQuestions
	}
	if size > len(pool) {
		size = len(pool)
	}

	buckets := make(map[string][]model.Question, len(selectionOrder))
	for _, q := range pool {
		buckets[q.Difficulty] = append(buckets[q.Difficulty], q)
	}
	for _, tier := range selectionOrder {
		s.shuffle(buckets[tier])
	}

	quotas := tierQuotas(size)

	// First pass: fill each tier up to its quota.
	selected := make([]model.Question, 0, size)
	var leftovers []model.Question
	for _, tier := range selectionOrder {
		bucket := buckets[tier]
		take := quotas[tier]
		if take > len(bucket) {
			take = len(bucket)
		}
		selected = append(selected, bucket[:take]...)
		leftovers = append(leftovers, bucket[take:]...)
	}

	// Any question with an unknown tier label is still eligible as backfill.
	for tier, bucket := range buckets {
		if _, known := difficultyShares[tier]; !known {
			leftovers = append(leftovers, bucket...)
		}
	}

	// Backfill under-populated tiers from whatever remains.
	if missing := size - len(selected); missing > 0 {
		s.shuffle(leftovers)
		selected = append(selected, leftovers[:missing]...)
	}

	// The final shuffle decouples answer order from tier grouping.
	s.shuffle(selected)
	return selected, nil
}

func (s *selectorService) shuffle(qs []model.Question) {
	s.rng.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

// tierQuotas splits size across tiers by the target shares, handing rounding
// remainders out in selection order so the quotas always sum to size.
func tierQuotas(size int) map[string]int {
	quotas := make(map[string]int, len(selectionOrder))
	assigned := 0
	for _, tier := range selectionOrder {
		n := int(difficultyShares[tier] * float64(size))
		quotas[tier] = n
		assigned += n
	}
	for i := 0; assigned < size; i++ {
		quotas[selectionOrder[i%len(selectionOrder)]]++
		assigned++
	}
	return quotas
}
