package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/lshigami/Dunnarts/internal/dto"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/lshigami/Dunnarts/internal/service"
)

// fakeGenService returns a canned set of generated questions.
type fakeGenService struct {
	questions []model.Question
	err       error
}

func (f *fakeGenService) GenerateQuestions(moduleID uint, sourceText string, count int) ([]model.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Question, len(f.questions))
	copy(out, f.questions)
	for i := range out {
		out[i].ModuleID = moduleID
	}
	return out, nil
}

func validAuthoredQuestion() dto.QuestionCreateDTO {
	return dto.QuestionCreateDTO{
		Text:          "What is 2 + 2?",
		Options:       []string{"3", "4", "5", "6"},
		Difficulty:    model.DifficultyBeginner,
		CorrectAnswer: "4",
		Explanation:   "Basic addition.",
	}
}

func TestCreateBatchPersistsValidQuestions(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := service.NewQuestionService(repo, &fakeGenService{})

	created, err := svc.CreateBatch(3, dto.QuestionBatchCreateDTO{
		Questions: []dto.QuestionCreateDTO{validAuthoredQuestion(), validAuthoredQuestion()},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d questions, want 2", len(created))
	}
	for _, q := range created {
		if q.ID == 0 || q.ModuleID != 3 {
			t.Errorf("question %+v not persisted for module 3", q)
		}
		if q.CorrectAnswer != "4" {
			t.Errorf("admin view lost the correct answer: %+v", q)
		}
	}

	count, _ := repo.CountByModuleID(3)
	if count != 2 {
		t.Fatalf("repository holds %d questions, want 2", count)
	}
}

func TestCreateBatchRejectsInvalidQuestions(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := service.NewQuestionService(repo, &fakeGenService{})

	cases := []struct {
		name   string
		mutate func(*dto.QuestionCreateDTO)
		want   string
	}{
		{
			name:   "duplicate options",
			mutate: func(q *dto.QuestionCreateDTO) { q.Options = []string{"4", "4", "5"} },
			want:   "duplicate option",
		},
		{
			name:   "empty option",
			mutate: func(q *dto.QuestionCreateDTO) { q.Options = []string{"", "4"} },
			want:   "non-empty",
		},
		{
			name:   "correct answer not an option",
			mutate: func(q *dto.QuestionCreateDTO) { q.CorrectAnswer = "7" },
			want:   "not one of the options",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := validAuthoredQuestion()
			tc.mutate(&q)
			_, err := svc.CreateBatch(3, dto.QuestionBatchCreateDTO{Questions: []dto.QuestionCreateDTO{q}})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %q", err, tc.want)
			}
			if count, _ := repo.CountByModuleID(3); count != 0 {
				t.Fatalf("invalid batch persisted %d questions", count)
			}
		})
	}
}

func TestGenerateAndStore(t *testing.T) {
	repo := newFakeQuestionRepo()
	gen := &fakeGenService{questions: []model.Question{
		{
			Text:          "Generated question",
			Options:       []string{"A", "B", "C", "D"},
			Difficulty:    model.DifficultyIntermediate,
			CorrectAnswer: "B",
			Explanation:   "B is right.",
		},
	}}
	svc := service.NewQuestionService(repo, gen)

	created, err := svc.GenerateAndStore(5, dto.GenerateQuestionsDTO{SourceText: "module content", Count: 1})
	if err != nil {
		t.Fatalf("GenerateAndStore: %v", err)
	}
	if len(created) != 1 || created[0].ModuleID != 5 {
		t.Fatalf("created = %+v, want one question on module 5", created)
	}
	if count, _ := repo.CountByModuleID(5); count != 1 {
		t.Fatalf("repository holds %d questions, want 1", count)
	}
}

func TestGenerateAndStorePropagatesGenerationFailure(t *testing.T) {
	repo := newFakeQuestionRepo()
	gen := &fakeGenService{err: errors.New("model overloaded")}
	svc := service.NewQuestionService(repo, gen)

	_, err := svc.GenerateAndStore(5, dto.GenerateQuestionsDTO{SourceText: "x", Count: 1})
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("err = %v, want wrapped generation failure", err)
	}
	if count, _ := repo.CountByModuleID(5); count != 0 {
		t.Fatalf("failed generation persisted %d questions", count)
	}
}

func TestListAndDelete(t *testing.T) {
	repo := newFakeQuestionRepo()
	svc := service.NewQuestionService(repo, &fakeGenService{})

	created, err := svc.CreateBatch(3, dto.QuestionBatchCreateDTO{
		Questions: []dto.QuestionCreateDTO{validAuthoredQuestion()},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	listed, err := svc.ListByModule(3)
	if err != nil {
		t.Fatalf("ListByModule: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created[0].ID {
		t.Fatalf("listed = %+v, want the created question", listed)
	}

	if err := svc.Delete(created[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if listed, _ := svc.ListByModule(3); len(listed) != 0 {
		t.Fatalf("question still listed after delete: %+v", listed)
	}
}
