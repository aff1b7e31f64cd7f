package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Dunnarts/config"
	"github.com/lshigami/Dunnarts/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// QuestionGenService drafts multiple-choice questions from module content
// using Gemini. Generated questions still go through the same authoring
// validation as hand-written ones before they are persisted.
type QuestionGenService interface {
	GenerateQuestions(moduleID uint, sourceText string, count int) ([]model.Question, error)
}

type questionGenService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewQuestionGenService(cfg *config.Config) (QuestionGenService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. QuestionGenService will be non-functional.")
		return &questionGenService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &questionGenService{client: model, cfg: cfg}, nil
}

// generatedQuestion mirrors the strict JSON contract requested in the prompt.
type generatedQuestion struct {
	Difficulty    string            `json:"difficulty"`
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

func (s *questionGenService) GenerateQuestions(moduleID uint, sourceText string, count int) ([]model.Question, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	prompt := buildGenerationPrompt(sourceText, count)

	ctx := context.Background()
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Msg("Gemini API error during question generation")
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no content")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}

	parsed, err := parseGeneratedQuestions(raw.String())
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw.String()).Msg("Failed to parse generated questions")
		return nil, err
	}

	questions := make([]model.Question, 0, len(parsed))
	for key, gq := range parsed {
		q, convErr := gq.toModel(moduleID)
		if convErr != nil {
			// Original behavior: a malformed item is skipped, not fatal.
			log.Warn().Err(convErr).Str("item", key).Msg("Skipping malformed generated question")
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no usable questions in generated output")
	}
	return questions, nil
}

func buildGenerationPrompt(sourceText string, count int) string {
	var b strings.Builder
	b.WriteString("You are an expert educator and question paper designer.\n\n")
	b.WriteString("Important instructions:\n")
	b.WriteString("- Use only valid JSON.\n")
	b.WriteString("- All keys and string values must be enclosed in double quotes.\n")
	b.WriteString("- No trailing commas, comments, or explanations. Output ONLY JSON.\n\n")
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions based on the text below. Each question must include:\n", count)
	b.WriteString("- \"difficulty\": \"beginner\", \"intermediate\", or \"advanced\"\n")
	b.WriteString("- A relevant and meaningful \"question_text\"\n")
	b.WriteString("- 4 distinct options under \"options\", keyed \"option1\" through \"option4\"\n")
	b.WriteString("- \"correct_answer\": the key of the correct option, e.g. \"option2\"\n")
	b.WriteString("- \"explanation\": one sentence on why the correct option is correct\n\n")
	b.WriteString("Use this JSON shape exactly, with the question number as key:\n")
	b.WriteString(`{"1": {"difficulty": "beginner", "question_text": "...", "options": {"option1": "...", "option2": "...", "option3": "...", "option4": "..."}, "correct_answer": "option1", "explanation": "..."}}`)
	b.WriteString("\n\nText:\n")
	b.WriteString(sourceText)
	return b.String()
}

// parseGeneratedQuestions pulls the outermost JSON object out of the model's
// reply; Gemini tends to wrap it in prose or code fences despite instructions.
func parseGeneratedQuestions(raw string) (map[string]generatedQuestion, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var parsed map[string]generatedQuestion
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decoding generated questions: %w", err)
	}
	return parsed, nil
}

func (gq generatedQuestion) toModel(moduleID uint) (model.Question, error) {
	if gq.QuestionText == "" {
		return model.Question{}, fmt.Errorf("missing question_text")
	}
	switch gq.Difficulty {
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
	default:
		return model.Question{}, fmt.Errorf("invalid difficulty %q", gq.Difficulty)
	}
	if len(gq.Options) < 2 {
		return model.Question{}, fmt.Errorf("need at least 2 options, got %d", len(gq.Options))
	}

	correctText, ok := gq.Options[gq.CorrectAnswer]
	if !ok || correctText == "" {
		return model.Question{}, fmt.Errorf("correct_answer %q does not reference an option", gq.CorrectAnswer)
	}

	// Options are keyed option1..optionN; sorting the keys preserves the
	// authored order.
	keys := make([]string, 0, len(gq.Options))
	for k := range gq.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	options := make([]string, 0, len(keys))
	for _, k := range keys {
		options = append(options, gq.Options[k])
	}

	return model.Question{
		ModuleID:      moduleID,
		Text:          gq.QuestionText,
		Options:       options,
		Difficulty:    gq.Difficulty,
		CorrectAnswer: correctText,
		Explanation:   gq.Explanation,
	}, nil
}
