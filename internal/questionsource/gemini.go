package questionsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/diagnostic-service/internal/models"
	"github.com/SAP-F-2025/diagnostic-service/internal/repositories"
	"github.com/SAP-F-2025/diagnostic-service/internal/utils"
	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gorm.io/datatypes"
)

const (
	geminiMaxAttempts  = 3
	geminiRetryBackoff = time.Second
)

var choiceLabels = []string{"A", "B", "C", "D"}

// Gemini generates brand-new four-choice questions with the Generative AI
// API. Every failure path degrades to the offline sentinel question so a
// model outage never blocks a student.
type Gemini struct {
	apiKey string
	model  string
	skills repositories.SkillRepository
	logger utils.Logger
}

func NewGemini(apiKey, model string, skills repositories.SkillRepository, logger utils.Logger) *Gemini {
	return &Gemini{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
		skills: skills,
		logger: logger.With("component", "gemini_source"),
	}
}

// generatedItem is the JSON shape the model is instructed to return.
type generatedItem struct {
	PassageText       string   `json:"passageText"`
	QuestionText      string   `json:"questionText"`
	Options           []string `json:"options"`
	CorrectOptionText string   `json:"correctOptionText"`
	Explanation       string   `json:"explanation"`
}

// Question generates one question for the skill at the tier. The returned
// question is always usable: on generation failure it is the offline
// sentinel, never nil.
func (g *Gemini) Question(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error) {
	question, err := g.generate(ctx, skillID, tier, models.QuestionApproved)
	if err != nil {
		g.logger.ErrorContext(ctx, "question generation failed, serving offline fallback",
			"skill_id", skillID, "difficulty", tier, "error", err)
		return OfflineQuestion(skillID, tier, err), nil
	}
	return question, nil
}

// GenerateDraft generates a question for the review workflow. Drafts are
// not served to students until approved, so failures surface as errors
// instead of the offline sentinel.
func (g *Gemini) GenerateDraft(ctx context.Context, skillID string, tier models.DifficultyTier) (*models.Question, error) {
	return g.generate(ctx, skillID, tier, models.QuestionDraft)
}

func (g *Gemini) generate(ctx context.Context, skillID string, tier models.DifficultyTier, status models.QuestionStatus) (*models.Question, error) {
	if g.apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	skillName := skillID
	if skill, err := g.skills.GetByID(ctx, skillID); err == nil {
		skillName = skill.Name
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.7),
		TopP:             ptrFloat32(0.9),
		ResponseMIMEType: "application/json",
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(itemWriterInstruction)},
	}

	prompt := fmt.Sprintf(promptTemplate, skillID, skillName, tier)

	var resp *genai.GenerateContentResponse
	var lastErr error
	for attempt := 1; attempt <= geminiMaxAttempts; attempt++ {
		resp, lastErr = model.GenerateContent(ctx, genai.Text(prompt))
		if lastErr == nil || attempt == geminiMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * geminiRetryBackoff):
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("generation failed after %d attempts: %w", geminiMaxAttempts, lastErr)
	}

	text := firstText(resp)
	if text == "" {
		return nil, errors.New("empty model response")
	}

	item, err := parseGeneratedItem(text)
	if err != nil {
		return nil, err
	}
	return g.toQuestion(item, skillID, tier, status), nil
}

func (g *Gemini) toQuestion(item *generatedItem, skillID string, tier models.DifficultyTier, status models.QuestionStatus) *models.Question {
	choices := make([]models.Choice, len(choiceLabels))
	for i, label := range choiceLabels {
		choices[i] = models.Choice{Label: label, Text: item.Options[i]}
	}

	stimulus := item.QuestionText
	if item.PassageText != "" {
		stimulus = item.PassageText + "\n\n" + item.QuestionText
	}

	return &models.Question{
		ID:           "AI_" + uuid.NewString(),
		SkillID:      skillID,
		Difficulty:   tier,
		Stimulus:     stimulus,
		Explanation:  item.Explanation,
		CorrectLabel: choiceLabels[correctChoiceIndex(item)],
		Points:       1,
		Choices:      datatypes.NewJSONType(choices),
		Status:       status,
		Source:       models.SourceGenerated,
	}
}

// parseGeneratedItem decodes the model output, tolerating markdown code
// fences and one pass of invalid-escape repair.
func parseGeneratedItem(text string) (*generatedItem, error) {
	cleaned := stripCodeFences(text)

	var item generatedItem
	if err := json.Unmarshal([]byte(cleaned), &item); err != nil {
		repaired := repairInvalidEscapes(cleaned)
		if err2 := json.Unmarshal([]byte(repaired), &item); err2 != nil {
			return nil, fmt.Errorf("failed to parse generated question: %w", err)
		}
	}

	if item.QuestionText == "" {
		return nil, errors.New("generated question has no stem")
	}
	if len(item.Options) != len(choiceLabels) {
		return nil, fmt.Errorf("generated question has %d options, want %d", len(item.Options), len(choiceLabels))
	}
	return &item, nil
}

// correctChoiceIndex maps the model's correctOptionText back onto an
// option index: exact normalized match first, then substring match, then
// index 0 so the question is still scorable.
func correctChoiceIndex(item *generatedItem) int {
	want := normalizeChoice(item.CorrectOptionText)
	for i, opt := range item.Options {
		if normalizeChoice(opt) == want {
			return i
		}
	}
	if want != "" {
		for i, opt := range item.Options {
			got := normalizeChoice(opt)
			if got != "" && (strings.Contains(got, want) || strings.Contains(want, got)) {
				return i
			}
		}
	}
	return 0
}

// normalizeChoice drops LaTeX delimiters and whitespace so cosmetic
// differences don't break the correct-answer mapping.
func normalizeChoice(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '$' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// repairInvalidEscapes doubles backslashes that don't start a legal JSON
// escape, a common artifact of LaTeX in model output.
func repairInvalidEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i+1 < len(runes) && validEscape(runes, i+1) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(`\\`)
	}
	return b.String()
}

func validEscape(runes []rune, i int) bool {
	switch runes[i] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if i+4 >= len(runes) {
			return false
		}
		for _, h := range runes[i+1 : i+5] {
			if !isHexDigit(h) {
				return false
			}
		}
		return true
	}
	return false
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok && string(t) != "" {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }

const itemWriterInstruction = `You are an expert item writer for a standardized-test tutoring product.
You write brand-new four-choice multiple-choice questions.
Use neutral, concise, test-appropriate style.
If any math appears, use LaTeX in $...$ only for expressions; never wrap plain English in $...$.
Return a single JSON object and nothing else.`

const promptTemplate = `SKILL:
- ID: %s
- Name: %s

TARGET DIFFICULTY: %s

TASK:
Write ONE brand-new question that tests ONLY this skill at the target
difficulty. The question must be solvable purely from the text you write.

OUTPUT FORMAT (CRITICAL):
Return a single JSON object with the following shape:

{
  "passageText": "Full passage text here (optional but recommended).",
  "questionText": "The question stem here...",
  "options": ["Choice A text", "Choice B text", "Choice C text", "Choice D text"],
  "correctOptionText": "Exact text of the correct option (matching one of the options strings)",
  "explanation": "Step-by-step explanation for why this option is correct and why others are not."
}`
