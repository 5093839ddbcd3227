package services

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

// LLM is a hosted text generation model.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackAnswer replaces an empty model response.
const FallbackAnswer = "I'm not sure, but you can ask about farming techniques, soil health, or crop management."

// AnswerRules is the behaviour the model is instructed to follow.
const AnswerRules = `1. **Strictly factual for agriculture-related topics**: If the question is about **farming, crops, soil, irrigation, pesticides, fertilizers, livestock, agricultural marketing, or government schemes**, provide **precise, expert-level responses**.
2. **Allow conversational flexibility**: If the user asks a **behavioral, opinion-based, or general question** (e.g., farming experiences, personal opinions, ethical farming), respond freely with a natural, engaging, and conversational tone.
3. **Reject completely off-topic questions**: If the question is entirely **unrelated to agriculture and not behavioral**, refuse to answer politely.`

var promptTemplate = template.Must(template.New("prompt").Parse(
	`You are an expert in agriculture. Your responses should follow these rules:

{{.Rules}}

**User's Question:** {{.Question}}
**Relevant Context from Documents:**
{{.Context}}
`))

type promptData struct {
	Rules    string
	Question string
	Context  string
}

// AnswerGenerator prompts the model with the question and retrieved context.
type AnswerGenerator struct {
	llm   LLM
	rules string
}

func NewAnswerGenerator(llm LLM) *AnswerGenerator {
	return &AnswerGenerator{llm: llm, rules: AnswerRules}
}

// BuildPrompt renders the instruction template.
func (g *AnswerGenerator) BuildPrompt(question, retrieved string) (string, error) {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, promptData{Rules: g.rules, Question: question, Context: retrieved}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// Generate returns the model's answer, or FallbackAnswer when the model
// returns nothing. Model failures are wrapped in ErrGeneration.
func (g *AnswerGenerator) Generate(ctx context.Context, question, retrieved string) (string, error) {
	prompt, err := g.BuildPrompt(question, retrieved)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	out, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if strings.TrimSpace(out) == "" {
		return FallbackAnswer, nil
	}
	return out, nil
}
