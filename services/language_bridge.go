package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"agrigpt/models"
)

// Translator is a hosted language detection and translation service.
type Translator interface {
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, src, dest string) (string, error)
}

// LanguageBridge moves questions into the working language and answers back
// out of it. Text already in the working language is never sent for translation.
type LanguageBridge struct {
	translator Translator
	working    string
}

func NewLanguageBridge(translator Translator, working string) *LanguageBridge {
	if working == "" {
		working = "en"
	}
	return &LanguageBridge{translator: translator, working: working}
}

// WorkingLanguage returns the language retrieval and generation run in.
func (b *LanguageBridge) WorkingLanguage() string {
	return b.working
}

// IsWorking reports whether lang names the working language. Undetermined
// languages count as the working language.
func (b *LanguageBridge) IsWorking(lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" || strings.EqualFold(lang, "und") {
		return true
	}
	return sameBase(lang, b.working)
}

// ToWorking detects the language of raw and translates it into the working
// language when needed.
func (b *LanguageBridge) ToWorking(ctx context.Context, raw string) (models.Query, error) {
	detected, err := b.translator.Detect(ctx, raw)
	if err != nil {
		return models.Query{}, fmt.Errorf("%w: detect language: %w", ErrTranslation, err)
	}

	q := models.Query{RawText: raw, Text: raw, Language: detected}
	if b.IsWorking(detected) {
		q.Language = b.working
		return q, nil
	}

	text, err := b.translator.Translate(ctx, raw, detected, b.working)
	if err != nil {
		return models.Query{}, fmt.Errorf("%w: %s to %s: %w", ErrTranslation, detected, b.working, err)
	}
	q.Text = text
	q.Translated = true
	slog.Debug("translated question", "from", detected, "to", b.working, "text", truncate(text, 200))
	return q, nil
}

// FromWorking translates a working-language answer into lang.
func (b *LanguageBridge) FromWorking(ctx context.Context, text, lang string) (models.Answer, error) {
	if b.IsWorking(lang) {
		return models.Answer{Text: text, Language: b.working}, nil
	}

	out, err := b.translator.Translate(ctx, text, b.working, lang)
	if err != nil {
		return models.Answer{}, fmt.Errorf("%w: %s to %s: %w", ErrTranslation, b.working, lang, err)
	}
	slog.Debug("translated answer", "to", lang, "text", truncate(out, 200))
	return models.Answer{Text: out, Language: lang}, nil
}

func sameBase(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	ba, _ := ta.Base()
	bb, _ := tb.Base()
	return ba == bb
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
