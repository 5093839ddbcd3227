package services

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

// GoogleTranslator implements Translator on the Cloud Translation v2 REST API.
type GoogleTranslator struct {
	svc *translate.Service
}

var _ Translator = (*GoogleTranslator)(nil)

// NewGoogleTranslator authenticates with an API key. endpoint overrides the
// API base URL and is normally empty.
func NewGoogleTranslator(ctx context.Context, apiKey, endpoint string) (*GoogleTranslator, error) {
	if apiKey == "" {
		return nil, errors.New("translate: API key is required")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("translate: create service: %w", err)
	}
	return &GoogleTranslator{svc: svc}, nil
}

// Detect returns the most confident language code for text, or "und" when the
// service has no opinion.
func (g *GoogleTranslator) Detect(ctx context.Context, text string) (string, error) {
	resp, err := g.svc.Detections.List([]string{text}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("translate: detect: %w", err)
	}
	if len(resp.Detections) == 0 || len(resp.Detections[0]) == 0 {
		return "und", nil
	}

	best := resp.Detections[0][0]
	for _, d := range resp.Detections[0][1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	if best.Language == "" {
		return "und", nil
	}
	return best.Language, nil
}

// Translate translates plain text from src to dest. An empty src lets the
// service detect the source language.
func (g *GoogleTranslator) Translate(ctx context.Context, text, src, dest string) (string, error) {
	call := g.svc.Translations.List([]string{text}, dest).Format("text").Context(ctx)
	if src != "" {
		call = call.Source(src)
	}
	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", errors.New("translate: no translation returned")
	}
	return resp.Translations[0].TranslatedText, nil
}
