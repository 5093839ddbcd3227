package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"
)

// keywordEmbedder embeds text as term counts over a fixed vocabulary.
type keywordEmbedder struct {
	model string
	vocab []string
	err   error

	mu     sync.Mutex
	calls  int
	inputs []string
}

func newKeywordEmbedder(vocab ...string) *keywordEmbedder {
	return &keywordEmbedder{model: "test-embedding", vocab: vocab}
}

func (e *keywordEmbedder) ModelName() string { return e.model }

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.inputs = append(e.inputs, texts...)
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, len(e.vocab))
		for _, tok := range tokenize(t) {
			for j, w := range e.vocab {
				if tok == w {
					vec[j]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// fakeTranslator detects a fixed language and tags translations with the
// destination language unless identity is set.
type fakeTranslator struct {
	lang      string
	identity  bool
	detectErr error
	transErr  error

	mu         sync.Mutex
	detects    int
	translates []string
}

func (f *fakeTranslator) Detect(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detects++
	if f.detectErr != nil {
		return "", f.detectErr
	}
	return f.lang, nil
}

func (f *fakeTranslator) Translate(_ context.Context, text, src, dest string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.translates = append(f.translates, src+">"+dest)
	if f.transErr != nil {
		return "", f.transErr
	}
	if f.identity {
		return text, nil
	}
	return "[" + dest + "] " + text, nil
}

func (f *fakeTranslator) translateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.translates)
}

type fakeLLM struct {
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
}

func (l *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	return l.reply, l.err
}

type memCache struct {
	mu        sync.Mutex
	data      map[string][]float32
	lookupErr error
	stores    int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]float32)}
}

func (c *memCache) Lookup(_ context.Context, model string, keys []string) (map[string][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookupErr != nil {
		return nil, c.lookupErr
	}
	out := make(map[string][]float32)
	for _, k := range keys {
		if v, ok := c.data[model+"/"+k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (c *memCache) Store(_ context.Context, model string, vectors map[string][]float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores++
	for k, v := range vectors {
		c.data[model+"/"+k] = v
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []AskEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e AskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var errBoom = errors.New("boom")
