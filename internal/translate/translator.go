// Package translate provides menu and chat translation through the
// completion backend, with an in-memory result cache keyed by language
// pair and text.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Completer is the text backend translations are delegated to.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned when no backend is wired up.
var ErrNotConfigured = errors.New("translation backend is not configured")

// Result is one translation outcome. Cached marks cache hits.
type Result struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	Cached         bool   `json:"cached"`
}

// Translator caches translations for the process lifetime. Safe for
// concurrent use.
type Translator struct {
	completer Completer
	mu        sync.RWMutex
	cache     map[string]Result
}

// NewTranslator creates a translator over the given backend. A nil
// completer yields a disabled translator.
func NewTranslator(completer Completer) *Translator {
	return &Translator{
		completer: completer,
		cache:     make(map[string]Result),
	}
}

// Enabled reports whether a backend is configured.
func (t *Translator) Enabled() bool {
	return t.completer != nil
}

// Translate translates text from sourceLang to targetLang, consulting
// the cache first. Source defaults to English when empty.
func (t *Translator) Translate(ctx context.Context, text, targetLang, sourceLang string) (Result, error) {
	if !t.Enabled() {
		return Result{}, ErrNotConfigured
	}
	if sourceLang == "" {
		sourceLang = "en"
	}

	key := fmt.Sprintf("%s:%s:%s", sourceLang, targetLang, strings.ToLower(text))

	t.mu.RLock()
	cached, ok := t.cache[key]
	t.mu.RUnlock()
	if ok {
		cached.Cached = true
		return cached, nil
	}

	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Reply with only the translation, nothing else.\n\n%s",
		sourceLang, targetLang, text)

	translated, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("translate %q to %s: %w", text, targetLang, err)
	}

	result := Result{
		OriginalText:   text,
		TranslatedText: strings.TrimSpace(translated),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
	}

	t.mu.Lock()
	t.cache[key] = result
	t.mu.Unlock()

	return result, nil
}
