// Package translit rewrites search text into the script roll data is stored
// in, so that "ramesh" can find "રમેશ".
//
// An Adapter tries its providers in order and falls back to the typed text
// when none succeeds. It never returns an error: a search with an
// untranslated query still runs, and callers show Notice to the user.
package translit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Notice is shown when no provider could be initialized.
const Notice = "Translation unavailable. Using typed text for search."

// ErrEmptyTranslation is returned by providers that answer with no text.
var ErrEmptyTranslation = errors.New("empty translation")

// Provider translates text into targetLang (an ISO 639-1 code).
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Script is a target script identified by a single Unicode block.
type Script struct {
	Lang  string // provider language code
	First rune
	Last  rune
}

// Gujarati is the default target script.
var Gujarati = Script{Lang: "gu", First: 0x0A80, Last: 0x0AFF}

// Contains reports whether any rune of text lies in the script's block.
// Mixed text such as "રમેશ 12" counts as already in the script.
func (s Script) Contains(text string) bool {
	for _, r := range text {
		if r >= s.First && r <= s.Last {
			return true
		}
	}
	return false
}

// Source tells where a normalized text came from.
type Source int

const (
	SourceEmpty     Source = iota // input was blank
	SourceNative                  // input already in the target script
	SourcePrimary                 // translated by the first provider
	SourceSecondary               // translated by a later provider
	SourceLiteral                 // every provider failed; input as typed
)

func (s Source) String() string {
	switch s {
	case SourceEmpty:
		return "empty"
	case SourceNative:
		return "native"
	case SourcePrimary:
		return "primary"
	case SourceSecondary:
		return "secondary"
	case SourceLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Result is a normalized text with its origin.
type Result struct {
	Text   string `json:"text"`
	Source Source `json:"-"`
}

// Adapter normalizes query text into one target script. Create one per
// process and share it; it is safe for concurrent use.
type Adapter struct {
	script    Script
	providers []*Lazy
}

// NewAdapter returns an adapter trying providers in the given order.
// Providers are built on first use.
func NewAdapter(script Script, providers ...*Lazy) *Adapter {
	return &Adapter{script: script, providers: providers}
}

// Normalize returns text in the target script, or text trimmed when it
// cannot be translated.
func (a *Adapter) Normalize(ctx context.Context, text string) string {
	return a.NormalizeResult(ctx, text).Text
}

// NormalizeResult is Normalize with the source of the returned text.
func (a *Adapter) NormalizeResult(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Source: SourceEmpty}
	}
	if a.script.Contains(text) {
		return Result{Text: text, Source: SourceNative}
	}

	for i, lazy := range a.providers {
		p, err := lazy.Get()
		if err != nil {
			// Already logged once by Lazy.
			continue
		}
		out, err := p.Translate(ctx, text, a.script.Lang)
		if err == nil {
			out = strings.TrimSpace(out)
			// A blank result would drop the name filter and match every row.
			if out == "" {
				err = ErrEmptyTranslation
			}
		}
		if err != nil {
			slog.WarnContext(ctx, "translation failed",
				"provider", p.Name(),
				"error", err,
			)
			continue
		}

		src := SourceSecondary
		if i == 0 {
			src = SourcePrimary
		}
		return Result{Text: out, Source: src}
	}

	return Result{Text: text, Source: SourceLiteral}
}

// Available reports whether at least one provider is usable. It builds
// providers that have not been built yet.
func (a *Adapter) Available() bool {
	if a == nil {
		return false
	}
	for _, lazy := range a.providers {
		if _, err := lazy.Get(); err == nil {
			return true
		}
	}
	return false
}

// Notice returns the degraded-capability message, or "" when translation
// is available.
func (a *Adapter) Notice() string {
	if a.Available() {
		return ""
	}
	return Notice
}
