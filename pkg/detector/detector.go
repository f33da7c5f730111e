// Package detector guesses the language of crawled content. The result is
// stored as the locale of imported topics and posts.
package detector

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minTextLength is the shortest text worth classifying.
const minTextLength = 20

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to languages (ISO 639-1 codes such as
// "en" or "de"). With no languages every supported language is considered,
// which loads considerably more models.
func New(languages []string) (*Detector, error) {
	var builder lingua.LanguageDetectorBuilder
	switch len(languages) {
	case 0:
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	case 1:
		return nil, fmt.Errorf("need at least two languages to choose from, got %q", languages[0])
	default:
		langs := make([]lingua.Language, 0, len(languages))
		for _, code := range languages {
			iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(code)))
			lang := lingua.GetLanguageFromIsoCode639_1(iso)
			if lang == lingua.Unknown {
				return nil, fmt.Errorf("unsupported language code %q", code)
			}
			langs = append(langs, lang)
		}
		// A short list is cheap to load up front.
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).WithPreloadedLanguageModels()
	}

	return &Detector{
		detector: builder.Build(),
	}, nil
}

// Locale returns the lowercase ISO 639-1 code of text, or "" when the text
// is too short or no language is reliably detected.
func (d *Detector) Locale(text string) string {
	text = strings.TrimSpace(text)
	if len(text) < minTextLength {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
