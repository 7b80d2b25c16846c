package web

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Candidate languages for detection. A fixed subset keeps the language
// models small; text outside the set scores low confidence.
var detectorLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Polish,
	lingua.Russian,
	lingua.Ukrainian,
}

// langSampleRunes bounds how much text feeds the detector. A few
// paragraphs decide the language as well as the whole article does.
const langSampleRunes = 2000

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectorLanguages...).
			Build()
	})
	return detector
}

// detectLanguage returns the lowercase ISO 639-1 code of the dominant
// language and a confidence in [0,1]. Both are zero values when the
// detector cannot decide.
func detectLanguage(text string) (string, float64) {
	if runes := []rune(text); len(runes) > langSampleRunes {
		text = string(runes[:langSampleRunes])
	}

	d := languageDetector()
	lang, ok := d.DetectLanguageOf(text)
	if !ok {
		return "", 0
	}

	confidence := d.ComputeLanguageConfidence(text, lang)
	return strings.ToLower(lang.IsoCode639_1().String()), confidence
}
