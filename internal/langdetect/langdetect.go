// Package langdetect wraps whatlanggo to accept only high-confidence
// English or Russian text, matching original_source/src/languages.rs's
// Detector usage (Eng requires confidence ~= 1.0, Rus requires
// IsReliable()).
package langdetect

import (
	"math"

	"github.com/abadojack/whatlanggo"
	"newsthreads/internal/models"
)

const confidenceEpsilon = 1e-6

// Detect returns the accepted language for body, or (LanguageUnknown,
// false) if the text is neither high-confidence English nor reliable
// Russian.
func Detect(body string) (models.Language, bool) {
	info := whatlanggo.Detect(body)

	switch info.Lang {
	case whatlanggo.Eng:
		if math.Abs(info.Confidence-1.0) <= confidenceEpsilon || info.Confidence >= 1.0 {
			return models.LanguageEn, true
		}
	case whatlanggo.Rus:
		if info.IsReliable() {
			return models.LanguageRu, true
		}
	}
	return models.LanguageUnknown, false
}
