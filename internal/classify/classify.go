// Package classify assigns a topic Category and confidence to an article,
// ported from original_source/src/categories.rs. Model training is out of
// scope (see spec.md §1 Non-goals); TopicModel is a deterministic,
// swappable stand-in for the offline fastText classifier the reference
// implementation trains separately — see DESIGN.md for the Open Question
// resolution.
package classify

import (
	"hash/fnv"
	"net/url"
	"strings"

	"newsthreads/internal/models"
	"newsthreads/internal/textproc"
)

const (
	urlEnAccuracy = 0.95
	urlRuAccuracy = 0.90

	enThreshold = 0.45
	ruThreshold = 0.40

	enMinBodyLen   = 60
	ruMinCombinedLen = 10
)

// TopicModel scores cleaned text against the seven closed categories using
// feature-hashed bag-of-words weights. It implements the same interface a
// real trained model would: Predict returns the top category and its
// probability-like confidence in [0,1].
type TopicModel struct {
	categories []models.Category
}

// NewTopicModel returns a TopicModel over the fixed category set.
func NewTopicModel() *TopicModel {
	return &TopicModel{categories: models.AllCategories}
}

// Predict returns the highest-scoring category for text and its
// normalized confidence.
func (m *TopicModel) Predict(text string) (models.Category, float64) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return models.CategoryUnknown, 0
	}

	scores := make(map[models.Category]float64, len(m.categories))
	var total float64
	for _, cat := range m.categories {
		var s float64
		for _, tok := range tokens {
			s += tokenWeight(cat, tok)
		}
		// exponentiate so weights behave like unnormalized log-probabilities
		s = expApprox(s / float64(len(tokens)))
		scores[cat] = s
		total += s
	}

	var best models.Category
	var bestScore float64
	for cat, s := range scores {
		if s > bestScore {
			best = cat
			bestScore = s
		}
	}
	if total == 0 {
		return models.CategoryUnknown, 0
	}
	return best, bestScore / total
}

// tokenWeight derives a stable pseudo-weight for (category, token) via
// FNV-1a hashing, in [-0.5, 0.5). Deterministic across runs so the same
// input always classifies the same way.
func tokenWeight(cat models.Category, tok string) float64 {
	h := fnv.New32a()
	h.Write([]byte{byte(cat)})
	h.Write([]byte(tok))
	v := h.Sum32()
	return float64(v%1000)/1000.0 - 0.5
}

// expApprox is a cheap non-negative transform avoiding a math.Exp
// dependency for what is already an approximate stand-in score. It is
// monotonic for x >= -8; Predict only passes averages of tokenWeight values,
// which lie in [-0.5, 0.5).
func expApprox(x float64) float64 {
	if x < -10 {
		x = -10
	}
	// (1 + x/n)^n approaches e^x as n grows; n=8 stays close to e^x only
	// for small |x|.
	v := 1 + x/8
	for i := 0; i < 3; i++ {
		v *= v
	}
	if v < 0 {
		return 0
	}
	return v
}

// Classify implements the full decision in spec.md §4.3: URL-path hit
// first, else the topic model with per-language thresholds and minimum
// body length gates.
func Classify(model *TopicModel, lang models.Language, title, rawURL, body string) (models.Category, float64) {
	if u, err := url.Parse(rawURL); err == nil {
		if cat, ok := classifyURL(u.Path); ok {
			if lang == models.LanguageRu {
				return cat, urlRuAccuracy
			}
			return cat, urlEnAccuracy
		}
	}

	if lang == models.LanguageRu {
		combined := title + body
		if len(combined) < ruMinCombinedLen {
			return models.CategoryUnknown, 0
		}
		cat, p := model.Predict(title + " " + body)
		if p <= ruThreshold {
			return models.CategoryUnknown, p
		}
		return cat, p
	}

	cleaned := textproc.Clean(body, true)
	if len(cleaned) < enMinBodyLen {
		return models.CategoryUnknown, 0
	}
	cat, p := model.Predict(textproc.Clean(title, true) + " " + cleaned)
	if p <= enThreshold {
		return models.CategoryUnknown, p
	}
	return cat, p
}
