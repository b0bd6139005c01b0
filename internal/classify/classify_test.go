package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"newsthreads/internal/models"
)

func TestClassifyURLPathHit(t *testing.T) {
	model := NewTopicModel()
	cat, acc := Classify(model, models.LanguageEn, "Markets close higher", "https://example.com/business/markets-close-higher", "short body")
	assert.Equal(t, models.CategoryEconomy, cat)
	assert.Equal(t, urlEnAccuracy, acc)
}

func TestClassifyURLPathHitRussian(t *testing.T) {
	model := NewTopicModel()
	cat, acc := Classify(model, models.LanguageRu, "Новости спорта", "https://example.com/sport/news-1", "текст")
	assert.Equal(t, models.CategorySports, cat)
	assert.Equal(t, urlRuAccuracy, acc)
}

func TestClassifyEnglishShortBodyUnknown(t *testing.T) {
	model := NewTopicModel()
	cat, _ := Classify(model, models.LanguageEn, "Some title", "https://example.com/article/1", "too short")
	assert.Equal(t, models.CategoryUnknown, cat)
}

func TestClassifyRussianShortCombinedUnknown(t *testing.T) {
	model := NewTopicModel()
	cat, _ := Classify(model, models.LanguageRu, "ab", "https://example.com/article/1", "cd")
	assert.Equal(t, models.CategoryUnknown, cat)
}

func TestClassifyEnglishLongBodyDecides(t *testing.T) {
	model := NewTopicModel()
	body := strings.Repeat("the government announced new measures today regarding the economy and markets ", 3)
	cat, acc := Classify(model, models.LanguageEn, "Government announcement", "https://example.com/article/98765", body)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
	_ = cat // category is model-dependent; only confidence bounds are asserted
}

func TestTopicModelPredictEmpty(t *testing.T) {
	model := NewTopicModel()
	cat, p := model.Predict("")
	assert.Equal(t, models.CategoryUnknown, cat)
	assert.Zero(t, p)
}
