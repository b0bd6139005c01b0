package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"newsthreads/internal/models"
)

func TestFindMissingHostReturnsDefaults(t *testing.T) {
	l := Empty()
	alexa, global := l.Find("https://unknown.example.com/a", "us")
	assert.Equal(t, 1.0, alexa)
	assert.Equal(t, 0.1, global)
}

func TestFindStripsWWWAndUsesCountry(t *testing.T) {
	l := &Lookup{byHost: map[string]models.RatingEntry{
		"example.com": {Host: "example.com", Global: 42, Country: map[string]float64{"us": 3.5, "ru": 7.1}},
	}}
	alexa, global := l.Find("https://www.example.com/news/1", "ru")
	assert.Equal(t, 7.1, alexa)
	assert.Equal(t, 42.0, global)
}
