package embed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbedDimension(t *testing.T) {
	e := NewEmbedder()
	v := e.Embed("markets rally after fed decision")
	assert.Len(t, v, Dim)
}

func TestEmbedIdenticalTitlesIdentical(t *testing.T) {
	e := NewEmbedder()
	a := e.Embed("markets rally today")
	b := e.Embed("markets rally today")
	assert.Equal(t, a, b)
}

func TestCosineIdenticalIsOne(t *testing.T) {
	e := NewEmbedder()
	v := e.Embed("a stable reference title for cosine")
	sim := Cosine(v, v)
	assert.InDelta(t, 1.0, sim, 1e-4)
}

func TestCosineEmptyVectorIsZero(t *testing.T) {
	a := make([]float32, Dim)
	b := make([]float32, Dim)
	assert.Equal(t, float32(0), Cosine(a, b))
}
