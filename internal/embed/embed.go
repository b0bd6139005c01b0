// Package embed turns a cleaned title into a fixed-dimension vector for
// clustering. Training a real embedding model is out of scope (spec.md §1
// Non-goals); Embedder is a deterministic, swappable stand-in — see
// DESIGN.md for the Open Question resolution.
package embed

import (
	"hash/fnv"
	"math"
	"strings"
)

// Dim is the fixed embedding width used throughout the clustering engine.
const Dim = 100

// Embedder computes a feature-hashed bag-of-words vector, L2-normalized so
// cosine similarity behaves like a correlation.
type Embedder struct {
	dim int
}

// NewEmbedder returns an Embedder with the package's fixed dimension.
func NewEmbedder() *Embedder {
	return &Embedder{dim: Dim}
}

// Embed hashes each whitespace-separated token of cleanedTitle into a
// bucket of the output vector (sign determined by a second hash, the
// "hashing trick"), then L2-normalizes the result.
func (e *Embedder) Embed(cleanedTitle string) []float32 {
	vec := make([]float32, e.dim)
	tokens := strings.Fields(cleanedTitle)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		idx, sign := hashToken(tok, e.dim)
		vec[idx] += sign
	}

	normalize(vec)
	return vec
}

func hashToken(tok string, dim int) (int, float32) {
	h := fnv.New32a()
	h.Write([]byte(tok))
	bucket := h.Sum32()

	h2 := fnv.New32a()
	h2.Write([]byte(tok))
	h2.Write([]byte{0xff})
	sign := h2.Sum32()

	idx := int(bucket % uint32(dim))
	if sign%2 == 0 {
		return idx, 1
	}
	return idx, -1
}

func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine computes cosine similarity between two equal-length vectors. Both
// inputs are expected to already be L2-normalized by Embed, so Cosine
// reduces to a dot product; it still guards against zero vectors.
func Cosine(a, b []float32) float32 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
