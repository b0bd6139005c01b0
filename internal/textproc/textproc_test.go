package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"kitten", "", 6},
		{"", "sitting", 7},
		{"kitten", "sitting", 3},
		{"флаг", "флаги", 1},
		{"same", "same", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LevenshteinDistance(c.a, c.b), "%q vs %q", c.a, c.b)
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	assert.Equal(t, LevenshteinDistance("abcdef", "azced"), LevenshteinDistance("azced", "abcdef"))
}

func TestClean(t *testing.T) {
	out := Clean("Breaking: The Markets, Rally!! After the Fed's Big Announcement...\n\n", false)
	assert.NotContains(t, out, "the")
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, "markets")
	assert.Contains(t, out, "rally")
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	out := Clean("hello     world", false)
	assert.Equal(t, "hello world", out)
}

func TestCleanStem(t *testing.T) {
	out := Clean("running runner runs", true)
	assert.NotContains(t, out, "running")
}
