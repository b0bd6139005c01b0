package textproc

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

var (
	newlineRe    = regexp.MustCompile(`[\r\n]+\s*`)
	punctRunRe   = regexp.MustCompile(`[^\w\s.]+\s*`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// englishStopWords is the baked-in stop-word set used when cleaning
// English titles/bodies before embedding or classification.
var englishStopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {},
	"all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "did": {},
	"do": {}, "does": {}, "doing": {}, "down": {}, "during": {}, "each": {},
	"few": {}, "for": {}, "from": {}, "further": {}, "had": {}, "has": {},
	"have": {}, "having": {}, "he": {}, "her": {}, "here": {}, "hers": {},
	"herself": {}, "him": {}, "himself": {}, "his": {}, "how": {}, "i": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "itself": {},
	"me": {}, "more": {}, "most": {}, "my": {}, "myself": {}, "no": {},
	"nor": {}, "not": {}, "of": {}, "off": {}, "on": {}, "once": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "ours": {}, "ourselves": {}, "out": {},
	"over": {}, "own": {}, "same": {}, "she": {}, "should": {}, "so": {},
	"some": {}, "such": {}, "than": {}, "that": {}, "the": {}, "their": {},
	"theirs": {}, "them": {}, "themselves": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "to": {},
	"too": {}, "under": {}, "until": {}, "up": {}, "very": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "why": {}, "with": {}, "would": {},
	"you": {}, "your": {}, "yours": {}, "yourself": {}, "yourselves": {},
}

// Clean lowercases text, collapses newlines, replaces punctuation runs
// (excluding '.') with a single space, drops English stop-words, optionally
// Porter-stems surviving tokens, and collapses whitespace. Grounded in
// original_source/src/utils.rs::clean.
func Clean(text string, stem bool) string {
	lowered := strings.ToLower(text)
	lowered = newlineRe.ReplaceAllString(lowered, "")
	lowered = punctRunRe.ReplaceAllString(lowered, " ")

	fields := strings.Fields(lowered)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, isStop := englishStopWords[tok]; isStop {
			continue
		}
		if stem {
			tok = english.Stem(tok, false)
		}
		out = append(out, tok)
	}

	joined := strings.Join(out, " ")
	return multiSpaceRe.ReplaceAllString(joined, " ")
}
