// Package ingest implements the Upload/Delete HTML ingestion pipeline
// (spec.md §4.2): readiness pre-gate, dedup, parse, language detection,
// news filtering, and fire-and-forget clustering enqueue.
package ingest

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsthreads/pkg/apperr"
)

// parsed holds the fields extracted from an uploaded HTML document.
type parsed struct {
	url           string
	title         string
	publishedTime int64
	body          string
}

// ParsedDocument is parsed's exported counterpart, for callers outside this
// package (the batch CLI) that need the same extraction without going
// through the Upload pipeline.
type ParsedDocument struct {
	URL           string
	Title         string
	PublishedTime int64
	Body          string
}

// ParseHTML exposes parseHTML to the batch CLI (cmd/tgnews).
func ParseHTML(html []byte) (ParsedDocument, error) {
	p, err := parseHTML(html)
	if err != nil {
		return ParsedDocument{}, err
	}
	return ParsedDocument{URL: p.url, Title: p.title, PublishedTime: p.publishedTime, Body: p.body}, nil
}

// parseHTML extracts og:url, og:title, article:published_time, and the
// concatenation of paragraph text (spec.md §4.2, §5.2 expansion), grounded
// on goquery's meta-attribute and .Each traversal idiom.
func parseHTML(html []byte) (parsed, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return parsed{}, apperr.NewUnprocessableEntityError("could not parse HTML", err)
	}

	url, ok := doc.Find(`meta[property='og:url']`).Attr("content")
	if !ok || strings.TrimSpace(url) == "" {
		return parsed{}, apperr.NewUnprocessableEntityError("missing og:url meta tag", nil)
	}

	title, ok := doc.Find(`meta[property='og:title']`).Attr("content")
	if !ok || strings.TrimSpace(title) == "" {
		return parsed{}, apperr.NewUnprocessableEntityError("missing og:title meta tag", nil)
	}

	publishedRaw, ok := doc.Find(`meta[property='article:published_time']`).Attr("content")
	if !ok || strings.TrimSpace(publishedRaw) == "" {
		return parsed{}, apperr.NewUnprocessableEntityError("missing article:published_time meta tag", nil)
	}
	publishedAt, err := time.Parse(time.RFC3339, publishedRaw)
	if err != nil {
		return parsed{}, apperr.NewUnprocessableEntityError("article:published_time is not RFC-3339", err)
	}

	var body strings.Builder
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if body.Len() > 0 {
			body.WriteString(" ")
		}
		body.WriteString(text)
	})

	return parsed{
		url:           url,
		title:         strings.TrimSpace(title),
		publishedTime: publishedAt.Unix(),
		body:          body.String(),
	}, nil
}
