package main

import (
	"os"
	"sync"

	"newsthreads/internal/classify"
	"newsthreads/internal/ingest"
	"newsthreads/internal/langdetect"
	"newsthreads/internal/models"
	"newsthreads/internal/newsfilter"
)

type categoryOutput struct {
	Category string   `json:"category"`
	Articles []string `json:"articles"`
}

// runCategories implements the `categories <dir>` subcommand: language
// detect, news-filter, then classify each surviving article into one of
// the seven fixed categories.
func runCategories(dir string, threads int) error {
	files, err := listHTMLFiles(dir)
	if err != nil {
		return err
	}

	model := classify.NewTopicModel()
	var mu sync.Mutex
	byCategory := make(map[models.Category][]string, len(models.AllCategories))

	forEachFile(files, threads, func(path string) {
		html, err := os.ReadFile(path)
		if err != nil {
			return
		}
		doc, err := ingest.ParseHTML(html)
		if err != nil {
			return
		}
		lang, ok := langdetect.Detect(doc.Body)
		if !ok {
			return
		}
		if !newsfilter.IsNews(lang, doc.Title, doc.URL) {
			return
		}
		cat, _ := classify.Classify(model, lang, doc.Title, doc.URL, doc.Body)
		if cat == models.CategoryUnknown {
			return
		}
		mu.Lock()
		byCategory[cat] = append(byCategory[cat], base(path))
		mu.Unlock()
	})

	out := make([]categoryOutput, 0, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		out = append(out, categoryOutput{Category: cat.String(), Articles: byCategory[cat]})
	}
	return printPretty(out)
}
