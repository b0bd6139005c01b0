package main

import (
	"os"
	"sync"

	"newsthreads/internal/ingest"
	"newsthreads/internal/langdetect"
	"newsthreads/internal/newsfilter"
)

type newsOutput struct {
	Articles []string `json:"articles"`
}

// runNews implements the `news <dir>` subcommand: language detection plus
// the non-news filter, merging the En/Ru survivors into one flat list.
func runNews(dir string, threads int) error {
	files, err := listHTMLFiles(dir)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	articles := make([]string, 0, len(files))

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
		mu.Lock()
		articles = append(articles, base(path))
		mu.Unlock()
	})

	return printPretty(newsOutput{Articles: articles})
}
