package main

import (
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"newsthreads/internal/ingest"
	"newsthreads/internal/langdetect"
	"newsthreads/internal/models"
)

type languagesOutput struct {
	LangCode string   `json:"lang_code"`
	Articles []string `json:"articles"`
}

// runLanguages implements the `languages <dir>` subcommand (spec.md §6 CLI):
// detect each file's language and report the En/Ru splits.
func runLanguages(dir string, threads int) error {
	files, err := listHTMLFiles(dir)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	en := make([]string, 0, len(files))
	ru := make([]string, 0, len(files))

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
		mu.Lock()
		switch lang {
		case models.LanguageEn:
			en = append(en, base(path))
		case models.LanguageRu:
			ru = append(ru, base(path))
		}
		mu.Unlock()
	})

	out := []languagesOutput{
		{LangCode: "en", Articles: en},
		{LangCode: "ru", Articles: ru},
	}
	return printPretty(out)
}

func printPretty(v interface{}) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}
