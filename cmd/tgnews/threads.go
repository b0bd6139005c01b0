package main

import (
	"context"
	"os"

	"newsthreads/internal/classify"
	"newsthreads/internal/cluster"
	"newsthreads/internal/config"
	"newsthreads/internal/embed"
	"newsthreads/internal/ingest"
	"newsthreads/internal/langdetect"
	"newsthreads/internal/models"
	"newsthreads/internal/newsfilter"
	"newsthreads/internal/rating"
	"newsthreads/internal/store"
	"newsthreads/pkg/logger"
)

type threadOutput struct {
	Title    string   `json:"title"`
	Articles []string `json:"articles"`
}

// runThreads implements the `threads <dir>` subcommand: classify and embed
// every surviving article, cluster each language independently over an
// ephemeral Store, then print the merged, flattened thread list.
func runThreads(dir string, threads int) error {
	files, err := listHTMLFiles(dir)
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "tgnews-threads-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Open(store.Config{Path: tmpDir, CacheMB: cfg.StoreCacheMB})
	if err != nil {
		return err
	}
	defer st.Close()

	log := logger.NewText(os.Stderr)
	model := classify.NewTopicModel()
	embedder := embed.NewEmbedder()
	ratings := rating.Empty()

	newEngine := func(lang models.Language) *cluster.Engine {
		return cluster.New(cluster.Config{
			Language:    lang,
			Store:       st,
			Model:       model,
			Embedder:    embedder,
			Ratings:     ratings,
			Logger:      log,
			DecayDiv:    cfg.DecayDiv,
			SmallCutoff: float32(cfg.ClusterSmallCut),
			LargeCutoff: float32(cfg.ClusterLargeCut),
			MaxBatch:    cfg.ClusterMaxBatch,
			MinDocs:     cfg.ClusterMinDocs,
		})
	}
	en := newEngine(models.LanguageEn)
	ru := newEngine(models.LanguageRu)

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

		article := &models.Article{
			FileName:      base(path),
			URL:           doc.URL,
			Title:         doc.Title,
			PublishedTime: doc.PublishedTime,
			Language:      lang,
			AlexaUS:       1.0,
			AlexaRU:       1.0,
			GlobalRating:  0.1,
			Body:          doc.Body,
		}
		switch lang {
		case models.LanguageEn:
			en.Add(article)
		case models.LanguageRu:
			ru.Add(article)
		}
	})

	ctx := context.Background()
	if err := en.Cluster(ctx); err != nil {
		return err
	}
	if err := ru.Cluster(ctx); err != nil {
		return err
	}

	var out []threadOutput
	for _, eng := range []*cluster.Engine{en, ru} {
		for _, cat := range models.AllCategories {
			for _, c := range eng.SnapshotCategory(cat) {
				out = append(out, threadOutput{Title: c.Title, Articles: c.Articles})
			}
		}
	}
	return printPretty(out)
}
