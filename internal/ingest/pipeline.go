package ingest

import (
	"newsthreads/internal/cluster"
	"newsthreads/internal/langdetect"
	"newsthreads/internal/lifecycle"
	"newsthreads/internal/models"
	"newsthreads/internal/newsfilter"
	"newsthreads/internal/store"
	"newsthreads/pkg/apperr"
	"newsthreads/pkg/logger"
)

// Pipeline wires the Store, readiness gate, and the two per-language
// ClusterEngines behind the Upload/Delete contract (spec.md §4.2).
type Pipeline struct {
	st        store.Store
	readiness *lifecycle.Readiness
	engines   map[models.Language]*cluster.Engine
	log       *logger.Logger
}

// New constructs a Pipeline over en/ru engines sharing st.
func New(st store.Store, readiness *lifecycle.Readiness, en, ru *cluster.Engine, log *logger.Logger) *Pipeline {
	return &Pipeline{
		st:        st,
		readiness: readiness,
		engines: map[models.Language]*cluster.Engine{
			models.LanguageEn: en,
			models.LanguageRu: ru,
		},
		log: log,
	}
}

// Upload implements spec.md §4.2's Upload(file_name, payload) contract.
func (p *Pipeline) Upload(fileName string, payload []byte) error {
	if !p.readiness.Ready() {
		return apperr.NewServiceUnavailableError("not ready: rebuild or initial clustering incomplete")
	}

	found, err := p.st.Contains([]byte(fileName))
	if err != nil {
		return apperr.NewInternalError("store lookup failed", err)
	}
	if found {
		return apperr.NewNoContentError("duplicate file name")
	}

	doc, err := parseHTML(payload)
	if err != nil {
		return err // already an *apperr.AppError from parseHTML
	}

	lang, ok := langdetect.Detect(doc.body)
	if !ok {
		return apperr.NewNoContentError("unsupported or low-confidence language")
	}

	if !newsfilter.IsNews(lang, doc.title, doc.url) {
		return apperr.NewNoContentError("not news")
	}

	article := &models.Article{
		FileName:      fileName,
		URL:           doc.url,
		Title:         doc.title,
		PublishedTime: doc.publishedTime,
		Language:      lang,
		AlexaUS:       1.0,
		AlexaRU:       1.0,
		GlobalRating:  0.1,
		Body:          doc.body,
	}

	engine := p.engines[lang]
	go engine.Add(article)

	return nil
}

// Delete implements spec.md §4.2's Delete(file_name) contract. It does not
// synchronously remove the article from any in-memory cluster — the next
// Recluster reflects the deletion (spec.md §4.2, §4.7).
func (p *Pipeline) Delete(fileName string) error {
	if !p.readiness.Ready() {
		return apperr.NewServiceUnavailableError("not ready: rebuild or initial clustering incomplete")
	}

	found, err := p.st.Delete([]byte(fileName))
	if err != nil {
		return apperr.NewInternalError("store delete failed", err)
	}
	if !found {
		return apperr.NewNotFoundError("no such file")
	}
	return nil
}
