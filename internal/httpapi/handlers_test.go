package httpapi

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsthreads/internal/classify"
	"newsthreads/internal/cluster"
	"newsthreads/internal/embed"
	"newsthreads/internal/ingest"
	"newsthreads/internal/lifecycle"
	"newsthreads/internal/models"
	"newsthreads/internal/rating"
	"newsthreads/internal/store"
	"newsthreads/pkg/logger"
)

const validHTML = `<html><head>
<meta property="og:url" content="https://example.com/technology/gadget-launch">
<meta property="og:title" content="Tech giants announce record profits this year">
<meta property="article:published_time" content="2024-01-02T15:04:05Z">
</head><body>
<p>Tech giants reported record quarterly earnings on Tuesday, citing strong demand for cloud services.</p>
<p>Analysts said the results beat expectations across every major product line this quarter.</p>
</body></html>`

func newTestApp(t *testing.T) (*fiber.App, *lifecycle.Readiness, *cluster.Engine, store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{Path: t.TempDir(), CacheMB: 16})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	newEngine := func(lang models.Language) *cluster.Engine {
		return cluster.New(cluster.Config{
			Language:    lang,
			Store:       st,
			Model:       classify.NewTopicModel(),
			Embedder:    embed.NewEmbedder(),
			Ratings:     rating.Empty(),
			Logger:      logger.Default(),
			DecayDiv:    10_000,
			SmallCutoff: 0.9,
			LargeCutoff: 0.9,
			MaxBatch:    9000,
			MinDocs:     1,
		})
	}
	en := newEngine(models.LanguageEn)
	ru := newEngine(models.LanguageRu)

	readiness := lifecycle.NewReadiness()
	pipeline := ingest.New(st, readiness, en, ru, logger.Default())

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.Default())})
	Register(app, Deps{
		Pipeline:       pipeline,
		Readiness:      readiness,
		EngineEn:       en,
		EngineRu:       ru,
		Store:          st,
		MaxUploadBytes: 12 * 1024 * 1024,
		Log:            logger.Default(),
	})
	return app, readiness, en, st
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	rec.Body.ReadFrom(resp.Body)
	return rec
}

func TestHealthNotImplementedBeforeRebuild(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	rec := do(t, app, "GET", "/", "", nil)
	assert.Equal(t, fiber.StatusNotImplemented, rec.Code)
}

func TestHealthOKAfterRebuild(t *testing.T) {
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	rec := do(t, app, "GET", "/", "", nil)
	assert.Equal(t, fiber.StatusOK, rec.Code)
}

func TestUploadRejectsMissingCacheControl(t *testing.T) {
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	rec := do(t, app, "PUT", "/a.html", validHTML, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, rec.Code)
}

func TestUploadAcceptsValidArticle(t *testing.T) {
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	rec := do(t, app, "PUT", "/a.html", validHTML, map[string]string{"Cache-Control": "max-age=3600"})
	assert.Equal(t, fiber.StatusCreated, rec.Code)
}

func TestUploadServiceUnavailableWhenNotReady(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	rec := do(t, app, "PUT", "/a.html", validHTML, map[string]string{"Cache-Control": "max-age=3600"})
	assert.Equal(t, fiber.StatusServiceUnavailable, rec.Code)
}

func TestDeleteNotFound(t *testing.T) {
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	rec := do(t, app, "DELETE", "/missing.html", "", nil)
	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

func TestDeleteRemovesExisting(t *testing.T) {
	app, readiness, _, st := newTestApp(t)
	readiness.MarkReadyForTest()
	require.NoError(t, st.Put([]byte("a.html"), []byte("x")))

	rec := do(t, app, "DELETE", "/a.html", "", nil)
	assert.Equal(t, fiber.StatusNoContent, rec.Code)
}

func TestThreadsRejectsUnknownLangCode(t *testing.T) {
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	rec := do(t, app, "GET", "/threads?period=1000&lang_code=fr&category=any", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestThreadsRejectsUnknownCategory(t *testing.T) {
	app, readiness, _, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	rec := do(t, app, "GET", "/threads?period=1000&lang_code=en&category=weather", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestThreadsAllReturnsEnvelope(t *testing.T) {
	app, readiness, en, _ := newTestApp(t)
	readiness.MarkReadyForTest()
	en.Add(&models.Article{
		FileName:      "a.html",
		URL:           "https://example.com/technology/a.html",
		Title:         "Tech giants announce record profits this year",
		PublishedTime: 1000,
		Language:      models.LanguageEn,
		AlexaUS:       1.0,
		GlobalRating:  0.1,
	})
	require.NoError(t, en.Cluster(context.Background()))

	rec := do(t, app, "GET", "/threads?period=1000000000&lang_code=en&category=any", "", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"threads"`)
	assert.Contains(t, string(body), "Tech giants")
}

func TestThreadsServiceUnavailableWhenNotReady(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	rec := do(t, app, "GET", "/threads?period=1000&lang_code=en&category=any", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, rec.Code)
}
