package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsthreads/internal/classify"
	"newsthreads/internal/embed"
	"newsthreads/internal/models"
	"newsthreads/internal/rating"
	"newsthreads/internal/store"
	"newsthreads/pkg/logger"
)

func newTestEngine(t *testing.T) (*Engine, store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{Path: t.TempDir(), CacheMB: 16})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	e := New(Config{
		Language:    models.LanguageEn,
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
	return e, st
}

func techArticle(fileName, title string, publishedTime int64) *models.Article {
	return &models.Article{
		FileName:      fileName,
		URL:           "https://example.com/technology/" + fileName,
		Title:         title,
		PublishedTime: publishedTime,
		Language:      models.LanguageEn,
		AlexaUS:       1.0,
		AlexaRU:       1.0,
		GlobalRating:  0.1,
	}
}

func TestEngineAddPersistsAndEnqueues(t *testing.T) {
	e, st := newTestEngine(t)

	a := techArticle("a.html", "Tech giants announce record profits this year", 1000)
	e.Add(a)

	assert.Equal(t, 1, e.InboxLen(models.CategoryTechnology))

	found, err := st.Contains([]byte("a.html"))
	require.NoError(t, err)
	assert.True(t, found)

	ttl, err := st.TTL()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), ttl)
}

func TestEngineClusterBuildsClusteredView(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Add(techArticle("a.html", "Tech giants announce record profits this year", 1000))
	e.Add(techArticle("b.html", "Tech giants announce record profits again", 1001))

	require.NoError(t, e.Cluster(context.Background()))

	// Cluster recomputes from the full accumulated inbox rather than
	// draining it, so the inbox count survives a Recluster pass; only
	// Flush clears it.
	assert.Equal(t, 2, e.InboxLen(models.CategoryTechnology))
	assert.Equal(t, 2, e.ClusteredLen(models.CategoryTechnology))
}

func TestEngineReclusterMergesLaterArrivalWithEarlier(t *testing.T) {
	e, _ := newTestEngine(t)

	e.Add(techArticle("a.html", "Tech giants announce record profits this year", 1000))
	require.NoError(t, e.Cluster(context.Background()))
	assert.Equal(t, 1, e.ClusteredLen(models.CategoryTechnology))

	// A near-duplicate arrives after the first Recluster pass. Because the
	// second Cluster() call must recompute from the whole accumulated inbox
	// (not just the new arrival), it merges with the earlier article into a
	// single cluster instead of appending a stale, isolated duplicate.
	e.Add(techArticle("b.html", "Tech giants announce record profits again", 1001))
	require.NoError(t, e.Cluster(context.Background()))

	categoryClusters := e.SnapshotCategory(models.CategoryTechnology)
	require.Len(t, categoryClusters, 1)
	assert.ElementsMatch(t, []string{"a.html", "b.html"}, categoryClusters[0].Articles)
	assert.Equal(t, 2, e.ClusteredLen(models.CategoryTechnology))
}

func TestEngineFlushClearsEverything(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Add(techArticle("a.html", "Tech giants announce record profits this year", 1000))
	require.NoError(t, e.Cluster(context.Background()))

	e.Flush()

	assert.Equal(t, 0, e.InboxLen(models.CategoryTechnology))
	assert.Equal(t, 0, e.ClusteredLen(models.CategoryTechnology))
	assert.Empty(t, e.SnapshotAll())
}

func TestEngineDropsNonNews(t *testing.T) {
	e, st := newTestEngine(t)
	a := techArticle("sale.html", "Amazon Black Friday sale starts now", 1000)
	e.Add(a)

	assert.Equal(t, 0, e.InboxLen(models.CategoryTechnology))
	found, err := st.Contains([]byte("sale.html"))
	require.NoError(t, err)
	assert.False(t, found)
}
