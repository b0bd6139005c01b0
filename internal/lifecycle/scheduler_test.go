package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsthreads/internal/classify"
	"newsthreads/internal/cluster"
	"newsthreads/internal/embed"
	"newsthreads/internal/models"
	"newsthreads/internal/rating"
	"newsthreads/internal/store"
	"newsthreads/pkg/logger"
)

func newTestScheduler(t *testing.T) (*Scheduler, store.Store) {
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

	s := NewScheduler(Config{
		Store:                st,
		En:                   newEngine(models.LanguageEn),
		Ru:                   newEngine(models.LanguageRu),
		Log:                  logger.Default(),
		DecayDiv:             10_000,
		StaleDecay:           5.0,
		EvictLen:             1,
		RebuildIntervalSec:   600,
		ReclusterIntervalSec: 600,
		EvictIntervalSec:     600,
		FlushIntervalSec:     300,
		StatsIntervalSec:     60,
	})
	return s, st
}

func TestRebuildAndReclusterMarksReadiness(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.en.Add(&models.Article{
		FileName:      "a.html",
		URL:           "https://example.com/technology/a.html",
		Title:         "Tech giants announce record profits this year",
		PublishedTime: 1000,
		Language:      models.LanguageEn,
		AlexaUS:       1.0,
		GlobalRating:  0.1,
	})

	s.rebuildAndRecluster(context.Background())

	assert.True(t, s.readiness.RebuildDone())
	assert.True(t, s.readiness.ClusterDone(models.LanguageEn))
	assert.True(t, s.readiness.ClusterDone(models.LanguageRu))
	assert.True(t, s.readiness.Ready())
	assert.Equal(t, 1, s.en.ClusteredLen(models.CategoryTechnology))
}

func TestRebuildSkipsTTLKey(t *testing.T) {
	s, st := newTestScheduler(t)
	require.NoError(t, st.BumpTTL(12345))

	s.rebuildAndRecluster(context.Background())

	assert.True(t, s.readiness.RebuildDone())
}

func TestEvictStaleRemovesRecordsPastStaleDecay(t *testing.T) {
	s, st := newTestScheduler(t)
	s.en.Add(&models.Article{
		FileName:      "old.html",
		URL:           "https://example.com/technology/old.html",
		Title:         "Tech giants announce record profits this year",
		PublishedTime: 1, // very old relative to now: guaranteed stale decay
		Language:      models.LanguageEn,
		AlexaUS:       1.0,
		GlobalRating:  0.1,
	})

	found, err := st.Contains([]byte("old.html"))
	require.NoError(t, err)
	require.True(t, found)

	s.evictStale()

	found, err = st.Contains([]byte("old.html"))
	require.NoError(t, err)
	assert.False(t, found, "record published in 1970 should be well past the stale-decay threshold")
}

func TestEvictStaleNoOpBelowThreshold(t *testing.T) {
	s, st := newTestScheduler(t)
	s.evictLen = 1_000_000 // never reached by this test's single record
	s.en.Add(&models.Article{
		FileName:      "old.html",
		URL:           "https://example.com/technology/old.html",
		Title:         "Tech giants announce record profits this year",
		PublishedTime: 1,
		Language:      models.LanguageEn,
		AlexaUS:       1.0,
		GlobalRating:  0.1,
	})

	s.evictStale()

	found, err := st.Contains([]byte("old.html"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFlushStoreDoesNotPanic(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.flushStore()
}

func TestLogStatsDoesNotPanic(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.logStats()
}
