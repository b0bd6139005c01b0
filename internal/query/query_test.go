package query

import (
	"context"
	"errors"
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

func newTestEngineForQuery(t *testing.T) (*cluster.Engine, store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{Path: t.TempDir(), CacheMB: 16})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	e := cluster.New(cluster.Config{
		Language:    models.LanguageEn,
		Store:       st,
		Model:       classify.NewTopicModel(),
		Embedder:    embed.NewEmbedder(),
		Ratings:     rating.Empty(),
		Logger:      logger.Default(),
		DecayDiv:    10_000,
		SmallCutoff: 0.3,
		LargeCutoff: 0.3,
		MaxBatch:    9000,
		MinDocs:     1,
	})
	return e, st
}

func techArticleForQuery(fileName, title string, publishedTime int64) *models.Article {
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

type fakeTTLSource struct {
	ttl uint64
	err error
}

func (f fakeTTLSource) TTL() (uint64, error) { return f.ttl, f.err }

func mkCluster(title string, files, titles []string, times []int64) cluster.Cluster {
	return cluster.Cluster{
		Title:         title,
		Decay:         0,
		ArticleTimes:  times,
		ArticleTitles: titles,
		Articles:      files,
	}
}

func TestFilterWindowZeroPeriodDropsEverything(t *testing.T) {
	c := mkCluster("rep", []string{"a", "b"}, []string{"rep", "other"}, []int64{100, 101})
	out := FilterWindow([]cluster.Cluster{c}, 1000, 0)
	assert.Empty(t, out)
}

func TestFilterWindowKeepsRepresentativeWhenItSurvives(t *testing.T) {
	c := mkCluster("rep", []string{"a", "b"}, []string{"rep", "other"}, []int64{995, 101})
	out := FilterWindow([]cluster.Cluster{c}, 1000, 10)
	require.Len(t, out, 1)
	assert.Equal(t, "rep", out[0].Title)
	assert.Equal(t, []string{"a"}, out[0].Articles)
}

func TestFilterWindowRebuildsRepresentativeWhenFilteredOut(t *testing.T) {
	// "rep" is stale (age 900 >= period 10) and drops out; "near" and "far"
	// survive. "near" must become the new representative by construction
	// order (it was already second, ordered by Levenshtein distance to the
	// original representative), and the remaining tail re-sorts by distance
	// to the new representative's title.
	c := mkCluster(
		"hello world",
		[]string{"rep", "near", "far"},
		[]string{"hello world", "hello worlds", "completely unrelated text"},
		[]int64{100, 995, 994},
	)
	out := FilterWindow([]cluster.Cluster{c}, 1000, 10)
	require.Len(t, out, 1)
	assert.Equal(t, "hello worlds", out[0].Title)
	assert.Equal(t, []string{"near", "far"}, out[0].Articles)
	assert.Equal(t, []string{"hello worlds", "completely unrelated text"}, out[0].ArticleTitles)
}

func TestFilterWindowSingleSurvivorKeepsOwnTitle(t *testing.T) {
	c := mkCluster(
		"rep",
		[]string{"a", "b"},
		[]string{"rep", "other"},
		[]int64{100, 995},
	)
	out := FilterWindow([]cluster.Cluster{c}, 1000, 10)
	require.Len(t, out, 1)
	assert.Equal(t, "other", out[0].Title)
	assert.Equal(t, []string{"b"}, out[0].Articles)
	assert.Equal(t, []string{"other"}, out[0].ArticleTitles)
}

func TestFilterWindowAllPreservesCategoryAndEmbedding(t *testing.T) {
	c := cluster.AllArticlesCluster{
		Title:         "rep",
		Category:      models.CategoryTechnology,
		ArticleTimes:  []int64{995, 994},
		ArticleTitles: []string{"rep", "other"},
		Articles:      []string{"a", "b"},
		Embedding:     []float32{1, 2, 3},
	}
	out := FilterWindowAll([]cluster.AllArticlesCluster{c}, 1000, 10)
	require.Len(t, out, 1)
	assert.Equal(t, models.CategoryTechnology, out[0].Category)
	assert.Equal(t, []float32{1, 2, 3}, out[0].Embedding)
}

func TestResolveTTLFallsBackToNowWhenUnset(t *testing.T) {
	ttl, err := resolveTTL(fakeTTLSource{ttl: 0}, 4242)
	require.NoError(t, err)
	assert.Equal(t, uint64(4242), ttl)
}

func TestResolveTTLPropagatesStoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := resolveTTL(fakeTTLSource{err: boom}, 4242)
	assert.ErrorIs(t, err, boom)
}

func TestTopAllSortsByMemberCountDescending(t *testing.T) {
	e, st := newTestEngineForQuery(t)

	// Three near-paraphrase titles merge into one cluster; the unrelated
	// singleton stays on its own, giving a size-3 cluster and a size-1
	// cluster to sort.
	e.Add(techArticleForQuery("a.html", "senate passes budget bill today", 995))
	e.Add(techArticleForQuery("b.html", "senate passes the budget bill", 994))
	e.Add(techArticleForQuery("c.html", "senate passes budget bill again", 993))
	e.Add(techArticleForQuery("d.html", "weather forecast calls for rain", 992))

	require.NoError(t, e.Cluster(context.Background()))

	ttl, err := st.TTL()
	require.NoError(t, err)

	out, err := TopAll(e, st, 10_000_000, ttl)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0].Articles, 3)
	assert.Len(t, out[1].Articles, 1)
}

func TestTopByCategoryForceReclusters(t *testing.T) {
	e, st := newTestEngineForQuery(t)
	a := &models.Article{
		FileName:      "a.html",
		URL:           "https://example.com/technology/a.html",
		Title:         "Tech giants announce record profits this year",
		PublishedTime: 1000,
		Language:      models.LanguageEn,
		AlexaUS:       1.0,
		GlobalRating:  0.1,
	}
	e.Add(a)

	out, err := TopByCategory(context.Background(), e, st, models.CategoryTechnology, 10_000_000, 1000)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"a.html"}, out[0].Articles)
}
