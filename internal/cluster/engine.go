package cluster

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newsthreads/internal/classify"
	"newsthreads/internal/codec"
	"newsthreads/internal/embed"
	"newsthreads/internal/models"
	"newsthreads/internal/newsfilter"
	"newsthreads/internal/rating"
	"newsthreads/internal/store"
	"newsthreads/internal/textproc"
	"newsthreads/pkg/logger"
)

// cutoff per category, spec.md §4.4.1.
func cutoffFor(cat models.Category, small, large float32) float32 {
	switch cat {
	case models.CategorySociety, models.CategoryOther:
		return large
	default:
		return small
	}
}

// Engine is the per-language clustering engine: an inbox partitioned by
// category and a clustered view with the same seven lists plus an "all"
// list, guarded by a single reader-writer lock (spec.md §5).
type Engine struct {
	lang models.Language

	st       store.Store
	model    *classify.TopicModel
	embedder *embed.Embedder
	ratings  *rating.Lookup
	log      *logger.Logger

	decayDiv    float64
	smallCutoff float32
	largeCutoff float32
	maxBatch    int
	minDocs     int

	mu        sync.RWMutex
	inbox     *ClusterInbox
	clustered map[models.Category][]Cluster
	all       []AllArticlesCluster
	modified  bool
}

// Config collects an Engine's tunables, sourced from internal/config.
type Config struct {
	Language    models.Language
	Store       store.Store
	Model       *classify.TopicModel
	Embedder    *embed.Embedder
	Ratings     *rating.Lookup
	Logger      *logger.Logger
	DecayDiv    float64
	SmallCutoff float32
	LargeCutoff float32
	MaxBatch    int
	MinDocs     int
}

// New constructs an Engine with empty inbox and clustered views.
func New(cfg Config) *Engine {
	return &Engine{
		lang:        cfg.Language,
		st:          cfg.Store,
		model:       cfg.Model,
		embedder:    cfg.Embedder,
		ratings:     cfg.Ratings,
		log:         cfg.Logger,
		decayDiv:    cfg.DecayDiv,
		smallCutoff: cfg.SmallCutoff,
		largeCutoff: cfg.LargeCutoff,
		maxBatch:    cfg.MaxBatch,
		minDocs:     cfg.MinDocs,
		inbox:       newClusterInbox(),
		clustered:   make(map[models.Category][]Cluster),
	}
}

// Add implements the per-article clustering-enqueue path, spec.md §4.4.
// Classification happens here, pre-persist: an Unknown category means the
// article is dropped before it ever reaches Store, which is what keeps the
// "every persisted record has category != Unknown" invariant (spec.md §3)
// true without a second cleanup pass. See DESIGN.md for this Open Question
// resolution.
func (e *Engine) Add(a *models.Article) {
	if !newsfilter.IsNews(a.Language, a.Title, a.URL) {
		e.log.Warn("dropped non-news article reaching cluster enqueue", "file_name", a.FileName)
		return
	}

	cat, acc := classify.Classify(e.model, a.Language, a.Title, a.URL, a.Body)
	if cat == models.CategoryUnknown {
		e.log.Warn("dropped article with unknown category", "file_name", a.FileName)
		return
	}
	a.Category = cat
	a.Accuracy = acc

	countryCode := "us"
	if a.Language == models.LanguageRu {
		countryCode = "ru"
	}
	alexa, global := e.ratings.Find(a.URL, countryCode)
	if a.Language == models.LanguageRu {
		a.AlexaRU = alexa
	} else {
		a.AlexaUS = alexa
	}
	a.GlobalRating = global

	cleaned := textproc.Clean(a.Title, a.Language == models.LanguageEn)
	vec := e.embedder.Embed(cleaned)

	single := SingleArticle{
		FileName:  a.FileName,
		Title:     a.Title,
		Category:  cat,
		Decay:     a.Decay(time.Now().Unix(), e.decayDiv),
		Time:      a.PublishedTime,
		Embedding: vec,
	}

	e.mu.Lock()
	e.inbox.add(single)
	e.modified = true
	e.mu.Unlock()

	if err := e.persist(a); err != nil {
		e.log.Error("failed to persist article", "file_name", a.FileName, "error", err)
	}
}

// Rehydrate re-enqueues an already-classified, already-persisted Article
// into the inbox without re-running the news filter, classifier, or persist
// step. Used by the Rebuild lifecycle task to replay Store's contents into
// a freshly flushed Engine (spec.md §4.1 Rebuild): every record reaching
// Store was classified once at ingest time and never needs it again.
func (e *Engine) Rehydrate(a *models.Article) {
	cleaned := textproc.Clean(a.Title, a.Language == models.LanguageEn)
	vec := e.embedder.Embed(cleaned)

	single := SingleArticle{
		FileName:  a.FileName,
		Title:     a.Title,
		Category:  a.Category,
		Decay:     a.Decay(time.Now().Unix(), e.decayDiv),
		Time:      a.PublishedTime,
		Embedding: vec,
	}

	e.mu.Lock()
	e.inbox.add(single)
	e.modified = true
	e.mu.Unlock()
}

func (e *Engine) persist(a *models.Article) error {
	rec := a.ToRecord()
	buf := codec.EncodeArticle(nil, rec)
	if err := e.st.Put([]byte(a.FileName), buf); err != nil {
		return err
	}
	return e.st.BumpTTL(uint64(a.PublishedTime))
}

// Cluster runs a full reclustering pass: every category is recomputed from
// its full accumulated inbox (a snapshot, never drained — only Flush clears
// it) and the existing clustered view is replaced wholesale with the fresh
// result (spec.md §4.4, "Cluster: created/replaced wholesale by each
// Recluster pass; never mutated in place"). Recomputing from the whole
// accumulated pool each pass, rather than just the arrivals since the last
// pass, is what lets a later arrival merge with an earlier near-duplicate
// on a subsequent force-recluster.
func (e *Engine) Cluster(ctx context.Context) error {
	e.mu.Lock()
	if !e.modified {
		e.mu.Unlock()
		return nil
	}
	docs := make(map[models.Category][]SingleArticle, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		docs[cat] = e.inbox.snapshot(cat)
	}
	e.modified = false
	e.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	results := make(map[models.Category][]Cluster, len(models.AllCategories))
	allResults := make(map[models.Category][]AllArticlesCluster, len(models.AllCategories))
	var resultsMu sync.Mutex

	for _, cat := range models.AllCategories {
		cat := cat
		catDocs := docs[cat]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			clusters, all := e.clusterCategory(cat, catDocs)
			resultsMu.Lock()
			results[cat] = clusters
			allResults[cat] = all
			resultsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	e.mu.Lock()
	clustered := make(map[models.Category][]Cluster, len(models.AllCategories))
	var all []AllArticlesCluster
	for _, cat := range models.AllCategories {
		clustered[cat] = results[cat]
		all = append(all, allResults[cat]...)
	}
	e.clustered = clustered
	e.all = all
	e.mu.Unlock()

	return nil
}

// clusterCategory implements spec.md §4.4's batching rule: skip if
// |D| < minDocs, run ClusterSingle directly if |D| < maxBatch, else
// partition time-sorted D into contiguous blocks of maxBatch (last block
// absorbs the remainder) and run each block in parallel.
func (e *Engine) clusterCategory(cat models.Category, docs []SingleArticle) ([]Cluster, []AllArticlesCluster) {
	if len(docs) < e.minDocs {
		return nil, nil
	}

	tau := cutoffFor(cat, e.smallCutoff, e.largeCutoff)

	if len(docs) < e.maxBatch {
		return e.runBatch(docs, tau)
	}

	sorted := append([]SingleArticle(nil), docs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	var blocks [][]SingleArticle
	for start := 0; start < len(sorted); start += e.maxBatch {
		end := start + e.maxBatch
		if end > len(sorted) || len(sorted)-end < e.maxBatch {
			end = len(sorted)
		}
		blocks = append(blocks, sorted[start:end])
		if end == len(sorted) {
			break
		}
	}

	var (
		mu       sync.Mutex
		clusters []Cluster
		all      []AllArticlesCluster
		wg       sync.WaitGroup
	)
	for _, block := range blocks {
		block := block
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, a := e.runBatch(block, tau)
			mu.Lock()
			clusters = append(clusters, c...)
			all = append(all, a...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return clusters, all
}

func (e *Engine) runBatch(docs []SingleArticle, tau float32) ([]Cluster, []AllArticlesCluster) {
	groups := ClusterSingle(docs, tau)
	clusters := make([]Cluster, 0, len(groups))
	all := make([]AllArticlesCluster, 0, len(groups))
	for _, g := range groups {
		c, a := buildCluster(g)
		clusters = append(clusters, c)
		all = append(all, a)
	}
	return clusters, all
}

// SnapshotCategory returns the current clustered view for cat, safe to
// read concurrently with Add/Cluster.
func (e *Engine) SnapshotCategory(cat models.Category) []Cluster {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Cluster(nil), e.clustered[cat]...)
}

// SnapshotAll returns the current cross-category "all" view.
func (e *Engine) SnapshotAll() []AllArticlesCluster {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]AllArticlesCluster(nil), e.all...)
}

// InboxLen reports how many SingleArticles have accumulated in cat's inbox
// since the last Flush — Cluster recomputes from this full pool rather than
// draining it, so the count does not reset on every Recluster. Used by the
// Stats lifecycle task.
func (e *Engine) InboxLen(cat models.Category) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inbox.len(cat)
}

// ClusteredLen reports the current member count across cat's clusters.
func (e *Engine) ClusteredLen(cat models.Category) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, c := range e.clustered[cat] {
		n += len(c.Articles)
	}
	return n
}

// Flush clears both inbox and clustered views and the modified flag,
// matching the "after flush() ... both views are empty" invariant
// (spec.md §3). Used by Rebuild before re-enqueuing every Store record.
func (e *Engine) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inbox.clear()
	e.clustered = make(map[models.Category][]Cluster)
	e.all = nil
	e.modified = false
}

// Language reports which language this Engine serves.
func (e *Engine) Language() models.Language {
	return e.lang
}
