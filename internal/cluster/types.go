// Package cluster implements the per-language, per-category agglomerative
// clustering engine: the single-link-like merge over title embeddings with
// a tie-break rule, batched scaling, and decay-based representative
// selection (grounded in original_source/src/server/cluster.rs).
package cluster

import "newsthreads/internal/models"

// SingleArticle is the clustering projection of an Article: just enough to
// compute dissimilarity and pick a representative.
type SingleArticle struct {
	FileName  string
	Title     string
	Category  models.Category
	Decay     float64
	Time      int64
	Embedding []float32
}

// Cluster is the per-category view of one merged group: title is the
// representative's title, articles are ordered representative-first then
// by ascending Levenshtein distance to it. ArticleTitles parallels
// Articles/ArticleTimes and, like them, is internal — omitted from the
// HTTP JSON view (spec.md §6) but needed to rebuild the representative
// when the time-window filter drops it (spec.md §4.6).
type Cluster struct {
	Title         string
	Decay         float64
	ArticleTimes  []int64
	ArticleTitles []string
	Articles      []string
}

// AllArticlesCluster is the cross-category "all" view: additionally carries
// the category tag and a per-coordinate mean embedding over members.
type AllArticlesCluster struct {
	Title         string
	Category      models.Category
	Decay         float64
	ArticleTimes  []int64
	ArticleTitles []string
	Articles      []string
	Embedding     []float32
}

// ClusterInbox holds every SingleArticle added since the last Flush, one
// list per category; each Recluster pass reads it without draining it.
type ClusterInbox struct {
	byCategory map[models.Category][]SingleArticle
}

func newClusterInbox() *ClusterInbox {
	return &ClusterInbox{byCategory: make(map[models.Category][]SingleArticle)}
}

func (b *ClusterInbox) add(a SingleArticle) {
	b.byCategory[a.Category] = append(b.byCategory[a.Category], a)
}

// snapshot returns a copy of cat's accumulated articles without removing
// them: Cluster recomputes from this full accumulated pool on every pass,
// so the inbox is never drained by clustering, only by clear (Flush).
func (b *ClusterInbox) snapshot(cat models.Category) []SingleArticle {
	items := b.byCategory[cat]
	if len(items) == 0 {
		return nil
	}
	out := make([]SingleArticle, len(items))
	copy(out, items)
	return out
}

func (b *ClusterInbox) len(cat models.Category) int {
	return len(b.byCategory[cat])
}

func (b *ClusterInbox) clear() {
	b.byCategory = make(map[models.Category][]SingleArticle)
}
