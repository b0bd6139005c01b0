// Package query implements the read path: the time-window filter and the
// TopByCategory/TopAll operations (spec.md §4.5, §4.6).
package query

import (
	"context"
	"sort"

	"newsthreads/internal/cluster"
	"newsthreads/internal/models"
	"newsthreads/internal/textproc"
)

// ttlSource reports the current TTL watermark, or 0 if never set.
type ttlSource interface {
	TTL() (uint64, error)
}

// FilterWindow keeps only cluster members whose published_time satisfies
// ttl - published_time < period, rebuilding the representative if it was
// removed, and dropping clusters that end up empty. Grounded in
// original_source/src/server/top.rs's remove_stale_docs.
func FilterWindow(clusters []cluster.Cluster, ttl uint64, period uint64) []cluster.Cluster {
	out := make([]cluster.Cluster, 0, len(clusters))
	for _, c := range clusters {
		kept := filterMembers(c.Articles, c.ArticleTitles, c.ArticleTimes, ttl, period)
		if len(kept.fileNames) == 0 {
			continue
		}
		out = append(out, rebuildClusterFromMembers(kept))
	}
	return out
}

// FilterWindowAll is FilterWindow's AllArticlesCluster counterpart.
func FilterWindowAll(clusters []cluster.AllArticlesCluster, ttl uint64, period uint64) []cluster.AllArticlesCluster {
	out := make([]cluster.AllArticlesCluster, 0, len(clusters))
	for _, c := range clusters {
		kept := filterMembers(c.Articles, c.ArticleTitles, c.ArticleTimes, ttl, period)
		if len(kept.fileNames) == 0 {
			continue
		}
		rebuilt := rebuildClusterFromMembers(kept)
		out = append(out, cluster.AllArticlesCluster{
			Title:         rebuilt.Title,
			Category:      c.Category,
			Decay:         rebuilt.Decay,
			ArticleTimes:  rebuilt.ArticleTimes,
			ArticleTitles: rebuilt.ArticleTitles,
			Articles:      rebuilt.Articles,
			Embedding:     c.Embedding,
		})
	}
	return out
}

type survivingMembers struct {
	fileNames []string
	titles    []string
	times     []int64
}

func filterMembers(fileNames, titles []string, times []int64, ttl, period uint64) survivingMembers {
	var out survivingMembers
	for i, fn := range fileNames {
		t := times[i]
		if t < 0 {
			continue
		}
		age := ttl - uint64(t)
		if ttl < uint64(t) {
			age = 0 // future-published relative to watermark: treat as freshest
		}
		if age < period {
			out.fileNames = append(out.fileNames, fn)
			out.titles = append(out.titles, titles[i])
			out.times = append(out.times, t)
		}
	}
	return out
}

// rebuildClusterFromMembers re-derives title and ordering from the surviving
// members: the representative was first by construction (spec.md §4.4), so
// if it survives it stays first; otherwise the first surviving member in the
// existing order becomes the representative and the tail is re-sorted by
// Levenshtein distance to it. Cluster keeps no per-member decay, so the new
// representative is not re-selected by lowest decay, and the returned
// cluster's Decay is left at zero.
func rebuildClusterFromMembers(m survivingMembers) cluster.Cluster {
	if len(m.fileNames) <= 1 {
		return cluster.Cluster{
			Title:         m.titles[0],
			ArticleTimes:  m.times,
			ArticleTitles: m.titles,
			Articles:      m.fileNames,
		}
	}

	repTitle := m.titles[0]
	tailFiles := append([]string(nil), m.fileNames[1:]...)
	tailTitles := append([]string(nil), m.titles[1:]...)
	tailTimes := append([]int64(nil), m.times[1:]...)

	idx := make([]int, len(tailTitles))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return textproc.LevenshteinDistance(tailTitles[idx[a]], repTitle) <
			textproc.LevenshteinDistance(tailTitles[idx[b]], repTitle)
	})

	articles := make([]string, 0, len(m.fileNames))
	titles := make([]string, 0, len(m.fileNames))
	times := make([]int64, 0, len(m.fileNames))
	articles = append(articles, m.fileNames[0])
	titles = append(titles, repTitle)
	times = append(times, m.times[0])
	for _, i := range idx {
		articles = append(articles, tailFiles[i])
		titles = append(titles, tailTitles[i])
		times = append(times, tailTimes[i])
	}

	return cluster.Cluster{
		Title:         repTitle,
		ArticleTimes:  times,
		ArticleTitles: titles,
		Articles:      articles,
	}
}

// TopByCategory implements spec.md §4.5: force a recluster, snapshot the
// category's clusters, filter by window, sort by member count descending.
func TopByCategory(ctx context.Context, engine *cluster.Engine, st ttlSource, cat models.Category, period uint64, now uint64) ([]cluster.Cluster, error) {
	if err := engine.Cluster(ctx); err != nil {
		return nil, err
	}
	snapshot := engine.SnapshotCategory(cat)

	ttl, err := resolveTTL(st, now)
	if err != nil {
		return nil, err
	}

	filtered := FilterWindow(snapshot, ttl, period)
	sort.SliceStable(filtered, func(i, j int) bool {
		return len(filtered[i].Articles) > len(filtered[j].Articles)
	})
	return filtered, nil
}

// TopAll implements spec.md §4.5's "all" view: it reads the cross-category
// snapshot without forcing a recluster, then filters by window and sorts by
// member count descending as TopByCategory does.
func TopAll(engine *cluster.Engine, st ttlSource, period uint64, now uint64) ([]cluster.AllArticlesCluster, error) {
	snapshot := engine.SnapshotAll()

	ttl, err := resolveTTL(st, now)
	if err != nil {
		return nil, err
	}

	filtered := FilterWindowAll(snapshot, ttl, period)
	sort.SliceStable(filtered, func(i, j int) bool {
		return len(filtered[i].Articles) > len(filtered[j].Articles)
	})
	return filtered, nil
}

func resolveTTL(st ttlSource, now uint64) (uint64, error) {
	ttl, err := st.TTL()
	if err != nil {
		return 0, err
	}
	if ttl == 0 {
		return now, nil
	}
	return ttl, nil
}
