package cluster

import (
	"sort"

	"newsthreads/internal/embed"
	"newsthreads/internal/textproc"
)

const tieBreakEpsilon = 1e-6
const sentinelDissimilarity = 10.0

// buildDissimilarity computes the n×n matrix M[i][j] = 1 - cosine(i, j),
// M[i][i] = 0, and the per-row nearest neighbor (argmin over j != i).
// Grounded in original_source/src/server/cluster.rs::build_dissimilarity.
func buildDissimilarity(items []SingleArticle) ([][]float32, []int) {
	n := len(items)
	m := make([][]float32, n)
	nearest := make([]int, n)

	for i := range m {
		m[i] = make([]float32, n)
	}

	for i := 0; i < n; i++ {
		best := -1
		var bestVal float32 = sentinelDissimilarity
		for j := 0; j < n; j++ {
			if i == j {
				m[i][j] = 0
				continue
			}
			d := 1 - embed.Cosine(items[i].Embedding, items[j].Embedding)
			m[i][j] = d
			if d < bestVal {
				bestVal = d
				best = j
			}
		}
		nearest[i] = best
	}

	return m, nearest
}

// ClusterSingle implements the per-category merge rule from spec.md §4.4:
// nearest-neighbor pairing with a tie-break that absorbs a candidate p only
// when the smallest entry of p's own dissimilarity row differs by more than
// tieBreakEpsilon from p's distance to the article currently being grown;
// a candidate whose closest match sits at that same distance is not
// absorbed. This is the only correctness-critical
// deviation from naive single-link and must be preserved exactly.
func ClusterSingle(items []SingleArticle, tau float32) [][]SingleArticle {
	n := len(items)
	if n == 0 {
		return nil
	}

	m, nearest := buildDissimilarity(items)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	clusterNum := 0

	for i := 0; i < n; i++ {
		j := nearest[i]
		if j == -1 || i > j {
			continue
		}
		if m[i][j] >= tau {
			continue
		}

		labels[i] = clusterNum
		labels[j] = clusterNum

		row := append([]float32(nil), m[i]...)
		row[i] = sentinelDissimilarity

		for {
			p := argmin(row)
			if row[p] >= tau {
				break
			}

			rowP := m[p]
			minP := argmin(rowP)

			if absf32(row[p]-rowP[minP]) > tieBreakEpsilon {
				labels[p] = clusterNum
				m[p][minP] = sentinelDissimilarity
			}
			row[p] = sentinelDissimilarity
		}

		clusterNum++
	}

	// Every unlabeled article becomes its own singleton cluster.
	for i := range labels {
		if labels[i] == -1 {
			labels[i] = clusterNum
			clusterNum++
		}
	}

	groups := make(map[int][]SingleArticle, clusterNum)
	for i, lbl := range labels {
		groups[lbl] = append(groups[lbl], items[i])
	}

	out := make([][]SingleArticle, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	return out
}

func argmin(row []float32) int {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] < row[best] {
			best = i
		}
	}
	return best
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// buildCluster applies the representative-selection and ordering rule
// (spec.md §4.4 "Representative selection and ordering") to one group of
// SingleArticles produced by ClusterSingle, and returns both the
// per-category Cluster and the cross-category AllArticlesCluster views.
func buildCluster(group []SingleArticle) (Cluster, AllArticlesCluster) {
	sorted := append([]SingleArticle(nil), group...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Decay < sorted[j].Decay })

	rep := sorted[0]
	tail := sorted[1:]
	sort.SliceStable(tail, func(i, j int) bool {
		return textproc.LevenshteinDistance(tail[i].Title, rep.Title) <
			textproc.LevenshteinDistance(tail[j].Title, rep.Title)
	})

	ordered := append([]SingleArticle{rep}, tail...)

	articles := make([]string, len(ordered))
	titles := make([]string, len(ordered))
	times := make([]int64, len(ordered))
	var decaySum float64
	for i, a := range ordered {
		articles[i] = a.FileName
		titles[i] = a.Title
		times[i] = a.Time
		decaySum += a.Decay
	}
	n := float64(len(ordered))
	clusterDecay := decaySum / ((n + 1) * (n + 1))

	c := Cluster{
		Title:         rep.Title,
		Decay:         clusterDecay,
		ArticleTimes:  times,
		ArticleTitles: titles,
		Articles:      articles,
	}

	all := AllArticlesCluster{
		Title:         rep.Title,
		Category:      rep.Category,
		Decay:         clusterDecay,
		ArticleTimes:  times,
		ArticleTitles: titles,
		Articles:      articles,
		Embedding:     meanEmbedding(ordered),
	}

	return c, all
}

func meanEmbedding(members []SingleArticle) []float32 {
	if len(members) == 0 {
		return nil
	}
	dim := len(members[0].Embedding)
	mean := make([]float32, dim)
	for _, m := range members {
		for i := 0; i < dim && i < len(m.Embedding); i++ {
			mean[i] += m.Embedding[i]
		}
	}
	for i := range mean {
		mean[i] /= float32(len(members))
	}
	return mean
}
