package httpapi

import (
	"newsthreads/internal/cluster"
)

// threadView is the public JSON shape of a per-category thread: decay,
// embedding, times, and titles are internal (spec.md §6).
type threadView struct {
	Title    string   `json:"title"`
	Articles []string `json:"articles"`
}

// allThreadView additionally carries the category tag, matching the
// original_source/src/server/cluster.rs AllArticles struct.
type allThreadView struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Articles []string `json:"articles"`
}

func newThreadViews(clusters []cluster.Cluster) []threadView {
	out := make([]threadView, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, threadView{Title: c.Title, Articles: c.Articles})
	}
	return out
}

func newAllThreadViews(clusters []cluster.AllArticlesCluster) []allThreadView {
	out := make([]allThreadView, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, allThreadView{
			Title:    c.Title,
			Category: c.Category.String(),
			Articles: c.Articles,
		})
	}
	return out
}
