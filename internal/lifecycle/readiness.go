// Package lifecycle implements the long-lived server tasks — Rebuild,
// Recluster, EvictStale, FlushStore, Stats (spec.md §4.7) — and the
// three process-wide readiness flags that gate ingest and query (§5).
package lifecycle

import (
	"sync/atomic"

	"newsthreads/internal/models"
)

// Readiness holds the three monotonic, write-once flags the rest of the
// server reads to decide whether it's safe to accept traffic. Once true,
// a flag never goes back to false.
type Readiness struct {
	rebuildDone   atomic.Bool
	clusterDoneEn atomic.Bool
	clusterDoneRu atomic.Bool
}

// NewReadiness returns a Readiness with every flag false.
func NewReadiness() *Readiness {
	return &Readiness{}
}

// RebuildDone reports whether the first Rebuild pass has completed — the
// condition `GET /` checks (spec.md §6).
func (r *Readiness) RebuildDone() bool {
	return r.rebuildDone.Load()
}

func (r *Readiness) markRebuildDone() {
	r.rebuildDone.Store(true)
}

// ClusterDone reports whether lang's first Recluster pass has completed.
func (r *Readiness) ClusterDone(lang models.Language) bool {
	switch lang {
	case models.LanguageEn:
		return r.clusterDoneEn.Load()
	case models.LanguageRu:
		return r.clusterDoneRu.Load()
	default:
		return false
	}
}

func (r *Readiness) markClusterDone(lang models.Language) {
	switch lang {
	case models.LanguageEn:
		r.clusterDoneEn.Store(true)
	case models.LanguageRu:
		r.clusterDoneRu.Store(true)
	}
}

// Ready implements the ingest/query pre-gate (spec.md §4.2, §4.5): not
// ready if RebuildDone is false, or if both ClusterDone flags are false.
func (r *Readiness) Ready() bool {
	return r.rebuildDone.Load() && (r.clusterDoneEn.Load() || r.clusterDoneRu.Load())
}

// MarkReadyForTest forces every flag true, for tests of downstream
// packages (ingest, httpapi) that need a ready gate without running an
// actual Rebuild/Recluster pass.
func (r *Readiness) MarkReadyForTest() {
	r.markRebuildDone()
	r.markClusterDone(models.LanguageEn)
	r.markClusterDone(models.LanguageRu)
}
