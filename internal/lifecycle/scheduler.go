package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"newsthreads/internal/cluster"
	"newsthreads/internal/codec"
	"newsthreads/internal/models"
	"newsthreads/internal/store"
	"newsthreads/pkg/logger"
)

// ttlKey is the Store's reserved watermark key (spec.md §4.1), skipped when
// iterating for article records.
const ttlKey = "TTL"

// Config collects everything the Scheduler needs to drive the lifecycle
// tasks against the two per-language engines.
type Config struct {
	Store store.Store
	En    *cluster.Engine
	Ru    *cluster.Engine
	Log   *logger.Logger

	DecayDiv   float64
	StaleDecay float64
	EvictLen   int

	RebuildIntervalSec   int
	ReclusterIntervalSec int
	EvictIntervalSec     int
	FlushIntervalSec     int
	StatsIntervalSec     int
}

// Scheduler runs Rebuild, Recluster, EvictStale, FlushStore, and Stats as
// cron-driven background tasks (spec.md §4.7), using robfig/cron's
// "@every Ns" schedules rather than hand-rolled time.Ticker loops.
type Scheduler struct {
	st  store.Store
	en  *cluster.Engine
	ru  *cluster.Engine
	log *logger.Logger

	decayDiv   float64
	staleDecay float64
	evictLen   int

	reclusterIntervalSec int
	evictIntervalSec     int
	flushIntervalSec     int
	statsIntervalSec     int

	readiness *Readiness
	cron      *cron.Cron
}

// NewScheduler constructs a Scheduler with an unstarted cron runner and a
// fresh Readiness, all flags false.
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{
		st:                    cfg.Store,
		en:                    cfg.En,
		ru:                    cfg.Ru,
		log:                   cfg.Log,
		decayDiv:              cfg.DecayDiv,
		staleDecay:            cfg.StaleDecay,
		evictLen:              cfg.EvictLen,
		reclusterIntervalSec:  cfg.ReclusterIntervalSec,
		evictIntervalSec:      cfg.EvictIntervalSec,
		flushIntervalSec:      cfg.FlushIntervalSec,
		statsIntervalSec:      cfg.StatsIntervalSec,
		readiness:             NewReadiness(),
		cron:                  cron.New(),
	}
}

// Readiness exposes the flags HTTP handlers gate on.
func (s *Scheduler) Readiness() *Readiness {
	return s.readiness
}

// Start kicks off the initial Rebuild+Recluster pass in the background and
// schedules the recurring tasks, matching spec.md §4.7: the first pass runs
// once at startup, then the combined rebuild-and-recluster loop repeats
// every ReclusterIntervalSec, alongside independent eviction, flush, and
// stats loops.
func (s *Scheduler) Start(ctx context.Context) error {
	go s.rebuildAndRecluster(ctx)

	if _, err := s.cron.AddFunc(everySpec(s.reclusterIntervalSec), func() { s.rebuildAndRecluster(ctx) }); err != nil {
		return fmt.Errorf("schedule recluster: %w", err)
	}
	if _, err := s.cron.AddFunc(everySpec(s.evictIntervalSec), func() { s.evictStale() }); err != nil {
		return fmt.Errorf("schedule evict: %w", err)
	}
	if _, err := s.cron.AddFunc(everySpec(s.flushIntervalSec), func() { s.flushStore() }); err != nil {
		return fmt.Errorf("schedule flush: %w", err)
	}
	if _, err := s.cron.AddFunc(everySpec(s.statsIntervalSec), func() { s.logStats() }); err != nil {
		return fmt.Errorf("schedule stats: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner, waiting for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func everySpec(seconds int) string {
	return fmt.Sprintf("@every %ds", seconds)
}

// rebuildAndRecluster implements Rebuild followed by Recluster: flush both
// engines, replay every Store record into the matching language's inbox,
// mark RebuildDone, then cluster both languages in parallel and mark each
// ClusterDone flag as its pass finishes (spec.md §4.7).
func (s *Scheduler) rebuildAndRecluster(ctx context.Context) {
	start := time.Now()
	s.en.Flush()
	s.ru.Flush()

	count := 0
	err := s.st.Iter(func(key, value []byte) error {
		if string(key) == ttlKey {
			return nil
		}
		rec, _, derr := codec.DecodeArticle(value)
		if derr != nil {
			s.log.Warn("rebuild: failed to decode record", "key", string(key), "error", derr)
			return nil
		}
		article := models.FromRecord(rec)
		switch article.Language {
		case models.LanguageEn:
			s.en.Rehydrate(article)
		case models.LanguageRu:
			s.ru.Rehydrate(article)
		}
		count++
		return nil
	})
	if err != nil {
		s.log.Error("rebuild: store iteration failed", "error", err)
		return
	}

	s.readiness.markRebuildDone()
	s.log.Info("rebuild finished", "records", count, "elapsed", time.Since(start))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.en.Cluster(gctx); err != nil {
			return fmt.Errorf("cluster en: %w", err)
		}
		s.readiness.markClusterDone(models.LanguageEn)
		return nil
	})
	g.Go(func() error {
		if err := s.ru.Cluster(gctx); err != nil {
			return fmt.Errorf("cluster ru: %w", err)
		}
		s.readiness.markClusterDone(models.LanguageRu)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("recluster failed", "error", err)
	}
}

// evictStale implements EvictStale (spec.md §4.7): once Store holds at
// least evictLen keys, every record whose reconstructed decay exceeds staleDecay is
// removed. Stale keys are collected during a read-only pass and deleted
// afterwards, since Store.Iter holds a read transaction for its duration.
func (s *Scheduler) evictStale() {
	n, err := s.st.Len()
	if err != nil {
		s.log.Error("evict: could not read store length", "error", err)
		return
	}
	if n < s.evictLen {
		return
	}

	now := time.Now().Unix()
	var stale [][]byte
	err = s.st.Iter(func(key, value []byte) error {
		if string(key) == ttlKey {
			return nil
		}
		rec, _, derr := codec.DecodeArticle(value)
		if derr != nil {
			return nil
		}
		article := models.FromRecord(rec)
		if article.Decay(now, s.decayDiv) > s.staleDecay {
			stale = append(stale, append([]byte(nil), key...))
		}
		return nil
	})
	if err != nil {
		s.log.Error("evict: store iteration failed", "error", err)
		return
	}

	for _, key := range stale {
		if _, derr := s.st.Delete(key); derr != nil {
			s.log.Error("evict: failed to remove stale record", "key", string(key), "error", derr)
			continue
		}
		s.log.Warn("evicted stale record", "key", string(key))
	}
}

// flushStore implements FlushStore (spec.md §4.7): asynchronous, error
// tolerant — failures are logged, never propagated.
func (s *Scheduler) flushStore() {
	if err := s.st.Flush(); err != nil {
		s.log.Error("flush failed", "error", err)
	}
}

// logStats implements Stats (spec.md §4.7): a human-readable per-language
// summary of inbox/clustered counts and Store size.
func (s *Scheduler) logStats() {
	for _, stat := range s.Stats() {
		s.log.Info("cluster stats",
			"language", stat.Language.String(),
			"per_category", stat.PerCategory,
			"inbox_per_category", stat.InboxPerCategory,
			"store_len", stat.StoreLen,
			"store_size_bytes", stat.StoreSizeBytes,
		)
	}
}

// Stats snapshots per-language cluster/inbox counts and Store footprint,
// shared by the Stats lifecycle task and the /debug/stats endpoint.
func (s *Scheduler) Stats() []models.ClusterStats {
	storeLen, err := s.st.Len()
	if err != nil {
		s.log.Error("stats: could not read store length", "error", err)
		storeLen = -1
	}
	storeSize := s.st.SizeBytes()

	out := make([]models.ClusterStats, 0, 2)
	for _, eng := range []*cluster.Engine{s.en, s.ru} {
		perCategory := make(map[models.Category]int, len(models.AllCategories))
		inboxPerCategory := make(map[models.Category]int, len(models.AllCategories))
		for _, cat := range models.AllCategories {
			perCategory[cat] = eng.ClusteredLen(cat)
			inboxPerCategory[cat] = eng.InboxLen(cat)
		}
		out = append(out, models.ClusterStats{
			Language:         eng.Language(),
			PerCategory:      perCategory,
			InboxPerCategory: inboxPerCategory,
			StoreLen:         storeLen,
			StoreSizeBytes:   storeSize,
		})
	}
	return out
}
