package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"newsthreads/internal/models"
)

func TestReadinessStartsNotReady(t *testing.T) {
	r := NewReadiness()
	assert.False(t, r.RebuildDone())
	assert.False(t, r.ClusterDone(models.LanguageEn))
	assert.False(t, r.ClusterDone(models.LanguageRu))
	assert.False(t, r.Ready())
}

func TestReadinessRebuildAloneIsNotEnoughToBeReady(t *testing.T) {
	r := NewReadiness()
	r.markRebuildDone()
	assert.True(t, r.RebuildDone())
	assert.False(t, r.Ready())
}

func TestReadinessReadyOnceRebuildAndOneLanguageClustered(t *testing.T) {
	r := NewReadiness()
	r.markRebuildDone()
	r.markClusterDone(models.LanguageEn)
	assert.True(t, r.Ready())
	assert.False(t, r.ClusterDone(models.LanguageRu))
}

func TestReadinessFlagsAreWriteOnce(t *testing.T) {
	r := NewReadiness()
	r.markRebuildDone()
	r.markRebuildDone()
	assert.True(t, r.RebuildDone())
}
