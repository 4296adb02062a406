package metrics

import (
	"FreshTrack/pkg/cache"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats struct {
	snapshot cache.StatsSnapshot
}

func (f *fixedStats) Stats() cache.StatsSnapshot {
	return f.snapshot
}

func gaugeValue(t *testing.T, name string) (float64, bool) {
	t.Helper()
	families, err := Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetGauge().GetValue(), true
		}
	}
	return 0, false
}

func TestRegisterCacheStats(t *testing.T) {
	source := &fixedStats{snapshot: cache.StatsSnapshot{HitRate: 75, Errors: 2, Deletes: 9}}
	require.NoError(t, RegisterCacheStats(source))

	rate, ok := gaugeValue(t, "freshtrack_listing_cache_hit_rate_percent")
	require.True(t, ok)
	assert.Equal(t, 75.0, rate)

	source.snapshot.HitRate = 40
	rate, _ = gaugeValue(t, "freshtrack_listing_cache_hit_rate_percent")
	assert.Equal(t, 40.0, rate)

	errs, ok := gaugeValue(t, "freshtrack_listing_cache_errors")
	require.True(t, ok)
	assert.Equal(t, 2.0, errs)

	assert.NoError(t, RegisterCacheStats(&fixedStats{}))
}
