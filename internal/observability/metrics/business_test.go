package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCollectionRun(t *testing.T) {
	tests := []struct {
		name     string
		success  bool
		duration time.Duration
	}{
		{
			name:     "successful run",
			success:  true,
			duration: 3 * time.Second,
		},
		{
			name:     "failed run",
			success:  false,
			duration: 500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordCollectionRun(tt.success, tt.duration)
			})
		})
	}
}

func TestRecordSourceCollection(t *testing.T) {
	before := testutil.ToFloat64(SourcesCollectedTotal.WithLabelValues("newsletter", "success"))
	RecordSourceCollection("newsletter", true)
	after := testutil.ToFloat64(SourcesCollectedTotal.WithLabelValues("newsletter", "success"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(SourcesCollectedTotal.WithLabelValues("youtube", "failure"))
	RecordSourceCollection("youtube", false)
	after = testutil.ToFloat64(SourcesCollectedTotal.WithLabelValues("youtube", "failure"))
	assert.Equal(t, before+1, after)
}

func TestUpdateSourceHealth(t *testing.T) {
	UpdateSourceHealth(7, 2, 1)

	assert.Equal(t, 7.0, testutil.ToFloat64(SourcesHealthy))
	assert.Equal(t, 2.0, testutil.ToFloat64(SourcesUnhealthy))
	assert.Equal(t, 1.0, testutil.ToFloat64(SourcesInRecovery))
}

func TestRecordSourcesSkipped(t *testing.T) {
	before := testutil.ToFloat64(SourcesSkippedTotal)
	RecordSourcesSkipped(3)
	RecordSourcesSkipped(0) // no-op
	after := testutil.ToFloat64(SourcesSkippedTotal)
	assert.Equal(t, before+3, after)
}

func TestRecordRetryMetrics(t *testing.T) {
	before := testutil.ToFloat64(RetryAttemptsTotal.WithLabelValues("fetch feed"))
	RecordRetryAttempt("fetch feed")
	after := testutil.ToFloat64(RetryAttemptsTotal.WithLabelValues("fetch feed"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(RetryExhaustedTotal.WithLabelValues("fetch feed"))
	RecordRetryExhausted("fetch feed")
	after = testutil.ToFloat64(RetryExhaustedTotal.WithLabelValues("fetch feed"))
	assert.Equal(t, before+1, after)
}

func TestRecordContentMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordContentStored("newsletter")
		RecordContentDuplicate("youtube")
	})
}

func TestRecordConfigFallback(t *testing.T) {
	before := testutil.ToFloat64(ConfigFallbacksTotal.WithLabelValues("COLLECT_CRON_SCHEDULE"))
	RecordConfigFallback("COLLECT_CRON_SCHEDULE")
	after := testutil.ToFloat64(ConfigFallbacksTotal.WithLabelValues("COLLECT_CRON_SCHEDULE"))
	assert.Equal(t, before+1, after)
}
