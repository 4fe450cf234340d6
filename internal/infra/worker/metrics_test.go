package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWorkerMetrics_Initialized(t *testing.T) {
	// globalTestMetrics is the single process-wide instance.
	m := globalTestMetrics

	if m == nil {
		t.Fatal("NewWorkerMetrics returned nil")
	}
	if m.ConfigMetrics == nil {
		t.Error("ConfigMetrics not embedded")
	}
	if m.CronJobRunsTotal == nil || m.CronJobDurationSeconds == nil ||
		m.CronJobSourcesProcessedTotal == nil || m.CronJobLastSuccessTimestamp == nil {
		t.Error("worker metrics not fully initialized")
	}
}

func TestWorkerMetrics_Recording(t *testing.T) {
	m := globalTestMetrics

	before := testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("success"))
	m.RecordJobRun("success")
	after := testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("RecordJobRun: counter = %v, want %v", after, before+1)
	}

	before = testutil.ToFloat64(m.CronJobSourcesProcessedTotal)
	m.RecordSourcesProcessed(7)
	after = testutil.ToFloat64(m.CronJobSourcesProcessedTotal)
	if after != before+7 {
		t.Errorf("RecordSourcesProcessed: counter = %v, want %v", after, before+7)
	}

	m.RecordJobDuration(12.5)

	m.RecordLastSuccess()
	if testutil.ToFloat64(m.CronJobLastSuccessTimestamp) == 0 {
		t.Error("RecordLastSuccess did not set the timestamp")
	}
}
