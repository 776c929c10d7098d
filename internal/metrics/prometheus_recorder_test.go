package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration(StageTransform, 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncFileResult(ResultSuccess)
	pr.IncFileResult(ResultSuccess)
	pr.IncFileResult(ResultFailed)
	pr.IncRunOutcome(ResultFailed)
	pr.SetExamplesDiscovered(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.fileResults.WithLabelValues(string(ResultSuccess))))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.runOutcomes.WithLabelValues(string(ResultFailed))))
	assert.Equal(t, 4.0, testutil.ToFloat64(pr.discovered))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration(StageWrite, time.Second)
	pr.IncFileResult(ResultSuccess)
	pr.SetExamplesDiscovered(1)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(ResultSuccess)

	path := filepath.Join(t.TempDir(), "sidebyside.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `sidebyside_run_outcomes_total{outcome="success"} 1`), string(data))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration(StageCompose, time.Millisecond)
	r.ObserveRunDuration(time.Millisecond)
	r.IncFileResult(ResultSuccess)
	r.IncRunOutcome(ResultCanceled)
	r.SetExamplesDiscovered(0)
}
