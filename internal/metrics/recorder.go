package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Stage names used as the "stage" label.
const (
	StageDiscover  = "discover"
	StageRead      = "read"
	StageTransform = "transform"
	StageHighlight = "highlight"
	StageCompose   = "compose"
	StageWrite     = "write"
)

// Recorder defines observability hooks for a rendering run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncFileResult(result ResultLabel)
	IncRunOutcome(outcome ResultLabel)
	SetExamplesDiscovered(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncFileResult(ResultLabel)                  {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                  {}
func (NoopRecorder) SetExamplesDiscovered(int)                  {}
