// Package metrics records run and stage metrics for sidebyside.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so callers never nil-check:
//
//	p := pipeline.New(cfg, paths) // records nothing
//
// When metrics.textfile is configured the CLI swaps in a PrometheusRecorder
// and writes the registry in the Prometheus text exposition format after the
// run, ready for a node_exporter textfile collector:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	p := pipeline.New(cfg, paths, pipeline.WithRecorder(rec))
//	_, err := p.Run(ctx)
//	_ = metrics.WriteTextfile(reg, path)
package metrics
