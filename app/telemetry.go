package app

import (
	"time"

	metrics "github.com/hashicorp/go-metrics"
)

const (
	metricsInterval = 10 * time.Second
	metricsRetain   = time.Minute
)

// newMetrics installs an in-memory sink as the global metrics sink. Every
// metric carries the service label.
func newMetrics() (*metrics.InmemSink, error) {
	sink := metrics.NewInmemSink(metricsInterval, metricsRetain)

	cfg := metrics.DefaultConfig(AppName)
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false
	cfg.EnableServiceLabel = true

	if _, err := metrics.NewGlobal(cfg, sink); err != nil {
		return nil, err
	}

	return sink, nil
}
