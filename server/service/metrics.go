package service

import (
	"github.com/go-kit/kit/metrics"

	"github.com/mergington/activities/server/mergington"
)

// metricsMiddleware tracks service method call counts and latencies
type metricsMiddleware struct {
	mergington.Service
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
}

// NewMetricsService takes an existing service and adds instrumentation
func NewMetricsService(
	svc mergington.Service,
	requestCount metrics.Counter,
	requestLatency metrics.Histogram,
) mergington.Service {
	return metricsMiddleware{
		Service:        svc,
		requestCount:   requestCount,
		requestLatency: requestLatency,
	}
}
