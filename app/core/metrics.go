package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wayfinder-ai/wayfinder/pkg/metrics"
)

type Metrics struct {
	apiResponseTime   *prometheus.HistogramVec
	apiErrorCounter   *prometheus.CounterVec
	pipelineStageTime *prometheus.HistogramVec
	pipelineError     *prometheus.CounterVec
	modelRequestTime  *prometheus.HistogramVec
	modelError        *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:   metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:   metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		pipelineStageTime: metrics.NewHistogramVec("pipeline_stage_time", []string{"stage"}),
		pipelineError:     metrics.NewCounterVec("pipeline_error", []string{"flow"}),
		modelRequestTime:  metrics.NewHistogramVec("model_request_time", []string{"target"}),
		modelError:        metrics.NewCounterVec("model_error", []string{"type"}),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) PipelineStageTimer(stage string) *prometheus.Timer {
	return prometheus.NewTimer(m.pipelineStageTime.WithLabelValues(stage))
}

func (m *Metrics) PipelineErrorInc(flow string) {
	m.pipelineError.WithLabelValues(flow).Inc()
}

func (m *Metrics) ModelRequestTimer(target string) *prometheus.Timer {
	return prometheus.NewTimer(m.modelRequestTime.WithLabelValues(target))
}

func (m *Metrics) ModelErrorInc(types string) {
	m.modelError.WithLabelValues(types).Inc()
}
