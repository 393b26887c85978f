package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeos_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lifeos_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeos_errors_total",
			Help: "Total handler errors",
		},
		[]string{"handler", "type"},
	)

	// Domain counters: how often completion state flips and actions get
	// logged. Cheap signal for whether the app is actually in use.
	TaskToggleCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifeos_task_entries_toggled_total",
			Help: "Task entries checked or unchecked",
		},
		[]string{"direction"},
	)

	ActionLogCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lifeos_action_entries_logged_total",
			Help: "Action entries created",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, ErrorCount, TaskToggleCount, ActionLogCount)
}
