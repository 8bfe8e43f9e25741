// Package metrics registers the service's prometheus counters, exported on
// /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsSaved counts successful attendance saves, by class.
	SessionsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_attendance_saves_total",
		Help: "Attendance sessions saved (creates and replacements).",
	}, []string{"class"})

	// MonthlyRequests counts monthly matrix builds.
	MonthlyRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_attendance_monthly_requests_total",
		Help: "Monthly attendance matrix requests served.",
	})

	// AuditEvents counts audit rows written by the worker.
	AuditEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_attendance_audit_events_total",
		Help: "Audit trail entries recorded from save events.",
	})
)
