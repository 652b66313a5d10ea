package services

import "github.com/prometheus/client_golang/prometheus"

var (
	caseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "case_transitions_total",
			Help:      "Accepted case workflow transitions by target status",
		},
		[]string{"transition"},
	)

	loginFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardian",
			Name:      "login_failures_total",
			Help:      "Rejected sign-in attempts by error code",
		},
		[]string{"code"},
	)
)

// Collectors returns the service metrics for registration
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{caseTransitions, loginFailures}
}
