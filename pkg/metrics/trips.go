package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// TripMetrics counts trip mutations and status transitions.
type TripMetrics struct {
	operations  *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewTripMetrics registers the trip metrics on the provided registerer.
func NewTripMetrics(reg prometheus.Registerer) *TripMetrics {
	if reg == nil {
		return &TripMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_operations_total",
		Help: "Trip create/update/cancel calls by result.",
	}, []string{"operation", "result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_status_transitions_total",
		Help: "Applied trip status transitions.",
	}, []string{"from", "to"})
	reg.MustRegister(operations, transitions)
	return &TripMetrics{operations: operations, transitions: transitions}
}

// Operation records the outcome of a trip mutation.
func (m *TripMetrics) Operation(op string, err error) {
	if m == nil || m.operations == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.operations.WithLabelValues(normalizeLabel(op), result).Inc()
}

// Transition records an applied status change.
func (m *TripMetrics) Transition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}
