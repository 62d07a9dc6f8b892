package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle transitions.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Order lifecycle operations by kind (create, update, delete, ship_line, complete, set_pending, cascade).",
	}, []string{"operation"})
	reg.MustRegister(transitions)
	return &OrderMetrics{transitions: transitions}
}

// Inc records one successful operation.
func (o *OrderMetrics) Inc(operation string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(normalizeLabel(operation)).Inc()
}
