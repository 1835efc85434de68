package monitor

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirrors the monitor's counters into a Prometheus registry owned by
// the caller. Nothing is pushed or served from here.
type Metrics struct {
	errors   *prometheus.CounterVec
	warnings prometheus.Counter
	count    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "showme",
			Name:      "errors_total",
			Help:      "Errors recorded by the monitor, by kind.",
		}, []string{"kind"}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "showme",
			Name:      "warnings_total",
			Help:      "Threshold warnings fired.",
		}),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "showme",
			Name:      "error_count",
			Help:      "Errors counted since the last warning.",
		}),
	}
	for _, c := range []prometheus.Collector{m.errors, m.warnings, m.count} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recorded(kind ErrorKind, count int) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(kind.String()).Inc()
	m.count.Set(float64(count))
}

func (m *Metrics) warned() {
	if m == nil {
		return
	}
	m.warnings.Inc()
	m.count.Set(0)
}
