package metrics

import (

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/mfsm"
)

// Prometheus records queue activity in Prometheus collectors.
type Prometheus struct {
	eventsSent       *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	listeners        *prometheus.GaugeVec
}

// NewPrometheus creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &Prometheus{
		eventsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mfsm",
				Name:      "events_sent_total",
				Help:      "Events broadcast by a queue.",
			},
			[]string{"queue"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mfsm",
				Name:      "deliveries_total",
				Help:      "Event copies accepted by listeners.",
			},
			[]string{"queue"},
		),
		deliveryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mfsm",
				Name:      "delivery_failures_total",
				Help:      "Event copies rejected by full listeners.",
			},
			[]string{"queue"},
		),
		listeners: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "mfsm",
				Name:      "queue_listeners",
				Help:      "Listeners currently registered with a queue.",
			},
			[]string{"queue"},
		),
	}
	for _, c := range []prometheus.Collector{p.eventsSent, p.deliveries, p.deliveryFailures, p.listeners} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) EventSent(queue string, _ mfsm.Event, delivered, failed int) {
	p.eventsSent.WithLabelValues(queue).Inc()
	p.deliveries.WithLabelValues(queue).Add(float64(delivered))
	p.deliveryFailures.WithLabelValues(queue).Add(float64(failed))
}

func (p *Prometheus) ListenerCount(queue string, n int) {
	p.listeners.WithLabelValues(queue).Set(float64(n))
}
