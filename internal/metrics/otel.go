package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/comalice/mfsm"
)

// OTel records queue activity with OpenTelemetry instruments.
type OTel struct {
	eventsSent       metric.Int64Counter
	deliveries       metric.Int64Counter
	deliveryFailures metric.Int64Counter
	listeners        metric.Int64Gauge
}

// NewOTel creates the instruments on meter.
//
//	provider := sdkmetric.NewMeterProvider(...)
//	obs, err := metrics.NewOTel(provider.Meter("mfsm"))
func NewOTel(meter metric.Meter) (*OTel, error) {
	eventsSent, err := meter.Int64Counter("mfsm.events.sent",
		metric.WithDescription("Events broadcast by a queue"),
	)
	if err != nil {
		return nil, err
	}

	deliveries, err := meter.Int64Counter("mfsm.deliveries",
		metric.WithDescription("Event copies accepted by listeners"),
	)
	if err != nil {
		return nil, err
	}

	deliveryFailures, err := meter.Int64Counter("mfsm.delivery.failures",
		metric.WithDescription("Event copies rejected by full listeners"),
	)
	if err != nil {
		return nil, err
	}

	listeners, err := meter.Int64Gauge("mfsm.queue.listeners",
		metric.WithDescription("Listeners currently registered with a queue"),
	)
	if err != nil {
		return nil, err
	}

	return &OTel{
		eventsSent:       eventsSent,
		deliveries:       deliveries,
		deliveryFailures: deliveryFailures,
		listeners:        listeners,
	}, nil
}

func (o *OTel) EventSent(queue string, _ mfsm.Event, delivered, failed int) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("queue", queue))
	o.eventsSent.Add(ctx, 1, attrs)
	o.deliveries.Add(ctx, int64(delivered), attrs)
	if failed > 0 {
		o.deliveryFailures.Add(ctx, int64(failed), attrs)
	}
}

func (o *OTel) ListenerCount(queue string, n int) {
	o.listeners.Record(context.Background(), int64(n), metric.WithAttributes(attribute.String("queue", queue)))
}
