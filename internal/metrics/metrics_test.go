package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/comalice/mfsm"
)

// broadcast registers two one-slot listeners, fills one, and sends twice.
func broadcast(t *testing.T, obs mfsm.Observer) {
	t.Helper()
	q := mfsm.NewQueue(2, mfsm.WithQueueName("main"), mfsm.WithObserver(obs))
	a, b := mfsm.NewListener(1), mfsm.NewListener(2)
	require.NoError(t, q.AddListener(a))
	require.NoError(t, q.AddListener(b))
	require.NoError(t, q.SendEvent(mfsm.NewEvent(1)))
	assert.ErrorIs(t, q.SendEvent(mfsm.NewEvent(2)), mfsm.ErrPartialFailure)
	require.NoError(t, q.RemoveListener(a))
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	broadcast(t, p)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.eventsSent.WithLabelValues("main")))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.deliveries.WithLabelValues("main")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.deliveryFailures.WithLabelValues("main")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.listeners.WithLabelValues("main")))
}

func TestPrometheusSeriesPerQueue(t *testing.T) {
	p, err := NewPrometheus(prometheus.NewRegistry())
	require.NoError(t, err)

	for id := 0; id < 100; id++ {
		p.EventSent("main", mfsm.NewEvent(mfsm.EventID(id)), 1, 0)
	}
	p.EventSent("aux", mfsm.NewEvent(1), 1, 0)

	assert.Equal(t, 2, testutil.CollectAndCount(p.eventsSent), "one series per queue")
	assert.Equal(t, 100.0, testutil.ToFloat64(p.eventsSent.WithLabelValues("main")))
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)
	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			var total int64
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
			default:
				t.Fatalf("unexpected data type %T for %s", m.Data, name)
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestOTel(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	o, err := NewOTel(provider.Meter("mfsm"))
	require.NoError(t, err)

	broadcast(t, o)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.Equal(t, int64(2), sumOf(t, rm, "mfsm.events.sent"))
	assert.Equal(t, int64(3), sumOf(t, rm, "mfsm.deliveries"))
	assert.Equal(t, int64(1), sumOf(t, rm, "mfsm.delivery.failures"))
	assert.Equal(t, int64(1), sumOf(t, rm, "mfsm.queue.listeners"))
}

func TestOTelSeriesPerQueue(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	o, err := NewOTel(provider.Meter("mfsm"))
	require.NoError(t, err)
	for id := 0; id < 100; id++ {
		o.EventSent("main", mfsm.NewEvent(mfsm.EventID(id)), 1, 0)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "mfsm.events.sent" {
				data, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				assert.Len(t, data.DataPoints, 1)
			}
		}
	}
	assert.Equal(t, int64(100), sumOf(t, rm, "mfsm.events.sent"))
}

type counting struct{ sends, counts int }

func (c *counting) EventSent(string, mfsm.Event, int, int) { c.sends++ }
func (c *counting) ListenerCount(string, int)             { c.counts++ }

func TestMulti(t *testing.T) {
	a, b := &counting{}, &counting{}
	broadcast(t, Multi{a, b})
	for _, c := range []*counting{a, b} {
		assert.Equal(t, 2, c.sends)
		assert.Equal(t, 3, c.counts)
	}
}
