// Package metrics exposes Prometheus metrics for the register bus and the
// sensor state.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/sensorctl/pkg/sccb"
)

const namespace = "sensorctl"

var (
	busTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sccb",
		Name:      "transactions_total",
		Help:      "Register bus transactions by operation and result",
	}, []string{"op", "result"})

	busDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sccb",
		Name:      "transaction_duration_seconds",
		Help:      "Register bus transaction latency",
		Buckets:   prometheus.ExponentialBuckets(50e-6, 2, 12),
	}, []string{"op"})

	sensorAttached = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sensor",
		Name:      "attached",
		Help:      "1 while a sensor is attached",
	})

	sensorStreaming = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sensor",
		Name:      "streaming",
		Help:      "1 while the sensor is streaming",
	})

	sensorFormat = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sensor",
		Name:      "format_info",
		Help:      "Currently applied format, value is always 1",
	}, []string{"name"})

	sensorParam = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sensor",
		Name:      "param_value",
		Help:      "Last written parameter value",
	}, []string{"param"})

	sensorOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sensor",
		Name:      "operations_total",
		Help:      "Sensor operations by name and result",
	}, []string{"operation", "result"})
)

// BusObserver records register transactions. It satisfies sccb.Observer.
type BusObserver struct{}

var _ sccb.Observer = BusObserver{}

// ObserveTransaction implements sccb.Observer.
func (BusObserver) ObserveTransaction(op string, _ uint16, took time.Duration, err error) {
	busTransactions.WithLabelValues(op, busResult(err)).Inc()
	busDuration.WithLabelValues(op).Observe(took.Seconds())
}

func busResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, sccb.ErrInjected):
		return "injected"
	default:
		return "error"
	}
}

// SetAttached records whether a sensor is attached.
func SetAttached(attached bool) {
	sensorAttached.Set(boolToFloat(attached))
	if !attached {
		sensorStreaming.Set(0)
		sensorFormat.Reset()
	}
}

// SetStreaming records the streaming flag.
func SetStreaming(streaming bool) {
	sensorStreaming.Set(boolToFloat(streaming))
}

// SetFormat records name as the only applied format.
func SetFormat(name string) {
	sensorFormat.Reset()
	sensorFormat.WithLabelValues(name).Set(1)
}

// SetParam records the last written value of a parameter.
func SetParam(param string, value int64) {
	sensorParam.WithLabelValues(param).Set(float64(value))
}

// ObserveOperation counts one sensor operation.
func ObserveOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	sensorOperations.WithLabelValues(operation, result).Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
