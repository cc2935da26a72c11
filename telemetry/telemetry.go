// Package telemetry exposes Prometheus metrics for the observables the
// spec calls out explicitly: reconnect count, message queue depth and
// loss, active session count, active transfer count. Grounded on
// m-lab-tcp-info/metrics/metrics.go's promauto global-registration
// style (package-level vars built with promauto.New*, no metrics
// registry object threaded through the codebase).
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconnectTotal counts reconnects performed by async TCP clients,
	// labeled by remote address so a flapping link stands out.
	ReconnectTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openigtl_reconnect_total",
			Help: "total number of client reconnects performed",
		},
		[]string{"addr"})

	// SessionCount is the number of currently connected sessions on a
	// session.Manager.
	SessionCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "openigtl_session_count",
			Help: "number of currently connected sessions",
		})

	// QueueDepth is the current buffered size of a message queue.
	QueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "openigtl_queue_depth",
			Help: "current number of buffered messages in a queue",
		},
		[]string{"queue"})

	// QueuePeakDepth is the high-water mark of a message queue's
	// buffered size.
	QueuePeakDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "openigtl_queue_peak_depth",
			Help: "peak number of buffered messages observed in a queue",
		},
		[]string{"queue"})

	// QueueDroppedTotal counts messages dropped by a drop-oldest queue.
	QueueDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openigtl_queue_dropped_total",
			Help: "total number of messages dropped from a full queue",
		},
		[]string{"queue"})

	// TransferActiveCount is the number of partial transfers currently
	// in progress.
	TransferActiveCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "openigtl_transfer_active_count",
			Help: "number of partial transfers currently in progress",
		})

	// TransferBytesTotal counts bytes moved across all completed
	// transfers.
	TransferBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "openigtl_transfer_bytes_total",
			Help: "total bytes moved by completed transfers",
		})
)

// ObserveQueueStats copies a queue.Stats-shaped snapshot into the
// QueueDepth/QueuePeakDepth/QueueDroppedTotal series for the named
// queue. Declared with plain ints rather than importing the queue
// package directly, so telemetry has no import-cycle risk on the
// packages it instruments.
func ObserveQueueStats(name string, currentSize, peakSize int, droppedDelta uint64) {
	QueueDepth.WithLabelValues(name).Set(float64(currentSize))
	QueuePeakDepth.WithLabelValues(name).Set(float64(peakSize))
	if droppedDelta > 0 {
		QueueDroppedTotal.WithLabelValues(name).Add(float64(droppedDelta))
	}
}
