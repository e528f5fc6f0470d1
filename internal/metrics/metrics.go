package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/worshipops/rosterd/internal/domain"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	NotificationsDispatched *prometheus.CounterVec
	NotificationsDelivered  *prometheus.CounterVec
	NotificationsFailed     *prometheus.CounterVec
	DeliveryLatency         *prometheus.HistogramVec
	QueueDepthUrgent        prometheus.Gauge
	QueueDepthReminders     prometheus.Gauge
	ReminderScans           prometheus.Counter
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NotificationsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of notification events placed on the queue.",
		}, []string{"category"}),

		NotificationsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_delivered_total",
			Help: "Total number of emails accepted by the SMTP transport.",
		}, []string{"category"}),

		NotificationsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of events whose render or delivery failed (terminal).",
		}, []string{"category"}),

		DeliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notification_delivery_seconds",
			Help:    "End-to-end latency from dequeue to SMTP accept.",
			Buckets: prometheus.DefBuckets,
		}, []string{"category"}),

		QueueDepthUrgent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "queue_depth_urgent",
			Help: "Current number of assignment/removal events waiting in the queue.",
		}),
		QueueDepthReminders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "queue_depth_reminders",
			Help: "Current number of reminder events waiting in the queue.",
		}),

		ReminderScans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_scans_total",
			Help: "Total number of completed reminder scans.",
		}),
	}

	reg.MustRegister(
		m.NotificationsDispatched,
		m.NotificationsDelivered,
		m.NotificationsFailed,
		m.DeliveryLatency,
		m.QueueDepthUrgent,
		m.QueueDepthReminders,
		m.ReminderScans,
	)

	return m
}

// DispatchHook returns the callback the notifier invokes per enqueued event.
func (m *Metrics) DispatchHook() func(domain.Category) {
	return func(c domain.Category) {
		m.NotificationsDispatched.WithLabelValues(string(c)).Inc()
	}
}

// ScanHook returns the callback the reminder scanner invokes per completed scan.
func (m *Metrics) ScanHook() func() {
	return func() { m.ReminderScans.Inc() }
}

// SetQueueDepths records a point-in-time snapshot of the queue tiers.
func (m *Metrics) SetQueueDepths(urgent, reminders int) {
	m.QueueDepthUrgent.Set(float64(urgent))
	m.QueueDepthReminders.Set(float64(reminders))
}

// WorkerHooks returns the metric callback functions expected by worker.MetricHooks.
// Centralises the prometheus observation calls so worker.go stays import-free.
func (m *Metrics) WorkerHooks() (
	onDelivered func(domain.Category, time.Duration),
	onFailed func(domain.Category),
) {
	onDelivered = func(c domain.Category, latency time.Duration) {
		m.NotificationsDelivered.WithLabelValues(string(c)).Inc()
		m.DeliveryLatency.WithLabelValues(string(c)).Observe(latency.Seconds())
	}
	onFailed = func(c domain.Category) {
		m.NotificationsFailed.WithLabelValues(string(c)).Inc()
	}
	return
}
