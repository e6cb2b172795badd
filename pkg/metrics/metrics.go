package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Change events handled, by outcome
	StudyEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_events_total",
			Help: "Total number of user update events handled",
		},
		[]string{"outcome"}, // outcome: notified, missing_snapshot, not_rising_edge, empty_friends, error
	)

	// Push deliveries reported by FCM
	PushDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "study_push_deliveries_total",
			Help: "Total number of push deliveries attempted for study start notifications",
		},
		[]string{"status"}, // status: success, failed
	)

	// In-app notification items committed
	NotificationItemsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "study_notification_items_written_total",
			Help: "Total number of in-app notification items written",
		},
	)
)

// IncrementStudyEvent counts one handled event
func IncrementStudyEvent(outcome string) {
	StudyEventsTotal.WithLabelValues(outcome).Inc()
}

// RecordPushDeliveries adds one multicast outcome
func RecordPushDeliveries(sent, failed int) {
	PushDeliveriesTotal.WithLabelValues("success").Add(float64(sent))
	PushDeliveriesTotal.WithLabelValues("failed").Add(float64(failed))
}

// AddNotificationItems counts committed in-app items
func AddNotificationItems(n int) {
	NotificationItemsWritten.Add(float64(n))
}
