package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPushDeliveries(t *testing.T) {
	success := testutil.ToFloat64(PushDeliveriesTotal.WithLabelValues("success"))
	failed := testutil.ToFloat64(PushDeliveriesTotal.WithLabelValues("failed"))

	RecordPushDeliveries(3, 1)

	if got := testutil.ToFloat64(PushDeliveriesTotal.WithLabelValues("success")); got != success+3 {
		t.Errorf("success = %v, want %v", got, success+3)
	}
	if got := testutil.ToFloat64(PushDeliveriesTotal.WithLabelValues("failed")); got != failed+1 {
		t.Errorf("failed = %v, want %v", got, failed+1)
	}
}

func TestIncrementStudyEvent(t *testing.T) {
	before := testutil.ToFloat64(StudyEventsTotal.WithLabelValues("not_rising_edge"))
	IncrementStudyEvent("not_rising_edge")
	if got := testutil.ToFloat64(StudyEventsTotal.WithLabelValues("not_rising_edge")); got != before+1 {
		t.Errorf("not_rising_edge = %v, want %v", got, before+1)
	}
}

func TestAddNotificationItems(t *testing.T) {
	before := testutil.ToFloat64(NotificationItemsWritten)
	AddNotificationItems(2)
	if got := testutil.ToFloat64(NotificationItemsWritten); got != before+2 {
		t.Errorf("items = %v, want %v", got, before+2)
	}
}
