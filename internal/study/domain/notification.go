package domain

import (
	"fmt"
	"time"
)

const (
	// NotificationTypeFriendStudyStart tags both the push data payload and the in-app record.
	NotificationTypeFriendStudyStart = "friend_study_start"

	// FallbackDisplayName is used when the user has no name set.
	FallbackDisplayName = "Je vriend"

	// StudyStartPushBody is the fixed body of the push notification.
	StudyStartPushBody = "Tik om te kijken wie er nu studeert."
)

// NotificationRecord is written to notifications/{ownerUid}/items.
// A zero CreatedAt is replaced by the server commit timestamp.
type NotificationRecord struct {
	Title     string    `firestore:"title"`
	Body      string    `firestore:"body"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
	Type      string    `firestore:"type"`
	FriendUID string    `firestore:"friendUid"`
}

// DeliverySummary reports the aggregate outcome of one push fan-out.
type DeliverySummary struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// StudyChange is one observed update of a user document.
// A nil Before or After means that snapshot was absent.
type StudyChange struct {
	UID     string
	EventID string
	Before  *UserRecord
	After   *UserRecord
}

// DisplayName returns the name shown to friends.
func DisplayName(user *UserRecord) string {
	if user == nil || user.Name == "" {
		return FallbackDisplayName
	}
	return user.Name
}

// StudyStartTitle renders the title shared by the push and the in-app record.
func StudyStartTitle(displayName string) string {
	return fmt.Sprintf("%s is gestart met studeren!", displayName)
}

// NewStudyStartNotification builds the in-app record announcing that friendUID started studying.
func NewStudyStartNotification(friendUID, title string) NotificationRecord {
	return NotificationRecord{
		Title:     title,
		Body:      "",
		Type:      NotificationTypeFriendStudyStart,
		FriendUID: friendUID,
	}
}
