package domain

import (
	"math"
	"strings"
)

// UserRecord is the read-only view of a document in the users collection.
type UserRecord struct {
	UID        string
	Name       string
	IsStudying bool
	Friends    []string
	FCMToken   string
	// DroppedFriends counts friends entries that were not usable uids.
	DroppedFriends int
}

// UserFromFields builds a UserRecord from decoded document fields.
// Missing or mistyped fields fall back to their zero value.
func UserFromFields(uid string, fields map[string]interface{}) *UserRecord {
	user := &UserRecord{UID: uid}
	if name, ok := fields["name"].(string); ok {
		user.Name = name
	}
	user.IsStudying = Truthy(fields["isStudying"])
	if token, ok := fields["fcmToken"].(string); ok {
		user.FCMToken = token
	}
	if list, ok := fields["friends"].([]interface{}); ok {
		for _, entry := range list {
			id, ok := entry.(string)
			if !ok || id == "" || strings.Contains(id, "/") {
				user.DroppedFriends++
				continue
			}
			user.Friends = append(user.Friends, id)
		}
	}
	return user
}

// HasPushToken reports whether the record carries a usable FCM registration token.
func (u *UserRecord) HasPushToken() bool {
	return u != nil && u.FCMToken != ""
}

// Truthy coerces a decoded document value to a boolean the way a loosely
// typed client would: nil, false, zero numbers and empty strings are false.
func Truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}
