// Package firestoreevent decodes Firestore document change events delivered
// as JSON by Cloud Functions, Eventarc or a Pub/Sub relay.
package firestoreevent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"studybuddy-functions/internal/study/domain"
)

var (
	ErrMalformedEvent  = errors.New("malformed firestore event")
	ErrUnexpectedPath  = errors.New("document is not in the users collection")
	ErrMissingDocument = errors.New("event carries no document name")
)

// Event is a document write with the state before and after it.
type Event struct {
	OldValue Document `json:"oldValue"`
	Value    Document `json:"value"`
}

// Document is a Firestore document in REST encoding. A zero Name means
// the snapshot is absent.
type Document struct {
	Name       string           `json:"name"`
	Fields     map[string]Value `json:"fields"`
	CreateTime *time.Time       `json:"createTime,omitempty"`
	UpdateTime *time.Time       `json:"updateTime,omitempty"`
}

// Decode parses a user document update into a StudyChange.
func Decode(data []byte, usersCollection string) (domain.StudyChange, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return domain.StudyChange{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return ev.StudyChange(usersCollection)
}

// StudyChange converts the event into the domain change value.
func (ev Event) StudyChange(usersCollection string) (domain.StudyChange, error) {
	name := ev.Value.Name
	if name == "" {
		name = ev.OldValue.Name
	}
	if name == "" {
		return domain.StudyChange{}, ErrMissingDocument
	}

	uid, err := DocumentID(name, usersCollection)
	if err != nil {
		return domain.StudyChange{}, err
	}

	before, err := ev.OldValue.user(uid)
	if err != nil {
		return domain.StudyChange{}, fmt.Errorf("oldValue: %w", err)
	}
	after, err := ev.Value.user(uid)
	if err != nil {
		return domain.StudyChange{}, fmt.Errorf("value: %w", err)
	}

	return domain.StudyChange{UID: uid, Before: before, After: after}, nil
}

func (d Document) user(uid string) (*domain.UserRecord, error) {
	if d.Name == "" {
		return nil, nil
	}
	fields, err := decodeFields(d.Fields)
	if err != nil {
		return nil, err
	}
	return domain.UserFromFields(uid, fields), nil
}

// DocumentID extracts the id of a top level document in collection from a
// full resource name such as
// projects/p/databases/(default)/documents/users/abc.
func DocumentID(name, collection string) (string, error) {
	path := name
	if i := strings.Index(name, "/documents/"); i >= 0 {
		path = name[i+len("/documents/"):]
	}

	segments := strings.Split(path, "/")
	if len(segments) != 2 || segments[0] != collection || segments[1] == "" {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedPath, name)
	}
	return segments[1], nil
}
