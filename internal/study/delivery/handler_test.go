package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"studybuddy-functions/internal/study/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubNotifier struct {
	summary *domain.DeliverySummary
	err     error
	changes []domain.StudyChange
}

func (s *stubNotifier) Handle(_ context.Context, change domain.StudyChange) (*domain.DeliverySummary, error) {
	s.changes = append(s.changes, change)
	return s.summary, s.err
}

const userUpdatedEvent = `{
  "oldValue": {"name": "projects/p/databases/(default)/documents/users/U1", "fields": {"isStudying": {"booleanValue": false}}},
  "value": {"name": "projects/p/databases/(default)/documents/users/U1", "fields": {
    "isStudying": {"booleanValue": true},
    "friends": {"arrayValue": {"values": [{"stringValue": "F1"}]}}
  }}
}`

func setupRouter(n *stubNotifier) *gin.Engine {
	r := gin.New()
	h := NewStudyEventHandler(n, "users", zap.NewNop())
	r.POST("/api/events/user-updated", h.UserUpdated)
	return r
}

func post(r *gin.Engine, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/events/user-updated", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserUpdatedReturnsSummary(t *testing.T) {
	n := &stubNotifier{summary: &domain.DeliverySummary{Sent: 2, Failed: 1}}
	w := post(setupRouter(n), []byte(userUpdatedEvent), map[string]string{"ce-id": "evt-42"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var got domain.DeliverySummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Sent != 2 || got.Failed != 1 {
		t.Errorf("summary = %+v, want sent 2 failed 1", got)
	}

	if len(n.changes) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(n.changes))
	}
	change := n.changes[0]
	if change.UID != "U1" || change.EventID != "evt-42" {
		t.Errorf("change uid/event = %q/%q, want U1/evt-42", change.UID, change.EventID)
	}
	if change.After == nil || !change.After.IsStudying || len(change.After.Friends) != 1 {
		t.Errorf("after = %+v", change.After)
	}
}

func TestUserUpdatedNoOp(t *testing.T) {
	n := &stubNotifier{}
	w := post(setupRouter(n), []byte(userUpdatedEvent), nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if len(n.changes) != 1 || n.changes[0].EventID == "" {
		t.Errorf("expected one call with a generated event id, got %+v", n.changes)
	}
}

func TestUserUpdatedPushEnvelope(t *testing.T) {
	n := &stubNotifier{summary: &domain.DeliverySummary{}}
	envelope, _ := json.Marshal(map[string]interface{}{
		"message": map[string]string{
			"data":      base64.StdEncoding.EncodeToString([]byte(userUpdatedEvent)),
			"messageId": "msg-7",
		},
		"subscription": "projects/p/subscriptions/user-updates",
	})

	w := post(setupRouter(n), envelope, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if n.changes[0].EventID != "msg-7" || n.changes[0].UID != "U1" {
		t.Errorf("change = %+v", n.changes[0])
	}
}

func TestUserUpdatedBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `nope`},
		{"no document", `{"oldValue": {}, "value": {}}`},
		{"wrong collection", `{"value": {"name": "projects/p/databases/(default)/documents/rooms/R1"}}`},
		{"bad envelope data", `{"message": {"data": "%%%"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &stubNotifier{}
			w := post(setupRouter(n), []byte(tt.body), nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if len(n.changes) != 0 {
				t.Error("notifier should not be called")
			}
		})
	}
}

func TestUserUpdatedCollaboratorFailure(t *testing.T) {
	n := &stubNotifier{err: &domain.CollaboratorError{Kind: domain.ErrCollaboratorWrite, Op: "create notifications", Err: errors.New("aborted")}}
	w := post(setupRouter(n), []byte(userUpdatedEvent), nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestUnwrapPushEnvelopePassthrough(t *testing.T) {
	body := []byte(userUpdatedEvent)
	payload, id, err := UnwrapPushEnvelope(body)
	if err != nil {
		t.Fatalf("UnwrapPushEnvelope error: %v", err)
	}
	if id != "" || !bytes.Equal(payload, body) {
		t.Errorf("raw event should pass through unchanged, got id %q", id)
	}
}
