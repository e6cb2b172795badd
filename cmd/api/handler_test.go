package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studybuddy-functions/internal/study/domain"
	"studybuddy-functions/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noopNotifier struct{}

func (noopNotifier) Handle(context.Context, domain.StudyChange) (*domain.DeliverySummary, error) {
	return nil, nil
}

func newTestEngine() *gin.Engine {
	cfg := &config.Config{UsersCollection: "users"}
	return NewHandler(noopNotifier{}, cfg, zap.NewNop()).Engine()
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUserUpdatedRoute(t *testing.T) {
	body := `{"oldValue": {}, "value": {"name": "projects/p/databases/(default)/documents/users/U1", "fields": {}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/events/user-updated", strings.NewReader(body))
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
