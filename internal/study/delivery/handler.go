package delivery

import (
	"io"
	"net/http"

	"studybuddy-functions/internal/study/usecase"
	"studybuddy-functions/pkg/firestoreevent"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxEventBytes bounds the request body; user documents are small
const maxEventBytes = 1 << 20

type StudyEventHandler struct {
	notifier        usecase.StudyStartNotifier
	usersCollection string
	logger          *zap.Logger
}

func NewStudyEventHandler(notifier usecase.StudyStartNotifier, usersCollection string, logger *zap.Logger) *StudyEventHandler {
	return &StudyEventHandler{
		notifier:        notifier,
		usersCollection: usersCollection,
		logger:          logger,
	}
}

// UserUpdated handles a users/{uid} update delivered over HTTP, either as
// the raw Firestore event or wrapped in a Pub/Sub push envelope.
func (h *StudyEventHandler) UserUpdated(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxEventBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	payload, eventID, err := UnwrapPushEnvelope(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if eventID == "" {
		eventID = c.GetHeader("ce-id")
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	change, err := firestoreevent.Decode(payload, h.usersCollection)
	if err != nil {
		h.logger.Warn("Rejecting undecodable user event", zap.String("event_id", eventID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	change.EventID = eventID

	summary, err := h.notifier.Handle(c.Request.Context(), change)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if summary == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, summary)
}
