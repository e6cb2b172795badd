package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	studyDelivery "studybuddy-functions/internal/study/delivery"
	studyUsecase "studybuddy-functions/internal/study/usecase"
	"studybuddy-functions/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	studyHandler *studyDelivery.StudyEventHandler
	config       *config.Config
	logger       *zap.Logger
}

func NewHandler(notifier studyUsecase.StudyStartNotifier, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		studyHandler: studyDelivery.NewStudyEventHandler(notifier, cfg.UsersCollection, logger),
		config:       cfg,
		logger:       logger,
	}
}

// Engine builds the gin engine with all routes registered
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())
	SetupRoutes(r, h.studyHandler)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.config.ShutdownTimeout)
	defer cancel()
	h.logger.Info("Server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
