package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	api "studybuddy-functions/cmd/api"
	"studybuddy-functions/internal/notification"
	studyRepo "studybuddy-functions/internal/study/repository"
	studyUsecase "studybuddy-functions/internal/study/usecase"
	"studybuddy-functions/pkg/config"
	"studybuddy-functions/pkg/fcm"
	"studybuddy-functions/pkg/firebaseapp"
	"studybuddy-functions/pkg/logger"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One Firebase app shared by Firestore and FCM
	app, err := firebaseapp.NewApp(ctx, cfg.GoogleProjectID, cfg.FirebaseCredentials)
	if err != nil {
		zl.Fatal("Failed to initialize Firebase", zap.Error(err))
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		zl.Fatal("Failed to create Firestore client", zap.Error(err))
	}
	defer firestoreClient.Close()

	fcmClient, err := fcm.NewClient(ctx, app, zl)
	if err != nil {
		zl.Fatal("Failed to initialize FCM client", zap.Error(err))
	}

	// Initialize repositories (dependency injection)
	userRepo := studyRepo.NewUserRepository(firestoreClient, cfg.UsersCollection)
	notificationRepo := studyRepo.NewNotificationRepository(firestoreClient, cfg.NotificationsCollection)

	notifier := studyUsecase.NewStudyStartNotifier(userRepo, notificationRepo, fcmClient, zl)

	// Pull subscriber is optional; HTTP delivery always runs
	if cfg.StudyEventsSubscription != "" {
		var opts []option.ClientOption
		if cfg.FirebaseCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
		}
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GoogleProjectID, opts...)
		if err != nil {
			zl.Fatal("Failed to create Pub/Sub client", zap.Error(err))
		}
		defer pubsubClient.Close()

		subscriber := notification.NewService(pubsubClient, cfg.StudyEventsTopic, cfg.StudyEventsSubscription, notifier, cfg.UsersCollection, zl)
		go func() {
			if err := subscriber.Start(ctx); err != nil {
				zl.Error("Pub/Sub subscriber stopped", zap.Error(err))
			}
		}()
	} else {
		zl.Info("STUDY_EVENTS_SUBSCRIPTION not configured, Pub/Sub subscriber disabled")
	}

	handler := api.NewHandler(notifier, cfg, zl)
	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		zl.Fatal("Server failed", zap.Error(err))
	}
}
