package usecase

import (
	"context"

	"studybuddy-functions/internal/study/domain"
	"studybuddy-functions/pkg/fcm"
)

// StudyStartNotifier defines the reaction to a user document update
type StudyStartNotifier interface {
	// Handle notifies the user's friends when isStudying rises from false to
	// true. It returns nil, nil when the change requires no action.
	Handle(ctx context.Context, change domain.StudyChange) (*domain.DeliverySummary, error)
}

// PushSender delivers one notification to many device tokens
type PushSender interface {
	SendMulticast(ctx context.Context, tokens []string, notification fcm.NotificationData) (fcm.MulticastResult, error)
}
