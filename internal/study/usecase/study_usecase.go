package usecase

import (
	"context"
	"errors"

	"studybuddy-functions/internal/study/domain"
	"studybuddy-functions/internal/study/repository"
	"studybuddy-functions/pkg/fcm"
	"studybuddy-functions/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type studyStartNotifier struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	push             PushSender
	logger           *zap.Logger
}

// NewStudyStartNotifier creates the study start handler
func NewStudyStartNotifier(
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	push PushSender,
	logger *zap.Logger,
) StudyStartNotifier {
	return &studyStartNotifier{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		push:             push,
		logger:           logger,
	}
}

func (n *studyStartNotifier) Handle(ctx context.Context, change domain.StudyChange) (*domain.DeliverySummary, error) {
	log := n.logger.With(zap.String("uid", change.UID), zap.String("event_id", change.EventID))

	if err := domain.CheckRisingEdge(change); err != nil {
		n.skip(log, err)
		return nil, nil
	}

	after := change.After
	if after.DroppedFriends > 0 {
		log.Warn("Ignoring friends entries that are not user ids", zap.Int("dropped", after.DroppedFriends))
	}
	friends := after.Friends
	if len(friends) == 0 {
		n.skip(log, domain.ErrEmptyFriendSet)
		return nil, nil
	}

	friendRecords, err := n.lookupFriends(ctx, friends)
	if err != nil {
		metrics.IncrementStudyEvent("error")
		log.Error("Failed to load friends", zap.Error(err))
		return nil, err
	}
	tokens := pushTokens(friendRecords)

	title := domain.StudyStartTitle(domain.DisplayName(after))
	summary := &domain.DeliverySummary{}

	if len(tokens) == 0 {
		log.Info("Skipping push", zap.NamedError("reason", domain.ErrNoValidTokens), zap.Int("friends", len(friends)))
	} else {
		result, err := n.push.SendMulticast(ctx, tokens, fcm.NotificationData{
			Title: title,
			Body:  domain.StudyStartPushBody,
			Data: map[string]string{
				"type":      domain.NotificationTypeFriendStudyStart,
				"friendUid": change.UID,
			},
		})
		if err != nil {
			metrics.IncrementStudyEvent("error")
			log.Error("Failed to send study start push", zap.Error(err), zap.Int("tokens", len(tokens)))
			return nil, &domain.CollaboratorError{Kind: domain.ErrCollaboratorSend, Op: "send multicast", Err: err}
		}
		summary.Sent = result.SuccessCount
		summary.Failed = result.FailureCount
		metrics.RecordPushDeliveries(summary.Sent, summary.Failed)
	}

	// In-app items go to every friend, with or without a push token
	record := domain.NewStudyStartNotification(change.UID, title)
	if err := n.notificationRepo.CreateForOwners(ctx, friends, record); err != nil {
		metrics.IncrementStudyEvent("error")
		log.Error("Failed to write in-app notifications", zap.Error(err), zap.Int("friends", len(friends)))
		return nil, &domain.CollaboratorError{Kind: domain.ErrCollaboratorWrite, Op: "create notifications", Err: err}
	}
	metrics.AddNotificationItems(len(friends))
	metrics.IncrementStudyEvent("notified")

	log.Info("Notified friends of study start",
		zap.Int("friends", len(friends)),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// lookupFriends reads every friend document concurrently. The result is
// index aligned with uids; missing documents are nil. The first failed read
// cancels the rest.
func (n *studyStartNotifier) lookupFriends(ctx context.Context, uids []string) ([]*domain.UserRecord, error) {
	records := make([]*domain.UserRecord, len(uids))
	g, gctx := errgroup.WithContext(ctx)
	for i, uid := range uids {
		g.Go(func() error {
			user, err := n.userRepo.FindByID(gctx, uid)
			if err != nil {
				return &domain.CollaboratorError{Kind: domain.ErrCollaboratorRead, Op: "get user " + uid, Err: err}
			}
			records[i] = user
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func pushTokens(records []*domain.UserRecord) []string {
	var tokens []string
	for _, r := range records {
		if r.HasPushToken() {
			tokens = append(tokens, r.FCMToken)
		}
	}
	return tokens
}

func (n *studyStartNotifier) skip(log *zap.Logger, reason error) {
	outcome := "skipped"
	switch {
	case errors.Is(reason, domain.ErrMissingSnapshot):
		outcome = "missing_snapshot"
	case errors.Is(reason, domain.ErrNotRisingEdge):
		outcome = "not_rising_edge"
	case errors.Is(reason, domain.ErrEmptyFriendSet):
		outcome = "empty_friends"
	}
	metrics.IncrementStudyEvent(outcome)
	log.Debug("No notification needed", zap.NamedError("reason", reason))
}
