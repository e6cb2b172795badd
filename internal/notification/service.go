package notification

import (
	"context"
	"fmt"
	"time"

	"studybuddy-functions/internal/study/delivery"
	"studybuddy-functions/internal/study/usecase"
	"studybuddy-functions/pkg/firestoreevent"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

// Service consumes user update events from a Pub/Sub subscription
type Service struct {
	pubsubClient    *pubsub.Client
	notifier        usecase.StudyStartNotifier
	usersCollection string
	topicName       string
	subName         string
	logger          *zap.Logger
}

func NewService(client *pubsub.Client, topicName, subName string, notifier usecase.StudyStartNotifier, usersCollection string, logger *zap.Logger) *Service {
	return &Service{
		pubsubClient:    client,
		notifier:        notifier,
		usersCollection: usersCollection,
		topicName:       topicName,
		subName:         subName,
		logger:          logger.With(zap.String("subscription", subName)),
	}
}

// Start blocks receiving messages until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	sub, err := s.ensureSubscription(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("Listening for user update events")
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if s.handleMessage(ctx, msg.Data, msg.ID) {
			msg.Ack()
		} else {
			msg.Nack()
		}
	})
}

// ensureSubscription creates the subscription on the configured topic when missing
func (s *Service) ensureSubscription(ctx context.Context) (*pubsub.Subscription, error) {
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check subscription %s: %w", s.subName, err)
	}
	if exists {
		return sub, nil
	}

	if s.topicName == "" {
		return nil, fmt.Errorf("subscription %s does not exist and no topic is configured", s.subName)
	}
	topic := s.pubsubClient.Topic(s.topicName)
	topicExists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check topic %s: %w", s.topicName, err)
	}
	if !topicExists {
		return nil, fmt.Errorf("topic %s does not exist, cannot create subscription", s.topicName)
	}

	sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription %s: %w", s.subName, err)
	}
	s.logger.Info("Created subscription", zap.String("topic", s.topicName))
	return sub, nil
}

// handleMessage reports whether the message should be acked. Undecodable
// messages are acked so they are not redelivered forever; collaborator
// failures are nacked for redelivery.
func (s *Service) handleMessage(ctx context.Context, data []byte, messageID string) bool {
	payload, _, err := delivery.UnwrapPushEnvelope(data)
	if err != nil {
		s.logger.Warn("Dropping malformed message", zap.String("message_id", messageID), zap.Error(err))
		return true
	}

	change, err := firestoreevent.Decode(payload, s.usersCollection)
	if err != nil {
		s.logger.Warn("Dropping undecodable user event", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	change.EventID = messageID

	if _, err := s.notifier.Handle(ctx, change); err != nil {
		s.logger.Error("Failed to handle user event", zap.String("message_id", messageID), zap.Error(err))
		return false
	}
	return true
}
