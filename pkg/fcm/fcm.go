package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// MaxMulticastTokens is the FCM limit on tokens per multicast request
const MaxMulticastTokens = 500

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
	logger          *zap.Logger
}

// NewClient creates a new FCM client from an initialized Firebase app
func NewClient(ctx context.Context, app *firebase.App, logger *zap.Logger) (*Client, error) {
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Info("FCM client initialized")
	return &Client{
		messagingClient: messagingClient,
		logger:          logger,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload
}

// MulticastResult aggregates per-token outcomes of a multicast send
type MulticastResult struct {
	SuccessCount int
	FailureCount int
}

// SendMulticast sends notification to every token. Token sets above
// MaxMulticastTokens are split into consecutive requests and the counts summed.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, notification NotificationData) (MulticastResult, error) {
	var result MulticastResult
	for _, chunk := range Chunk(tokens, MaxMulticastTokens) {
		response, err := c.messagingClient.SendEachForMulticast(ctx, buildMulticast(chunk, notification))
		if err != nil {
			return result, fmt.Errorf("failed to send FCM multicast message: %w", err)
		}

		result.SuccessCount += response.SuccessCount
		result.FailureCount += response.FailureCount
		for i, resp := range response.Responses {
			if !resp.Success {
				c.logger.Debug("FCM delivery failed",
					zap.String("token", maskToken(chunk[i])),
					zap.Error(resp.Error),
				)
			}
		}
	}

	c.logger.Info("FCM multicast sent",
		zap.Int("success", result.SuccessCount),
		zap.Int("failure", result.FailureCount),
	)
	return result, nil
}

func buildMulticast(tokens []string, notification NotificationData) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}
}

// Chunk splits tokens into slices of at most size elements
func Chunk(tokens []string, size int) [][]string {
	var chunks [][]string
	for len(tokens) > size {
		chunks = append(chunks, tokens[:size])
		tokens = tokens[size:]
	}
	if len(tokens) > 0 {
		chunks = append(chunks, tokens)
	}
	return chunks
}

func maskToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
