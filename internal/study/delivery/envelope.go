package delivery

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidEnvelope = errors.New("invalid pub/sub push envelope")

// pushEnvelope is the body Pub/Sub push subscriptions POST to an endpoint
type pushEnvelope struct {
	Message *struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// UnwrapPushEnvelope returns the inner event and message id when body is a
// Pub/Sub push envelope, or body itself otherwise.
func UnwrapPushEnvelope(body []byte) ([]byte, string, error) {
	var env pushEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Message == nil {
		return body, "", nil
	}

	data, err := base64.StdEncoding.DecodeString(env.Message.Data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	return data, env.Message.MessageID, nil
}
