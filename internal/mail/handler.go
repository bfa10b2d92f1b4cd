package mail

import (
	"context"
	"encoding/json"
	"fmt"
)

// DeliveryHandler returns a task-queue handler that decodes a Message
// payload and delivers it through the sender.
func DeliveryHandler(sender Sender) func(ctx context.Context, payload []byte) error {
	return func(ctx context.Context, payload []byte) error {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("failed to decode mail payload: %w", err)
		}
		return sender.Send(msg)
	}
}
