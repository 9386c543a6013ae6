// Package notify delivers user-facing event notifications to an external
// mail relay. Delivery is strictly best-effort: no caller treats a failed
// send as an operation failure.
package notify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wallpix/backend/pkg/logger"
)

const (
	EventDraftCreated    = "draft_created"
	EventDraftDeleted    = "draft_deleted"
	EventUpgradeApproved = "upgrade_approved"
	EventUpgradeRejected = "upgrade_rejected"
)

type Notifier interface {
	Send(recipient, event string, data map[string]interface{}) bool
}

// RelayNotifier posts notification events as JSON to a mail relay webhook.
type RelayNotifier struct {
	URL    string
	Client *http.Client
}

func NewRelayNotifier(url string) *RelayNotifier {
	return &RelayNotifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type relayPayload struct {
	Recipient string                 `json:"recipient"`
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

func (n *RelayNotifier) Send(recipient, event string, data map[string]interface{}) bool {
	body, err := json.Marshal(relayPayload{Recipient: recipient, Event: event, Data: data})
	if err != nil {
		logger.Error("notification_encode_failed", err, map[string]interface{}{"event": event})
		return false
	}

	resp, err := n.Client.Post(n.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Warn("notification_send_failed", map[string]interface{}{
			"event":     event,
			"recipient": recipient,
			"error":     err.Error(),
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logger.Warn("notification_relay_rejected", map[string]interface{}{
			"event":  event,
			"status": resp.StatusCode,
		})
		return false
	}

	return true
}

// NopNotifier drops every notification. Used when no relay is configured
// and in tests.
type NopNotifier struct{}

func (NopNotifier) Send(string, string, map[string]interface{}) bool { return true }

// Dispatch sends in the background so callers never wait on relay I/O.
func Dispatch(n Notifier, recipient, event string, data map[string]interface{}) {
	if n == nil {
		return
	}
	go func() {
		_ = n.Send(recipient, event, data)
	}()
}
