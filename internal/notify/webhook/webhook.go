// Package webhook delivers claim notifications to a push-notification function over HTTP.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"insurevis/internal/domain"
	"insurevis/internal/port"
)

const maxResponseBytes = 64 << 10

type payload struct {
	TargetUserID string                 `json:"targetUserId"`
	Title        string                 `json:"title"`
	Body         string                 `json:"body"`
	Status       domain.NotificationTag `json:"status,omitempty"`
}

type notifier struct {
	url    string
	key    string
	client *http.Client
}

// NewNotifier creates a Notifier that POSTs to url with key as a Bearer token.
// A nil client uses http.DefaultClient; deadlines come from the caller's context.
func NewNotifier(url, key string, client *http.Client) port.Notifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &notifier{url: url, key: key, client: client}
}

func (n *notifier) Name() string { return "webhook" }

func (n *notifier) Notify(ctx context.Context, msg domain.Notification) domain.DeliveryResult {
	if msg.TargetUserID == uuid.Nil {
		return domain.DeliveryResult{Error: "missing target user"}
	}
	title := msg.Title
	if title == "" {
		title = "Notification"
	}
	body, err := json.Marshal(payload{
		TargetUserID: msg.TargetUserID.String(),
		Title:        title,
		Body:         msg.Body,
		Status:       msg.Tag,
	})
	if err != nil {
		return domain.DeliveryResult{Error: fmt.Sprintf("encoding payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return domain.DeliveryResult{Error: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if n.key != "" {
		req.Header.Set("Authorization", "Bearer "+n.key)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.DeliveryResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.DeliveryResult{StatusCode: resp.StatusCode, Error: fmt.Sprintf("reading response: %v", err)}
	}
	result := domain.DeliveryResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Data:       responseData(raw),
	}
	if !result.OK {
		result.Error = fmt.Sprintf("push function returned %d", resp.StatusCode)
	}
	return result
}

// responseData keeps a JSON response as-is and wraps anything else as a JSON string.
func responseData(raw []byte) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
