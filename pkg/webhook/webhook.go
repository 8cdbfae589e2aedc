// Package webhook provides HTTP notification support for run events.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/migmedia/zfs-snappers/pkg/config"
	"github.com/migmedia/zfs-snappers/pkg/logging"
)

// EventType represents the type of run event that can trigger webhooks.
type EventType string

const (
	EventSnapshotCreated   EventType = "snapshot.created"
	EventSnapshotDestroyed EventType = "snapshot.destroyed"
	EventActionFailed      EventType = "action.failed"
	EventRunComplete       EventType = "run.complete"
)

// Event represents an event payload sent to webhooks.
type Event struct {
	Event     EventType      `json:"event"`
	Timestamp string         `json:"timestamp"`
	Label     string         `json:"label,omitempty"`
	Dataset   string         `json:"dataset,omitempty"`
	Snapshot  string         `json:"snapshot,omitempty"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

const defaultTimeout = 10 * time.Second

// Notifier sends run events to the configured webhook endpoints. Sends
// are synchronous; a snapshot run is a handful of actions and the caller
// wants every notification flushed before the process exits.
type Notifier struct {
	cfg config.WebhooksConfig
	log *logging.Logger
}

// NewNotifier creates a Notifier from the webhook configuration.
func NewNotifier(cfg config.WebhooksConfig, log *logging.Logger) *Notifier {
	return &Notifier{cfg: cfg, log: log}
}

// Enabled reports whether any endpoint is configured.
func (n *Notifier) Enabled() bool {
	return n.cfg.Enabled && len(n.cfg.Hooks) > 0
}

// Send delivers the event to every matching hook. A failing endpoint is
// logged and does not affect the run outcome.
func (n *Notifier) Send(ctx context.Context, event Event) {
	if !n.Enabled() {
		return
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.log.ErrorErr("marshal webhook payload", err)
		return
	}

	for _, hook := range n.cfg.Hooks {
		if !matchesEvent(hook, event.Event) {
			continue
		}
		if err := n.post(ctx, hook, payload); err != nil {
			n.log.ErrorErr("webhook delivery failed", err, map[string]any{
				"url":   hook.URL,
				"event": string(event.Event),
			})
		}
	}
}

func matchesEvent(hook config.HookConfig, et EventType) bool {
	if len(hook.Events) == 0 {
		return true
	}
	for _, e := range hook.Events {
		if EventType(e) == et {
			return true
		}
	}
	return false
}

func (n *Notifier) post(ctx context.Context, hook config.HookConfig, payload []byte) error {
	timeout := defaultTimeout
	if hook.Timeout != "" {
		if d, err := time.ParseDuration(hook.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "zfs-snappers-webhook/1.0")
	if hook.Secret != "" {
		req.Header.Set("X-Snappers-Signature", Sign(hook.Secret, payload))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Sign computes the hex-encoded HMAC-SHA256 signature of the payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
