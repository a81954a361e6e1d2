// Package notify assembles the configured claim-owner notification channels.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"insurevis/internal/config"
	"insurevis/internal/notify/noop"
	"insurevis/internal/notify/ses"
	"insurevis/internal/notify/webhook"
	"insurevis/internal/port"
)

// Channels builds one Notifier per entry of cfg.Notify.Channels. An empty
// list yields the noop channel.
func Channels(ctx context.Context, cfg *config.Config, users port.UserRepository) ([]port.Notifier, error) {
	names := cfg.Notify.Channels
	if len(names) == 0 {
		names = []string{"noop"}
	}

	var out []port.Notifier
	seen := map[string]bool{}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case "noop":
			out = append(out, noop.NewNotifier())
		case "webhook":
			if cfg.Notify.WebhookURL == "" {
				return nil, fmt.Errorf("notify channel webhook requires notify.webhook_url")
			}
			out = append(out, webhook.NewNotifier(cfg.Notify.WebhookURL, cfg.Notify.WebhookKey, &http.Client{}))
		case "ses":
			n, err := ses.NewNotifier(ctx, cfg.Email, users)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		default:
			return nil, fmt.Errorf("unknown notify channel %q", name)
		}
	}
	return out, nil
}
