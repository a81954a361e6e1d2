package ses

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"insurevis/internal/config"
	"insurevis/internal/domain"
	"insurevis/internal/port"
)

// EmailAPI is the subset of the SES v2 client used here.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesNotifier struct {
	client    EmailAPI
	users     port.UserRepository
	from      string
	portalURL string
}

// NewNotifier creates an SES-backed Notifier that emails the claim owner.
func NewNotifier(ctx context.Context, cfg config.EmailConfig, users port.UserRepository) (port.Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewNotifierWithClient(sesv2.NewFromConfig(awsCfg), cfg, users), nil
}

// NewNotifierWithClient creates an SES Notifier around an existing client.
func NewNotifierWithClient(client EmailAPI, cfg config.EmailConfig, users port.UserRepository) port.Notifier {
	return &sesNotifier{
		client:    client,
		users:     users,
		from:      fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
		portalURL: strings.TrimRight(cfg.PortalURL, "/"),
	}
}

func (s *sesNotifier) Name() string { return "ses" }

func (s *sesNotifier) Notify(ctx context.Context, n domain.Notification) domain.DeliveryResult {
	user, err := s.users.GetByID(ctx, n.TargetUserID)
	if err != nil {
		return domain.DeliveryResult{Error: fmt.Sprintf("looking up claim owner: %v", err)}
	}
	if user.Email == "" {
		return domain.DeliveryResult{Error: "claim owner has no email address"}
	}

	claimURL := fmt.Sprintf("%s/claims/%s", s.portalURL, url.PathEscape(n.ClaimID.String()))
	subject := n.Title
	htmlBody := buildNotificationHTML(user.FullName, n, claimURL)
	textBody := fmt.Sprintf("Hi %s,\n\n%s\n\n%s\n\nInsureVis Team", greetingName(user.FullName), n.Body, claimURL)

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.from,
		Destination: &types.Destination{
			ToAddresses: []string{user.Email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return domain.DeliveryResult{Error: fmt.Sprintf("SES SendEmail: %v", err)}
	}
	result := domain.DeliveryResult{OK: true, StatusCode: 200}
	if out != nil && out.MessageId != nil {
		result.Data = []byte(fmt.Sprintf("%q", *out.MessageId))
	}
	return result
}

func greetingName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}

func buildNotificationHTML(name string, n domain.Notification, claimURL string) string {
	body := strings.ReplaceAll(html.EscapeString(n.Body), "\n", "<br>")
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Hi %s,</p>
  <p>%s</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Claim</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">InsureVis - Vehicle Insurance Claims</p>
</body>
</html>`, html.EscapeString(n.Title), html.EscapeString(greetingName(name)), body, html.EscapeString(claimURL))
}
