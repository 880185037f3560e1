package notify

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/slack-go/slack"
)

const slackWebhookHost = "hooks.slack.com"

// Slack delivers notifications through an incoming webhook. A recipient is
// either a full webhook URL (which must carry the trusted Slack host) or a
// display sigil like #channel / @user, in which case the configured webhook
// URL is used.
type Slack struct {
	base
	webhookURL string
	httpClient *http.Client
}

func NewSlack(webhookURL string, httpClient *http.Client, options ...Option) *Slack {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	ch := &Slack{
		base: base{
			kind: types.ChannelSlack,
			features: model.ChannelFeatures{
				RichText:         true,
				Buttons:          true,
				Images:           true,
				MaxMessageLength: 40000,
			},
			limiter: newRateWindow(20, time.Minute),
		},
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
	for _, opt := range options {
		opt(&ch.base)
	}
	return ch
}

func (x *Slack) ValidateRecipient(recipient string) bool {
	if strings.HasPrefix(recipient, "#") || strings.HasPrefix(recipient, "@") {
		return len(recipient) > 1
	}

	u, err := url.Parse(recipient)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Host == slackWebhookHost
}

func (x *Slack) Send(ctx context.Context, payload *model.NotificationPayload, recipient string) *model.DeliveryResult {
	return x.send(ctx, payload, recipient, x.transport)
}

func (x *Slack) transport(ctx context.Context, payload *model.NotificationPayload, recipient string) (string, error) {
	endpoint := x.webhookURL
	if strings.HasPrefix(recipient, "https://") {
		endpoint = recipient
	}
	if endpoint == "" {
		return "", goerr.New("no slack webhook URL configured")
	}

	msg := &slack.WebhookMessage{
		Text: payload.Title + "\n" + payload.Body,
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, endpoint, x.httpClient, msg); err != nil {
		return "", goerr.Wrap(err, "failed to post slack webhook")
	}
	return "", nil
}
