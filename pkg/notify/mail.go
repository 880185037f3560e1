package notify

import (
	"context"
	"regexp"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/wneessen/go-mail"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Mail delivers notifications over SMTP.
type Mail struct {
	base
	client *mail.Client
	from   string
}

func NewMail(client *mail.Client, from string, options ...Option) *Mail {
	ch := &Mail{
		base: base{
			kind: types.ChannelMail,
			features: model.ChannelFeatures{
				RichText:         true,
				Images:           true,
				MaxMessageLength: 100000,
				Batching:         true,
			},
			limiter: newRateWindow(5, time.Minute),
		},
		client: client,
		from:   from,
	}
	for _, opt := range options {
		opt(&ch.base)
	}
	return ch
}

func (x *Mail) ValidateRecipient(recipient string) bool {
	return emailPattern.MatchString(recipient)
}

func (x *Mail) Send(ctx context.Context, payload *model.NotificationPayload, recipient string) *model.DeliveryResult {
	return x.send(ctx, payload, recipient, x.transport)
}

func (x *Mail) transport(ctx context.Context, payload *model.NotificationPayload, recipient string) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(x.from); err != nil {
		return "", goerr.Wrap(err, "invalid sender address", goerr.V("from", x.from))
	}
	if err := msg.To(recipient); err != nil {
		return "", goerr.Wrap(err, "invalid recipient address")
	}
	msg.Subject(payload.Title)
	msg.SetBodyString(mail.TypeTextPlain, payload.Body)
	msg.SetMessageID()

	if err := x.client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", goerr.Wrap(err, "failed to send mail")
	}
	return msg.GetMessageID(), nil
}
