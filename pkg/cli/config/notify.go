package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/infra"
	"github.com/secmon-lab/argus/pkg/notify"
	"github.com/urfave/cli/v3"
	"github.com/wneessen/go-mail"
)

// Notify configures the delivery channels. Each channel activates when its
// recipient flag is set; the in-process feed is always on.
type Notify struct {
	slackWebhookURL string `masq:"secret"`
	slackChannel    string

	smtpHost     string
	smtpPort     int
	smtpUser     string
	smtpPassword string `masq:"secret"`
	mailFrom     string
	mailTo       string

	callbackURL string

	feedCapacity int
	feedTag      string

	lowRateMax    int
	lowRateWindow time.Duration
}

func (x *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL",
			Category:    "Notify",
			Destination: &x.slackWebhookURL,
			Sources:     cli.EnvVars("ARGUS_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel to notify (e.g. #security)",
			Category:    "Notify",
			Destination: &x.slackChannel,
			Sources:     cli.EnvVars("ARGUS_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP server host",
			Category:    "Notify",
			Destination: &x.smtpHost,
			Sources:     cli.EnvVars("ARGUS_SMTP_HOST"),
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP server port",
			Category:    "Notify",
			Value:       587,
			Destination: &x.smtpPort,
			Sources:     cli.EnvVars("ARGUS_SMTP_PORT"),
		},
		&cli.StringFlag{
			Name:        "smtp-user",
			Usage:       "SMTP user name",
			Category:    "Notify",
			Destination: &x.smtpUser,
			Sources:     cli.EnvVars("ARGUS_SMTP_USER"),
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password",
			Category:    "Notify",
			Destination: &x.smtpPassword,
			Sources:     cli.EnvVars("ARGUS_SMTP_PASSWORD"),
		},
		&cli.StringFlag{
			Name:        "mail-from",
			Usage:       "Sender address of alert mails",
			Category:    "Notify",
			Destination: &x.mailFrom,
			Sources:     cli.EnvVars("ARGUS_MAIL_FROM"),
		},
		&cli.StringFlag{
			Name:        "mail-to",
			Usage:       "Recipient address of alert mails",
			Category:    "Notify",
			Destination: &x.mailTo,
			Sources:     cli.EnvVars("ARGUS_MAIL_TO"),
		},
		&cli.StringFlag{
			Name:        "callback-url",
			Usage:       "HTTP endpoint notified on alerts",
			Category:    "Notify",
			Destination: &x.callbackURL,
			Sources:     cli.EnvVars("ARGUS_CALLBACK_URL"),
		},
		&cli.IntFlag{
			Name:        "feed-capacity",
			Usage:       "Entries kept in the in-process notification feed",
			Category:    "Notify",
			Value:       128,
			Destination: &x.feedCapacity,
			Sources:     cli.EnvVars("ARGUS_FEED_CAPACITY"),
		},
		&cli.StringFlag{
			Name:        "feed-tag",
			Usage:       "Tag recorded on feed entries",
			Category:    "Notify",
			Value:       "alerts",
			Destination: &x.feedTag,
			Sources:     cli.EnvVars("ARGUS_FEED_TAG"),
		},
		&cli.IntFlag{
			Name:        "notify-low-rate-max",
			Usage:       "Low-priority deliveries allowed per window on every channel (0 keeps channel defaults)",
			Category:    "Notify",
			Destination: &x.lowRateMax,
			Sources:     cli.EnvVars("ARGUS_NOTIFY_LOW_RATE_MAX"),
		},
		&cli.DurationFlag{
			Name:        "notify-low-rate-window",
			Usage:       "Window of the low-priority rate limit",
			Category:    "Notify",
			Value:       time.Minute,
			Destination: &x.lowRateWindow,
			Sources:     cli.EnvVars("ARGUS_NOTIFY_LOW_RATE_WINDOW"),
		},
	}
}

// Build assembles the dispatcher and the feed channel from the configured
// flags. The returned feed is always registered.
func (x *Notify) Build(clients *infra.Clients) (*notify.Dispatcher, *notify.Feed, error) {
	dispatcher := notify.NewDispatcher()

	var chOpts []notify.Option
	if x.lowRateMax > 0 {
		chOpts = append(chOpts, notify.WithRateLimit(x.lowRateMax, x.lowRateWindow))
	}

	feed := notify.NewFeed(x.feedCapacity, chOpts...)
	if err := dispatcher.Add(feed, x.feedTag); err != nil {
		return nil, nil, err
	}

	if x.slackChannel != "" {
		ch := notify.NewSlack(x.slackWebhookURL, nil, chOpts...)
		if err := dispatcher.Add(ch, x.slackChannel); err != nil {
			return nil, nil, err
		}
	}

	if x.mailTo != "" {
		if x.smtpHost == "" || x.mailFrom == "" {
			return nil, nil, goerr.New("mail-to requires smtp-host and mail-from")
		}

		mailOpts := []mail.Option{mail.WithPort(x.smtpPort)}
		if x.smtpUser != "" {
			mailOpts = append(mailOpts,
				mail.WithSMTPAuth(mail.SMTPAuthPlain),
				mail.WithUsername(x.smtpUser),
				mail.WithPassword(x.smtpPassword),
			)
		}
		client, err := mail.NewClient(x.smtpHost, mailOpts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create SMTP client")
		}

		if err := dispatcher.Add(notify.NewMail(client, x.mailFrom, chOpts...), x.mailTo); err != nil {
			return nil, nil, err
		}
	}

	if x.callbackURL != "" {
		ch := notify.NewCallback(clients.HTTPClient(), chOpts...)
		if err := dispatcher.Add(ch, x.callbackURL); err != nil {
			return nil, nil, err
		}
	}

	return dispatcher, feed, nil
}

func (x Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("slackWebhookURL.len", len(x.slackWebhookURL)),
		slog.Any("slackChannel", x.slackChannel),
		slog.Any("smtpHost", x.smtpHost),
		slog.Int("smtpPort", x.smtpPort),
		slog.Any("mailFrom", x.mailFrom),
		slog.Any("mailTo", x.mailTo),
		slog.Any("callbackURL", x.callbackURL),
		slog.Int("feedCapacity", x.feedCapacity),
		slog.Any("feedTag", x.feedTag),
		slog.Int("lowRateMax", x.lowRateMax),
		slog.Any("lowRateWindow", x.lowRateWindow),
	)
}
