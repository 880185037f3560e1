package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/argus/pkg/relay"
	"github.com/urfave/cli/v3"
)

// Relay configures the persistent event stream connection. The relay is
// optional; without an endpoint the pipeline runs on webhooks and polling
// alone.
type Relay struct {
	endpoint          string
	heartbeatInterval time.Duration
	connTimeout       time.Duration
	backoffBase       time.Duration
	backoffMax        time.Duration
	maxAttempts       int
}

func (x *Relay) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "relay-endpoint",
			Usage:       "WebSocket endpoint of the event relay (optional)",
			Category:    "Relay",
			Destination: &x.endpoint,
			Sources:     cli.EnvVars("ARGUS_RELAY_ENDPOINT"),
		},
		&cli.DurationFlag{
			Name:        "relay-heartbeat-interval",
			Usage:       "Interval between heartbeat frames",
			Category:    "Relay",
			Value:       30 * time.Second,
			Destination: &x.heartbeatInterval,
			Sources:     cli.EnvVars("ARGUS_RELAY_HEARTBEAT_INTERVAL"),
		},
		&cli.DurationFlag{
			Name:        "relay-conn-timeout",
			Usage:       "Connection is considered dead after this much silence",
			Category:    "Relay",
			Value:       90 * time.Second,
			Destination: &x.connTimeout,
			Sources:     cli.EnvVars("ARGUS_RELAY_CONN_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:        "relay-backoff-base",
			Usage:       "Initial reconnect backoff",
			Category:    "Relay",
			Value:       time.Second,
			Destination: &x.backoffBase,
			Sources:     cli.EnvVars("ARGUS_RELAY_BACKOFF_BASE"),
		},
		&cli.DurationFlag{
			Name:        "relay-backoff-max",
			Usage:       "Upper bound of reconnect backoff",
			Category:    "Relay",
			Value:       30 * time.Second,
			Destination: &x.backoffMax,
			Sources:     cli.EnvVars("ARGUS_RELAY_BACKOFF_MAX"),
		},
		&cli.IntFlag{
			Name:        "relay-max-attempts",
			Usage:       "Reconnect attempts before giving up",
			Category:    "Relay",
			Value:       5,
			Destination: &x.maxAttempts,
			Sources:     cli.EnvVars("ARGUS_RELAY_MAX_ATTEMPTS"),
		},
	}
}

func (x *Relay) Enabled() bool {
	return x.endpoint != ""
}

func (x *Relay) NewConn() *relay.Conn {
	return relay.New(x.endpoint,
		relay.WithHeartbeatInterval(x.heartbeatInterval),
		relay.WithConnTimeout(x.connTimeout),
		relay.WithBackoff(x.backoffBase, x.backoffMax),
		relay.WithMaxAttempts(x.maxAttempts),
	)
}

func (x Relay) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("endpoint", x.endpoint),
		slog.Any("heartbeatInterval", x.heartbeatInterval),
		slog.Any("connTimeout", x.connTimeout),
		slog.Any("backoffBase", x.backoffBase),
		slog.Any("backoffMax", x.backoffMax),
		slog.Int("maxAttempts", x.maxAttempts),
	)
}
