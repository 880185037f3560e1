// Package notify is the multi-channel delivery layer. Every channel returns
// failure as data in a DeliveryResult; nothing in this package panics or
// returns an error from a send, so callers can fan out across channels and
// keep going regardless of any single outcome.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

const deliveryLogCap = 256

// Channel is one delivery back-end. ValidateRecipient applies the channel's
// own address format rules and Send never raises: the result carries the
// outcome either way.
type Channel interface {
	Kind() types.ChannelKind
	ValidateRecipient(recipient string) bool
	Features() model.ChannelFeatures
	Send(ctx context.Context, payload *model.NotificationPayload, recipient string) *model.DeliveryResult
}

// rateWindow is a sliding-window counter applied to low-priority payloads.
type rateWindow struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	sent   []time.Time
}

func newRateWindow(max int, window time.Duration) *rateWindow {
	return &rateWindow{window: window, max: max}
}

// allow records the attempt when it fits the window; otherwise it reports
// how long the caller should wait.
func (x *rateWindow) allow(now time.Time) (bool, time.Duration) {
	x.mu.Lock()
	defer x.mu.Unlock()

	cutoff := now.Add(-x.window)
	kept := x.sent[:0]
	for _, t := range x.sent {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	x.sent = kept

	// a zero budget admits nothing; there is no oldest entry to expire
	if x.max <= 0 {
		return false, x.window
	}
	if len(x.sent) >= x.max {
		return false, x.sent[0].Add(x.window).Sub(now)
	}
	x.sent = append(x.sent, now)
	return true, 0
}

// transport performs the actual network delivery for one channel.
type transport func(ctx context.Context, payload *model.NotificationPayload, recipient string) (messageID string, err error)

// base carries the behavior every channel shares: the over-length pre-check,
// the low-priority rate limit, the bounded delivery log, and optional
// artificial latency for tests. Only transport attempts reach the log;
// payloads rejected before transport leave no entry.
type base struct {
	kind     types.ChannelKind
	features model.ChannelFeatures
	limiter  *rateWindow
	latency  time.Duration

	logMu sync.Mutex
	log   []*model.DeliveryResult
}

type Option func(*base)

// WithRateLimit overrides the channel's sliding-window budget for
// low-priority payloads.
func WithRateLimit(max int, window time.Duration) Option {
	return func(x *base) {
		x.limiter = newRateWindow(max, window)
	}
}

// WithLatency adds a fixed delay before every transport attempt. Used to
// model heterogeneous channel cost in tests.
func WithLatency(d time.Duration) Option {
	return func(x *base) {
		x.latency = d
	}
}

func (x *base) Kind() types.ChannelKind {
	return x.kind
}

func (x *base) Features() model.ChannelFeatures {
	return x.features
}

func (x *base) send(ctx context.Context, payload *model.NotificationPayload, recipient string, tp transport) *model.DeliveryResult {
	start := time.Now()

	if max := x.features.MaxMessageLength; max > 0 && len(payload.Body) > max {
		return &model.DeliveryResult{
			Channel: x.kind,
			Success: false,
			Error:   fmt.Sprintf("message length %d exceeds channel limit %d", len(payload.Body), max),
			Elapsed: time.Since(start),
		}
	}

	if payload.Priority == types.PriorityLow && x.limiter != nil {
		if ok, retryAfter := x.limiter.allow(start); !ok {
			return &model.DeliveryResult{
				Channel:    x.kind,
				Success:    false,
				Error:      "low-priority rate limit exceeded",
				RetryAfter: &retryAfter,
				Elapsed:    time.Since(start),
			}
		}
	}

	if x.latency > 0 {
		timer := time.NewTimer(x.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	result := &model.DeliveryResult{Channel: x.kind}
	msgID, err := tp(ctx, payload, recipient)
	if err != nil {
		result.Error = err.Error()
	} else {
		result.Success = true
		result.MessageID = msgID
	}
	result.Elapsed = time.Since(start)

	x.record(result)
	return result
}

func (x *base) record(result *model.DeliveryResult) {
	x.logMu.Lock()
	defer x.logMu.Unlock()
	x.log = append(x.log, result)
	if len(x.log) > deliveryLogCap {
		x.log = x.log[len(x.log)-deliveryLogCap:]
	}
}

// DeliveryLog returns a copy of the transport attempts recorded so far.
func (x *base) DeliveryLog() []*model.DeliveryResult {
	x.logMu.Lock()
	defer x.logMu.Unlock()
	out := make([]*model.DeliveryResult, len(x.log))
	copy(out, x.log)
	return out
}
