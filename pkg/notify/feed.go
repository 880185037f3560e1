package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

const defaultFeedCapacity = 128

// Feed is the in-process channel backing the dashboard notification feed.
// Entries live in a bounded ring; the recipient is a non-empty tag grouping
// related entries.
type Feed struct {
	base
	mu       sync.Mutex
	capacity int
	entries  []*model.FeedEntry
}

func NewFeed(capacity int, options ...Option) *Feed {
	if capacity <= 0 {
		capacity = defaultFeedCapacity
	}
	ch := &Feed{
		base: base{
			kind: types.ChannelFeed,
			features: model.ChannelFeatures{
				MaxMessageLength: 10000,
				Batching:         true,
			},
			limiter: newRateWindow(100, time.Minute),
		},
		capacity: capacity,
	}
	for _, opt := range options {
		opt(&ch.base)
	}
	return ch
}

func (x *Feed) ValidateRecipient(recipient string) bool {
	tag := strings.TrimSpace(recipient)
	return tag != "" && !strings.ContainsAny(tag, " \t\n")
}

func (x *Feed) Send(ctx context.Context, payload *model.NotificationPayload, recipient string) *model.DeliveryResult {
	return x.send(ctx, payload, recipient, x.transport)
}

func (x *Feed) transport(_ context.Context, payload *model.NotificationPayload, recipient string) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.entries = append(x.entries, &model.FeedEntry{
		Tag:     recipient,
		Payload: payload,
		At:      time.Now(),
	})
	if len(x.entries) > x.capacity {
		x.entries = x.entries[len(x.entries)-x.capacity:]
	}
	return "", nil
}

// Items returns up to limit entries, newest first. limit <= 0 returns all.
func (x *Feed) Items(limit int) []*model.FeedEntry {
	x.mu.Lock()
	defer x.mu.Unlock()

	n := len(x.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*model.FeedEntry, 0, n)
	for i := len(x.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, x.entries[i])
	}
	return out
}
