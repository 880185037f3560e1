package notify

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
)

type target struct {
	channel   Channel
	recipient string
}

// Dispatcher fans a payload out to every configured channel concurrently.
// Channels are independent; one failing never aborts the others.
type Dispatcher struct {
	mu      sync.RWMutex
	targets []target
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Add registers a channel with its recipient. The recipient must pass the
// channel's own validation.
func (x *Dispatcher) Add(ch Channel, recipient string) error {
	if !ch.ValidateRecipient(recipient) {
		return goerr.Wrap(types.ErrValidationFailed, "recipient rejected by channel",
			goerr.V("channel", ch.Kind()),
			goerr.V("recipient", recipient),
		)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.targets = append(x.targets, target{channel: ch, recipient: recipient})
	return nil
}

// Dispatch sends the payload to every registered channel and collects the
// per-channel results. Results are ordered by registration.
func (x *Dispatcher) Dispatch(ctx context.Context, payload *model.NotificationPayload) []*model.DeliveryResult {
	x.mu.RLock()
	targets := make([]target, len(x.targets))
	copy(targets, x.targets)
	x.mu.RUnlock()

	results := make([]*model.DeliveryResult, len(targets))
	var wg sync.WaitGroup
	for i, tgt := range targets {
		wg.Add(1)
		go func(i int, tgt target) {
			defer wg.Done()
			results[i] = tgt.channel.Send(ctx, payload, tgt.recipient)
		}(i, tgt)
	}
	wg.Wait()

	return results
}
