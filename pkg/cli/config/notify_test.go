package config

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/infra"
)

func TestNotifyFlags(t *testing.T) {
	notifyConfig := &Notify{}
	flagNames := make(map[string]bool)
	for _, flag := range notifyConfig.Flags() {
		flagNames[flag.Names()[0]] = true
	}

	gt.True(t, flagNames["slack-webhook-url"])
	gt.True(t, flagNames["mail-to"])
	gt.True(t, flagNames["callback-url"])
	gt.True(t, flagNames["notify-low-rate-max"])
	gt.True(t, flagNames["notify-low-rate-window"])
}

func TestNotifyBuildRateLimit(t *testing.T) {
	ctx := context.Background()

	cfg := &Notify{
		feedCapacity:  8,
		feedTag:       "alerts",
		lowRateMax:    1,
		lowRateWindow: time.Minute,
	}

	_, feed, err := cfg.Build(infra.New())
	gt.NoError(t, err)

	payload := &model.NotificationPayload{
		Priority: types.PriorityLow,
		Title:    "low priority notice",
		Body:     "body",
	}

	gt.True(t, feed.Send(ctx, payload, "alerts").Success)

	result := feed.Send(ctx, payload, "alerts")
	gt.V(t, result.Success).Equal(false)
	gt.V(t, result.RetryAfter == nil).Equal(false)
}
