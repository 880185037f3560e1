package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/notify"
)

func TestDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid recipient is rejected at registration", func(t *testing.T) {
		d := notify.NewDispatcher()
		err := d.Add(notify.NewFeed(10), "bad tag")
		gt.Error(t, err)
	})

	t.Run("one failing channel never aborts the others", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer broken.Close()
		healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer healthy.Close()

		feed := notify.NewFeed(10)
		d := notify.NewDispatcher()
		gt.NoError(t, d.Add(notify.NewCallback(broken.Client()), broken.URL))
		gt.NoError(t, d.Add(notify.NewCallback(healthy.Client()), healthy.URL))
		gt.NoError(t, d.Add(feed, "alerts"))

		results := d.Dispatch(ctx, payload(types.PriorityNormal, "fan out"))

		gt.A(t, results).Length(3)
		gt.V(t, results[0].Success).Equal(false)
		gt.True(t, results[1].Success)
		gt.True(t, results[2].Success)
		gt.A(t, feed.Items(0)).Length(1)
	})

	t.Run("channels run concurrently", func(t *testing.T) {
		d := notify.NewDispatcher()
		for i := 0; i < 4; i++ {
			gt.NoError(t, d.Add(notify.NewFeed(10, notify.WithLatency(50*time.Millisecond)), "tag"))
		}

		start := time.Now()
		results := d.Dispatch(ctx, payload(types.PriorityNormal, "slow"))
		elapsed := time.Since(start)

		gt.A(t, results).Length(4)
		// four sequential sends would take at least 200ms
		gt.True(t, elapsed < 150*time.Millisecond)
	})
}

func TestRouter(t *testing.T) {
	router := notify.NewRouter()

	alert := func(action types.AlertAction, sev types.Severity) *model.NormalizedEvent {
		return &model.NormalizedEvent{
			Type: types.EventSecurityAlert,
			SecurityAlert: &model.SecurityAlert{
				RepoFullName: "org/repo",
				Action:       action,
				Severity:     sev,
			},
		}
	}

	t.Run("critical alert is urgent", func(t *testing.T) {
		p := router.Route(alert(types.AlertCreated, types.SeverityCritical))
		gt.V(t, p == nil).Equal(false)
		gt.V(t, p.Priority).Equal(types.PriorityUrgent)
		gt.NoError(t, p.Validate())
	})

	t.Run("high alert is high priority", func(t *testing.T) {
		p := router.Route(alert(types.AlertCreated, types.SeverityHigh))
		gt.V(t, p.Priority).Equal(types.PriorityHigh)
		gt.V(t, p.Metadata["repo"]).Equal("org/repo")
	})

	t.Run("medium alert passes silently", func(t *testing.T) {
		gt.V(t, router.Route(alert(types.AlertCreated, types.SeverityMedium))).Equal(nil)
	})

	t.Run("fixed alert passes silently", func(t *testing.T) {
		gt.V(t, router.Route(alert(types.AlertFixed, types.SeverityCritical))).Equal(nil)
	})

	t.Run("webhook code scanning alert routes like a security alert", func(t *testing.T) {
		p := router.Route(&model.NormalizedEvent{
			Type: types.EventWebhookReceived,
			Webhook: &model.WebhookInfo{
				RepoFullName: "org/repo",
				Action:       types.AlertCreated,
				Alert:        &model.AlertInfo{Number: 3, Severity: types.SeverityCritical},
			},
		})
		gt.V(t, p.Priority).Equal(types.PriorityUrgent)
	})

	t.Run("scan failure notifies", func(t *testing.T) {
		p := router.Route(&model.NormalizedEvent{
			Type: types.EventScanStatus,
			ScanStatusChange: &model.ScanStatusChange{
				ScanID:       "scan-1",
				RepoFullName: "org/repo",
				Status:       types.ScanRequestFailed,
			},
		})
		gt.V(t, p.Priority).Equal(types.PriorityHigh)
		gt.S(t, p.Title).Contains("Scan failed")
	})

	t.Run("scan completion passes silently", func(t *testing.T) {
		p := router.Route(&model.NormalizedEvent{
			Type: types.EventScanStatus,
			ScanStatusChange: &model.ScanStatusChange{
				ScanID: "scan-1",
				Status: types.ScanRequestCompleted,
			},
		})
		gt.V(t, p).Equal(nil)
	})

	t.Run("connection error notifies", func(t *testing.T) {
		p := router.Route(&model.NormalizedEvent{
			Type:       types.EventConnection,
			Connection: &model.ConnectionInfo{Status: types.ConnError, Message: "budget exhausted"},
		})
		gt.V(t, p.Priority).Equal(types.PriorityHigh)
		gt.S(t, p.Body).Contains("budget exhausted")
	})

	t.Run("reconnecting passes silently", func(t *testing.T) {
		p := router.Route(&model.NormalizedEvent{
			Type:       types.EventConnection,
			Connection: &model.ConnectionInfo{Status: types.ConnReconnecting},
		})
		gt.V(t, p).Equal(nil)
	})
}
