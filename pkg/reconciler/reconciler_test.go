package reconciler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/reconciler"
)

func repoUpdateEvent(id types.RepoID, name types.RepoFullName, findings *model.SecurityFindings) *model.NormalizedEvent {
	return &model.NormalizedEvent{
		ID:        types.NewEventID(),
		Type:      types.EventRepositoryUpdate,
		Source:    types.SourcePolling,
		Timestamp: time.Now(),
		RepositoryUpdate: &model.RepositoryUpdate{
			RepoID:   id,
			FullName: name,
			Owner:    "org",
			Findings: findings,
		},
	}
}

func alertEvent(name types.RepoFullName, action types.AlertAction, sev types.Severity) *model.NormalizedEvent {
	return &model.NormalizedEvent{
		ID:        types.NewEventID(),
		Type:      types.EventSecurityAlert,
		Source:    types.SourceWebhook,
		Timestamp: time.Now(),
		SecurityAlert: &model.SecurityAlert{
			RepoFullName: name,
			Action:       action,
			Severity:     sev,
		},
	}
}

// seed creates an engine holding one repository.
func seed(t *testing.T, findings *model.SecurityFindings, options ...reconciler.Option) *reconciler.Engine {
	t.Helper()
	engine := reconciler.New(options...)
	engine.Enqueue(context.Background(), repoUpdateEvent(1, "org/r1", findings))
	engine.Flush(context.Background())
	return engine
}

func TestBatching(t *testing.T) {
	ctx := context.Background()

	t.Run("below threshold does not flush before debounce", func(t *testing.T) {
		engine := reconciler.New(
			reconciler.WithDebounce(time.Hour),
			reconciler.WithBatchSize(10),
		)
		defer engine.Close()

		notified := 0
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			notified++
		})

		for i := 0; i < 5; i++ {
			engine.Enqueue(ctx, repoUpdateEvent(types.RepoID(i+1), "org/repo", nil))
		}

		gt.V(t, engine.QueueLen()).Equal(5)
		gt.V(t, notified).Equal(0)
	})

	t.Run("reaching threshold flushes immediately and synchronously", func(t *testing.T) {
		engine := reconciler.New(
			reconciler.WithDebounce(time.Hour),
			reconciler.WithBatchSize(3),
		)
		defer engine.Close()

		notified := 0
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			notified++
		})

		engine.Enqueue(ctx, repoUpdateEvent(1, "org/a", nil))
		engine.Enqueue(ctx, repoUpdateEvent(2, "org/b", nil))
		gt.V(t, notified).Equal(0)

		engine.Enqueue(ctx, repoUpdateEvent(3, "org/c", nil))

		// the third enqueue flushed in this goroutine, before returning
		gt.V(t, notified).Equal(1)
		gt.V(t, engine.QueueLen()).Equal(0)
	})

	t.Run("debounce timer flushes a sub-threshold batch", func(t *testing.T) {
		engine := reconciler.New(
			reconciler.WithDebounce(20*time.Millisecond),
			reconciler.WithBatchSize(10),
		)
		defer engine.Close()

		var mu sync.Mutex
		notified := 0
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			mu.Lock()
			notified++
			mu.Unlock()
		})

		engine.Enqueue(ctx, repoUpdateEvent(1, "org/a", nil))

		deadline := time.Now().Add(2 * time.Second)
		for {
			mu.Lock()
			n := notified
			mu.Unlock()
			if n > 0 || time.Now().After(deadline) {
				break
			}
			time.Sleep(5 * time.Millisecond)
		}

		mu.Lock()
		defer mu.Unlock()
		gt.V(t, notified).Equal(1)
	})

	t.Run("flush with empty queue is a no-op", func(t *testing.T) {
		engine := reconciler.New()
		defer engine.Close()

		notified := 0
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			notified++
		})

		diff := engine.Flush(ctx)
		gt.V(t, diff).Equal(nil)
		gt.V(t, notified).Equal(0)
	})

	t.Run("one notification per flush, not per event", func(t *testing.T) {
		engine := reconciler.New(reconciler.WithDebounce(time.Hour))
		defer engine.Close()

		notified := 0
		var lastDiff *model.StateDiff
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			notified++
			lastDiff = diff
		})

		engine.Enqueue(ctx, repoUpdateEvent(1, "org/a", nil))
		engine.Enqueue(ctx, repoUpdateEvent(2, "org/b", nil))
		engine.Enqueue(ctx, repoUpdateEvent(3, "org/c", nil))
		engine.Flush(ctx)

		gt.V(t, notified).Equal(1)
		gt.V(t, lastDiff.Applied).Equal(3)
		gt.A(t, lastDiff.Repositories).Length(3)
	})

	t.Run("no flush fires after close", func(t *testing.T) {
		engine := reconciler.New(reconciler.WithDebounce(10 * time.Millisecond))

		notified := 0
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			notified++
		})

		engine.Enqueue(ctx, repoUpdateEvent(1, "org/a", nil))
		engine.Close()
		time.Sleep(50 * time.Millisecond)

		gt.V(t, notified).Equal(0)
	})
}

func TestObservers(t *testing.T) {
	ctx := context.Background()

	t.Run("panicking observer does not block others or corrupt state", func(t *testing.T) {
		engine := reconciler.New(reconciler.WithDebounce(time.Hour))
		defer engine.Close()

		second := 0
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			panic("observer exploded")
		})
		engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			second++
		})

		engine.Enqueue(ctx, repoUpdateEvent(1, "org/r1", nil))
		engine.Flush(ctx)

		gt.V(t, second).Equal(1)
		rec, ok := engine.Repository(1)
		gt.True(t, ok)
		gt.V(t, rec.FullName).Equal(types.RepoFullName("org/r1"))
	})

	t.Run("unsubscribed observer receives nothing", func(t *testing.T) {
		engine := reconciler.New(reconciler.WithDebounce(time.Hour))
		defer engine.Close()

		notified := 0
		sub := engine.Subscribe(func(ctx context.Context, diff *model.StateDiff) {
			notified++
		})
		engine.Unsubscribe(sub)

		engine.Enqueue(ctx, repoUpdateEvent(1, "org/r1", nil))
		engine.Flush(ctx)

		gt.V(t, notified).Equal(0)
	})
}

func TestConcurrentEnqueue(t *testing.T) {
	ctx := context.Background()
	engine := seed(t, nil, reconciler.WithDebounce(time.Hour), reconciler.WithBatchSize(1000000))
	defer engine.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				engine.Enqueue(ctx, alertEvent("org/r1", types.AlertCreated, types.SeverityLow))
			}
		}()
	}
	wg.Wait()

	gt.V(t, engine.QueueLen()).Equal(400)
	diff := engine.Flush(ctx)
	gt.V(t, diff.Applied).Equal(400)

	rec, ok := engine.Repository(1)
	gt.True(t, ok)
	gt.V(t, rec.Findings.Low).Equal(400)
	gt.V(t, rec.Findings.Total).Equal(400)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	engine := reconciler.New(reconciler.WithDebounce(time.Hour))
	defer engine.Close()

	engine.Enqueue(ctx, repoUpdateEvent(2, "org/b", nil))
	engine.Enqueue(ctx, repoUpdateEvent(1, "org/a", nil))
	engine.Flush(ctx)

	snapshot := engine.Snapshot()
	gt.A(t, snapshot.Repositories).Length(2)
	gt.V(t, snapshot.Repositories[0].FullName).Equal(types.RepoFullName("org/a"))

	// mutating the snapshot must not affect engine state
	snapshot.Repositories[0].Findings.Add(types.SeverityHigh, 5)
	rec, _ := engine.Repository(1)
	gt.V(t, rec.Findings.High).Equal(0)
}
