// Package reconciler owns the authoritative in-memory view of repository
// compliance state. Events enter through Enqueue from any goroutine; state
// mutates only inside Flush, which drains the queue, applies reducers in
// arrival order, and notifies observers exactly once per flush.
package reconciler

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

const (
	defaultDebounce  = 150 * time.Millisecond
	defaultBatchSize = 10
)

// Subscription is the handle returned by Subscribe. The caller holds it and
// passes it back to Unsubscribe; there is no implicit closure-based
// disposal.
type Subscription struct {
	fn func(ctx context.Context, diff *model.StateDiff)
}

// Engine is the state reconciliation engine. It is the single writer of the
// repository and scan-request collections.
type Engine struct {
	debounce  time.Duration
	batchSize int
	now       func() time.Time

	queueMu sync.Mutex
	queue   []*model.NormalizedEvent
	timer   *time.Timer
	closed  bool

	flushMu sync.Mutex

	stateMu sync.RWMutex
	repos   map[types.RepoID]*model.RepositoryRecord
	byName  map[types.RepoFullName]types.RepoID
	scans   map[types.ScanID]*model.ScanRequest

	subMu sync.RWMutex
	subs  map[*Subscription]struct{}
}

type Option func(*Engine)

// WithDebounce sets the delay between the first enqueue of a batch and its
// timer-driven flush.
func WithDebounce(d time.Duration) Option {
	return func(x *Engine) {
		x.debounce = d
	}
}

// WithBatchSize sets the queue length that forces an immediate synchronous
// flush.
func WithBatchSize(n int) Option {
	return func(x *Engine) {
		x.batchSize = n
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(x *Engine) {
		x.now = now
	}
}

func New(options ...Option) *Engine {
	engine := &Engine{
		debounce:  defaultDebounce,
		batchSize: defaultBatchSize,
		now:       time.Now,
		repos:     make(map[types.RepoID]*model.RepositoryRecord),
		byName:    make(map[types.RepoFullName]types.RepoID),
		scans:     make(map[types.ScanID]*model.ScanRequest),
		subs:      make(map[*Subscription]struct{}),
	}
	for _, opt := range options {
		opt(engine)
	}
	return engine
}

// Enqueue appends an event to the pending queue. Safe under concurrent
// callers. Reaching the batch threshold flushes immediately and
// synchronously in the caller; otherwise a debounce timer is scheduled.
func (x *Engine) Enqueue(ctx context.Context, ev *model.NormalizedEvent) {
	if ev == nil {
		return
	}

	x.queueMu.Lock()
	if x.closed {
		x.queueMu.Unlock()
		logging.From(ctx).Warn("event dropped after engine close", slog.Any("eventID", ev.ID))
		return
	}
	x.queue = append(x.queue, ev)
	reached := len(x.queue) >= x.batchSize
	if reached {
		if x.timer != nil {
			x.timer.Stop()
			x.timer = nil
		}
	} else if x.timer == nil {
		x.timer = time.AfterFunc(x.debounce, func() {
			x.Flush(context.Background())
		})
	}
	x.queueMu.Unlock()

	if reached {
		x.Flush(ctx)
	}
}

// Flush atomically applies every queued event in arrival order, then
// notifies observers once with the resulting diff. A flush with an empty
// queue is a no-op and notifies nobody. Only one flush runs at a time.
func (x *Engine) Flush(ctx context.Context) *model.StateDiff {
	x.flushMu.Lock()
	defer x.flushMu.Unlock()

	x.queueMu.Lock()
	batch := x.queue
	x.queue = nil
	if x.timer != nil {
		x.timer.Stop()
		x.timer = nil
	}
	x.queueMu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	diff := &model.StateDiff{FlushedAt: x.now()}
	changedRepos := make(map[types.RepoID]struct{})
	changedScans := make(map[types.ScanID]struct{})

	// mutation phase
	x.stateMu.Lock()
	for _, ev := range batch {
		if x.apply(ctx, ev, changedRepos, changedScans) {
			diff.Applied++
		} else {
			diff.Skipped++
		}
	}
	x.stateMu.Unlock()

	for id := range changedRepos {
		diff.Repositories = append(diff.Repositories, id)
	}
	for id := range changedScans {
		diff.ScanRequests = append(diff.ScanRequests, id)
	}
	sort.Slice(diff.Repositories, func(i, j int) bool { return diff.Repositories[i] < diff.Repositories[j] })
	sort.Slice(diff.ScanRequests, func(i, j int) bool { return diff.ScanRequests[i] < diff.ScanRequests[j] })

	// notification phase, strictly after mutation
	x.notify(ctx, diff)

	return diff
}

func (x *Engine) notify(ctx context.Context, diff *model.StateDiff) {
	x.subMu.RLock()
	subs := make([]*Subscription, 0, len(x.subs))
	for sub := range x.subs {
		subs = append(subs, sub)
	}
	x.subMu.RUnlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.From(ctx).Error("observer panicked during flush notification",
						slog.Any("recovered", r),
					)
				}
			}()
			sub.fn(ctx, diff)
		}()
	}
}

// Subscribe registers an observer called once per flush with the state diff.
func (x *Engine) Subscribe(fn func(ctx context.Context, diff *model.StateDiff)) *Subscription {
	sub := &Subscription{fn: fn}
	x.subMu.Lock()
	x.subs[sub] = struct{}{}
	x.subMu.Unlock()
	return sub
}

// Unsubscribe removes a previously registered observer.
func (x *Engine) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	x.subMu.Lock()
	delete(x.subs, sub)
	x.subMu.Unlock()
}

// Close cancels any pending debounce timer and stops accepting events.
// Already queued events are discarded; callers wanting them applied should
// Flush first.
func (x *Engine) Close() {
	x.queueMu.Lock()
	defer x.queueMu.Unlock()
	x.closed = true
	if x.timer != nil {
		x.timer.Stop()
		x.timer = nil
	}
	x.queue = nil
}

// QueueLen reports the number of events awaiting flush.
func (x *Engine) QueueLen() int {
	x.queueMu.Lock()
	defer x.queueMu.Unlock()
	return len(x.queue)
}

// Repository returns a copy of the record with the given ID.
func (x *Engine) Repository(id types.RepoID) (*model.RepositoryRecord, bool) {
	x.stateMu.RLock()
	defer x.stateMu.RUnlock()
	rec, ok := x.repos[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// RepositoryByName returns a copy of the record with the given full name.
func (x *Engine) RepositoryByName(name types.RepoFullName) (*model.RepositoryRecord, bool) {
	x.stateMu.RLock()
	defer x.stateMu.RUnlock()
	id, ok := x.byName[name]
	if !ok {
		return nil, false
	}
	return x.repos[id].Clone(), true
}

// ScanRequest returns a copy of the scan request with the given ID.
func (x *Engine) ScanRequest(id types.ScanID) (*model.ScanRequest, bool) {
	x.stateMu.RLock()
	defer x.stateMu.RUnlock()
	req, ok := x.scans[id]
	if !ok {
		return nil, false
	}
	return req.Clone(), true
}

// Snapshot returns a deep copy of the whole state, repositories sorted by
// full name and scan requests by dispatch time.
func (x *Engine) Snapshot() *model.StateSnapshot {
	x.stateMu.RLock()
	defer x.stateMu.RUnlock()

	snapshot := &model.StateSnapshot{TakenAt: x.now()}
	for _, rec := range x.repos {
		snapshot.Repositories = append(snapshot.Repositories, rec.Clone())
	}
	for _, req := range x.scans {
		snapshot.ScanRequests = append(snapshot.ScanRequests, req.Clone())
	}
	sort.Slice(snapshot.Repositories, func(i, j int) bool {
		return snapshot.Repositories[i].FullName < snapshot.Repositories[j].FullName
	})
	sort.Slice(snapshot.ScanRequests, func(i, j int) bool {
		return snapshot.ScanRequests[i].DispatchedAt.Before(snapshot.ScanRequests[j].DispatchedAt)
	})

	return snapshot
}
