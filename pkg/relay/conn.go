// Package relay maintains the persistent event-stream connection to the
// platform. It owns a single websocket, a heartbeat schedule, and an
// exponential-backoff reconnect loop, and hands every parsed event frame to
// registered listeners.
package relay

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/utils/logging"
)

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultConnTimeout       = 90 * time.Second
	defaultBackoffBase       = 1 * time.Second
	defaultBackoffMax        = 30 * time.Second
	defaultMaxAttempts       = 5

	closeGracePeriod = 3 * time.Second
)

// Listener is the handle returned by Subscribe, passed back to Unsubscribe.
type Listener struct {
	fn func(ctx context.Context, frame *model.Frame)
}

type exitReason int

const (
	exitClean exitReason = iota
	exitAbnormal
	exitReconnectDirective
)

// Conn manages one persistent connection. Connect starts the session;
// Close terminates it cleanly and cancels every pending timer, after which
// no reconnect attempt fires.
type Conn struct {
	endpoint          string
	heartbeatInterval time.Duration
	connTimeout       time.Duration
	backoffBase       time.Duration
	backoffMax        time.Duration
	maxAttempts       int
	dialer            *websocket.Dialer

	mu     sync.Mutex
	ws     *websocket.Conn
	state  model.ConnectionState
	cancel context.CancelFunc
	closed bool

	writeMu sync.Mutex

	listenerMu sync.RWMutex
	listeners  map[*Listener]struct{}

	malformed atomic.Int64
}

type Option func(*Conn)

func WithHeartbeatInterval(d time.Duration) Option {
	return func(x *Conn) {
		x.heartbeatInterval = d
	}
}

// WithConnTimeout sets how long a heartbeat response may be outstanding
// before the connection is treated as abnormally closed.
func WithConnTimeout(d time.Duration) Option {
	return func(x *Conn) {
		x.connTimeout = d
	}
}

// WithBackoff sets the base reconnect delay and its cap. The delay doubles
// per attempt until it reaches the cap.
func WithBackoff(base, max time.Duration) Option {
	return func(x *Conn) {
		x.backoffBase = base
		x.backoffMax = max
	}
}

// WithMaxAttempts bounds the reconnect budget. Exhausting it is terminal.
func WithMaxAttempts(n int) Option {
	return func(x *Conn) {
		x.maxAttempts = n
	}
}

func WithDialer(dialer *websocket.Dialer) Option {
	return func(x *Conn) {
		x.dialer = dialer
	}
}

func New(endpoint string, options ...Option) *Conn {
	conn := &Conn{
		endpoint:          endpoint,
		heartbeatInterval: defaultHeartbeatInterval,
		connTimeout:       defaultConnTimeout,
		backoffBase:       defaultBackoffBase,
		backoffMax:        defaultBackoffMax,
		maxAttempts:       defaultMaxAttempts,
		dialer:            websocket.DefaultDialer,
		listeners:         make(map[*Listener]struct{}),
		state: model.ConnectionState{
			Status: types.ConnDisconnected,
		},
	}
	for _, opt := range options {
		opt(conn)
	}
	return conn
}

// Connect dials the endpoint and starts the session loop. The initial dial
// failure is returned to the caller; failures after a session is established
// go through the reconnect path instead.
func (x *Conn) Connect(ctx context.Context) error {
	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		return goerr.Wrap(types.ErrConnClosed, "connect after close")
	}
	if x.cancel != nil {
		x.mu.Unlock()
		return goerr.New("already connected", goerr.V("endpoint", x.endpoint))
	}
	x.state.Status = types.ConnConnecting
	x.mu.Unlock()

	ws, _, err := x.dialer.DialContext(ctx, x.endpoint, nil)
	if err != nil {
		x.mu.Lock()
		x.state.Status = types.ConnError
		x.state.LastError = err.Error()
		x.mu.Unlock()
		return goerr.Wrap(err, "failed to dial relay endpoint", goerr.V("endpoint", x.endpoint))
	}

	sessionCtx, cancel := context.WithCancel(logging.With(
		logging.InheritContextValues(context.Background(), ctx),
		logging.From(ctx),
	))

	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		cancel()
		_ = ws.Close()
		return goerr.Wrap(types.ErrConnClosed, "closed during connect")
	}
	x.ws = ws
	x.cancel = cancel
	x.markConnectedLocked()
	x.mu.Unlock()

	go x.run(sessionCtx)
	return nil
}

func (x *Conn) markConnectedLocked() {
	now := time.Now()
	x.state.Status = types.ConnConnected
	x.state.ConnectedAt = &now
	x.state.LastHeartbeatAt = nil
	x.state.ReconnectAttempts = 0
	x.state.LastError = ""
}

// run supervises one session after another: a read loop plus a heartbeat
// schedule per session, and the reconnect loop between sessions.
func (x *Conn) run(ctx context.Context) {
	for {
		reason := x.session(ctx)

		if ctx.Err() != nil || x.isClosed() {
			return
		}

		switch reason {
		case exitClean:
			x.mu.Lock()
			x.state.Status = types.ConnDisconnected
			x.mu.Unlock()
			return

		case exitReconnectDirective:
			// a server-requested reconnect is not a failure; the budget
			// starts fresh
			x.mu.Lock()
			x.state.ReconnectAttempts = 0
			x.mu.Unlock()
		}

		// drop the old socket before re-dialing
		x.mu.Lock()
		if x.ws != nil {
			_ = x.ws.Close()
			x.ws = nil
		}
		x.mu.Unlock()

		if !x.reconnect(ctx) {
			return
		}
	}
}

// session runs the read loop and heartbeat for the current websocket and
// reports why it ended.
func (x *Conn) session(ctx context.Context) exitReason {
	x.mu.Lock()
	ws := x.ws
	x.mu.Unlock()
	if ws == nil {
		return exitClean
	}

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go x.heartbeatLoop(hbCtx, ws)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || x.isClosed() {
				return exitClean
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return exitClean
			}
			logging.From(ctx).Warn("relay read failed", slog.Any("error", err))
			return exitAbnormal
		}

		frame, err := model.DecodeFrame(raw)
		if err != nil {
			x.malformed.Add(1)
			logging.From(ctx).Warn("malformed relay frame dropped", slog.Any("error", err))
			continue
		}

		switch frame.Kind {
		case model.FrameEvent:
			x.deliver(ctx, frame)

		case model.FrameHeartbeat:
			x.writeFrame(ws, &model.Frame{Kind: model.FrameHeartbeatResponse})

		case model.FrameHeartbeatResponse:
			now := time.Now()
			x.mu.Lock()
			x.state.LastHeartbeatAt = &now
			x.mu.Unlock()

		case model.FrameError:
			x.mu.Lock()
			x.state.LastError = frame.Message
			x.mu.Unlock()
			logging.From(ctx).Warn("relay error frame", slog.String("message", frame.Message))

		case model.FrameReconnect:
			return exitReconnectDirective
		}
	}
}

// heartbeatLoop sends a heartbeat frame on every interval and treats a
// response outstanding longer than the connection timeout as an abnormal
// closure by force-closing the websocket, which unblocks the read loop.
func (x *Conn) heartbeatLoop(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(x.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := x.writeFrame(ws, &model.Frame{Kind: model.FrameHeartbeat}); err != nil {
			logging.From(ctx).Warn("heartbeat write failed", slog.Any("error", err))
			_ = ws.Close()
			return
		}

		x.mu.Lock()
		last := x.state.ConnectedAt
		if x.state.LastHeartbeatAt != nil {
			last = x.state.LastHeartbeatAt
		}
		stale := last != nil && time.Since(*last) > x.connTimeout
		x.mu.Unlock()

		if stale {
			logging.From(ctx).Warn("heartbeat response timed out",
				slog.Duration("timeout", x.connTimeout),
			)
			_ = ws.Close()
			return
		}
	}
}

// reconnect runs the backoff loop. It returns true once a new session is
// established, false when the budget is exhausted or the session context is
// canceled.
func (x *Conn) reconnect(ctx context.Context) bool {
	delay := x.backoffBase
	for attempt := 1; attempt <= x.maxAttempts; attempt++ {
		x.mu.Lock()
		x.state.Status = types.ConnReconnecting
		x.state.ReconnectAttempts = attempt
		x.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		if x.isClosed() {
			return false
		}

		x.mu.Lock()
		x.state.Status = types.ConnConnecting
		x.mu.Unlock()

		ws, _, err := x.dialer.DialContext(ctx, x.endpoint, nil)
		if err == nil {
			x.mu.Lock()
			if x.closed {
				x.mu.Unlock()
				_ = ws.Close()
				return false
			}
			x.ws = ws
			x.markConnectedLocked()
			x.mu.Unlock()
			logging.From(ctx).Info("relay reconnected",
				slog.String("endpoint", x.endpoint),
				slog.Int("attempt", attempt),
			)
			return true
		}

		logging.From(ctx).Warn("relay reconnect attempt failed",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		x.mu.Lock()
		x.state.Status = types.ConnReconnecting
		x.state.LastError = err.Error()
		x.mu.Unlock()

		delay *= 2
		if delay > x.backoffMax {
			delay = x.backoffMax
		}
	}

	x.mu.Lock()
	x.state.Status = types.ConnError
	if x.state.LastError == "" {
		x.state.LastError = "reconnect budget exhausted"
	}
	x.mu.Unlock()
	logging.From(ctx).Error("relay reconnect budget exhausted",
		slog.Int("attempts", x.maxAttempts),
	)
	return false
}

func (x *Conn) deliver(ctx context.Context, frame *model.Frame) {
	x.listenerMu.RLock()
	listeners := make([]*Listener, 0, len(x.listeners))
	for l := range x.listeners {
		listeners = append(listeners, l)
	}
	x.listenerMu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.From(ctx).Error("relay listener panicked", slog.Any("recovered", r))
				}
			}()
			l.fn(ctx, frame)
		}()
	}
}

func (x *Conn) writeFrame(ws *websocket.Conn, frame *model.Frame) error {
	x.writeMu.Lock()
	defer x.writeMu.Unlock()
	if err := ws.WriteJSON(frame); err != nil {
		return goerr.Wrap(err, "failed to write relay frame", goerr.V("kind", frame.Kind))
	}
	return nil
}

func (x *Conn) isClosed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.closed
}

// Subscribe registers a listener for every parsed event frame.
func (x *Conn) Subscribe(fn func(ctx context.Context, frame *model.Frame)) *Listener {
	l := &Listener{fn: fn}
	x.listenerMu.Lock()
	x.listeners[l] = struct{}{}
	x.listenerMu.Unlock()
	return l
}

// Unsubscribe removes a previously registered listener.
func (x *Conn) Unsubscribe(l *Listener) {
	if l == nil {
		return
	}
	x.listenerMu.Lock()
	delete(x.listeners, l)
	x.listenerMu.Unlock()
}

// State returns a copy of the observable connection state.
func (x *Conn) State() model.ConnectionState {
	x.mu.Lock()
	defer x.mu.Unlock()
	state := x.state
	if x.state.ConnectedAt != nil {
		t := *x.state.ConnectedAt
		state.ConnectedAt = &t
	}
	if x.state.LastHeartbeatAt != nil {
		t := *x.state.LastHeartbeatAt
		state.LastHeartbeatAt = &t
	}
	return state
}

// ErrorTally reports the number of malformed frames dropped so far.
func (x *Conn) ErrorTally() int64 {
	return x.malformed.Load()
}

// Close terminates the connection cleanly. It synchronously cancels the
// session context, which stops the heartbeat schedule and any pending
// backoff timer; no reconnect attempt fires afterwards. Close is idempotent.
func (x *Conn) Close() error {
	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		return nil
	}
	x.closed = true
	cancel := x.cancel
	x.cancel = nil
	ws := x.ws
	x.ws = nil
	x.state.Status = types.ConnDisconnected
	x.state.ReconnectAttempts = 0
	x.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ws != nil {
		deadline := time.Now().Add(closeGracePeriod)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = ws.Close()
	}
	return nil
}
