package usecase

import (
	"context"

	"github.com/secmon-lab/argus/pkg/domain/interfaces"
	"github.com/secmon-lab/argus/pkg/domain/model"
	"github.com/secmon-lab/argus/pkg/domain/types"
	"github.com/secmon-lab/argus/pkg/infra"
	"github.com/secmon-lab/argus/pkg/notify"
	"github.com/secmon-lab/argus/pkg/reconciler"
)

const (
	defaultWorkflowFile = "security-scan.yml"
	defaultWorkflowRef  = "main"
)

// UseCase wires the pipeline together: events in from webhooks, the relay,
// polling, and user actions; state into the reconciliation engine;
// high-value events out through the notification dispatcher.
type UseCase struct {
	clients    *infra.Clients
	engine     *reconciler.Engine
	dispatcher *notify.Dispatcher
	router     *notify.Router
	feed       *notify.Feed

	org          types.OrgName
	workflowFile string
	workflowRef  string

	connState func() model.ConnectionState
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients:      clients,
		engine:       reconciler.New(),
		dispatcher:   notify.NewDispatcher(),
		router:       notify.NewRouter(),
		workflowFile: defaultWorkflowFile,
		workflowRef:  defaultWorkflowRef,
		connState: func() model.ConnectionState {
			return model.ConnectionState{Status: types.ConnDisconnected}
		},
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

func WithEngine(engine *reconciler.Engine) Option {
	return func(x *UseCase) {
		x.engine = engine
	}
}

func WithDispatcher(dispatcher *notify.Dispatcher) Option {
	return func(x *UseCase) {
		x.dispatcher = dispatcher
	}
}

func WithRouter(router *notify.Router) Option {
	return func(x *UseCase) {
		x.router = router
	}
}

// WithFeed exposes the in-process feed channel through NotificationFeed. The
// same channel should also be registered on the dispatcher.
func WithFeed(feed *notify.Feed) Option {
	return func(x *UseCase) {
		x.feed = feed
	}
}

func WithOrg(org types.OrgName) Option {
	return func(x *UseCase) {
		x.org = org
	}
}

// WithWorkflow sets the workflow file and git ref used by DispatchScan.
func WithWorkflow(file, ref string) Option {
	return func(x *UseCase) {
		x.workflowFile = file
		x.workflowRef = ref
	}
}

// WithConnectionState injects the relay's state accessor.
func WithConnectionState(fn func() model.ConnectionState) Option {
	return func(x *UseCase) {
		x.connState = fn
	}
}

func (x *UseCase) Snapshot() *model.StateSnapshot {
	return x.engine.Snapshot()
}

func (x *UseCase) ConnectionState() model.ConnectionState {
	return x.connState()
}

func (x *UseCase) NotificationFeed(limit int) []*model.FeedEntry {
	if x.feed == nil {
		return nil
	}
	return x.feed.Items(limit)
}

func (x *UseCase) Subscribe(fn func(ctx context.Context, diff *model.StateDiff)) *reconciler.Subscription {
	return x.engine.Subscribe(fn)
}

func (x *UseCase) Unsubscribe(sub *reconciler.Subscription) {
	x.engine.Unsubscribe(sub)
}
