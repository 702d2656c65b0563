// Package command is the boundary between the front end and the store: it
// resolves a command name, decodes and validates the JSON payload into a typed
// request, applies defaults, runs the matching service call and flattens any
// failure into an *Error.
package command

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/wsapp/storefront/internal/api/metrics"
	"github.com/wsapp/storefront/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Services are the use cases the commands delegate to.
type Services struct {
	Users    ports.UserService
	Products ports.ProductService
	Orders   ports.OrderService
}

// Executor runs a command body. The default runs it on the calling goroutine;
// production wires the shared worker pool.
type Executor interface {
	Do(ctx context.Context, fn func(context.Context) error) error
}

type inlineExecutor struct{}

func (inlineExecutor) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type Option func(*Registry)

// WithTimeout bounds every invocation. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

func WithExecutor(e Executor) Option {
	return func(r *Registry) {
		if e != nil {
			r.exec = e
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// handler runs one decoded command and returns its JSON-serializable result.
type handler func(ctx context.Context, payload []byte) (any, error)

// Registry is the fixed command table. It is built once and safe for
// concurrent use.
type Registry struct {
	bindings map[Name]handler
	exec     Executor
	timeout  time.Duration
	log      zerolog.Logger
}

func NewRegistry(svc Services, opts ...Option) *Registry {
	r := &Registry{
		exec:    inlineExecutor{},
		timeout: defaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	v := newValidator()
	r.bindings = map[Name]handler{
		ListUsers:    list(svc.Users.ListUsers),
		ListProducts: list(svc.Products.ListProducts),
		ListOrders:   list(svc.Orders.ListOrders),
		CreateUser: bind(CreateUser, v, func(ctx context.Context, req createUserRequest) (any, error) {
			return svc.Users.CreateUser(ctx, req.draft())
		}),
		CreateProduct: bind(CreateProduct, v, func(ctx context.Context, req createProductRequest) (any, error) {
			return svc.Products.CreateProduct(ctx, req.draft())
		}),
		CreateOrder: bind(CreateOrder, v, func(ctx context.Context, req createOrderRequest) (any, error) {
			return svc.Orders.CreateOrder(ctx, req.draft())
		}),
	}
	return r
}

// bind decodes and validates the payload into Req before calling fn.
func bind[Req any](name Name, v *requestValidator, fn func(context.Context, Req) (any, error)) handler {
	return func(ctx context.Context, payload []byte) (any, error) {
		var req Req
		if err := decodePayload(payload, &req); err != nil {
			return nil, validationError(name, err.Error())
		}
		if err := v.Validate(req); err != nil {
			return nil, validationError(name, err.Error())
		}
		return fn(ctx, req)
	}
}

// list ignores the payload and never returns a nil slice.
func list[T any](fn func(context.Context) ([]*T, error)) handler {
	return func(ctx context.Context, _ []byte) (any, error) {
		items, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*T{}
		}
		return items, nil
	}
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.bindings))
	for n := range r.bindings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Invoke runs the command called name with payload. Unknown names are
// rejected before the payload is looked at. Every failure is an *Error.
func (r *Registry) Invoke(ctx context.Context, name string, payload []byte) (any, error) {
	cmd := canonical(name)
	h, ok := r.bindings[cmd]
	if !ok {
		metrics.CommandsTotal.WithLabelValues("unknown", string(KindUnknownCommand)).Inc()
		r.log.Warn().Str("command", name).Msg("unknown command")
		return nil, unknownCommand(name)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	var out any
	err := r.exec.Do(ctx, func(ctx context.Context) error {
		res, err := h(ctx, payload)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	elapsed := time.Since(start)
	metrics.CommandDuration.WithLabelValues(string(cmd)).Observe(elapsed.Seconds())

	if err != nil {
		cerr := asCommandError(cmd, err)
		metrics.CommandsTotal.WithLabelValues(string(cmd), string(cerr.Kind)).Inc()

		ev := r.log.Warn()
		if cerr.Kind == KindInternal {
			ev = r.log.Error()
		}
		ev.Err(cerr.Err).
			Str("command", string(cmd)).
			Str("kind", string(cerr.Kind)).
			Dur("elapsed", elapsed).
			Msg("command failed")
		return nil, cerr
	}

	metrics.CommandsTotal.WithLabelValues(string(cmd), "ok").Inc()
	r.log.Debug().Str("command", string(cmd)).Dur("elapsed", elapsed).Msg("command completed")
	return out, nil
}

func asCommandError(name Name, err error) *Error {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr
	}
	return fromStore(name, err)
}
