package nopia

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/fatal"
)

// Options configures an Engine.
type Options struct {
	// Sink receives panics raised while embedding a batch. Defaults to
	// fatal.Default().
	Sink *fatal.Sink

	// Logger overrides the package logger.
	Logger *zap.Logger

	// Workers bounds EmbedAll concurrency. Zero means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the default engine configuration.
func DefaultOptions() Options {
	return Options{
		Sink:    fatal.Default(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Engine embeds interop symbols, producing at most one embedded definition
// per underlying symbol and member kind. It is safe for concurrent use.
type Engine struct {
	adapter    Adapter
	sink       *fatal.Sink
	log        *zap.Logger
	types      sync.Map // Symbol -> *EmbeddedType
	methods    sync.Map // Symbol -> *EmbeddedMethod
	fields     sync.Map // Symbol -> *EmbeddedField
	events     sync.Map // Symbol -> *EmbeddedEvent
	properties sync.Map // Symbol -> *EmbeddedProperty
	workers    int
}

// New creates an engine over adapter.
func New(adapter Adapter, opts Options) *Engine {
	errors.Assert(adapter != nil, errors.PhaseEmbed, "nil adapter")
	if opts.Sink == nil {
		opts.Sink = fatal.Default()
	}
	if opts.Logger == nil {
		opts.Logger = Logger()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		adapter: adapter,
		sink:    opts.Sink,
		log:     opts.Logger,
		workers: opts.Workers,
	}
}

func (e *Engine) expectKind(sym Symbol, want SymbolKind) {
	errors.Assert(sym != nil, errors.PhaseEmbed, "nil %s symbol", want)
	got := e.adapter.Kind(sym)
	errors.Assert(got == want, errors.PhaseEmbed,
		"cannot embed %s %q as %s", got, e.adapter.Name(sym), want)
}

// Embed dispatches on the symbol kind and returns the embedded definition.
func (e *Engine) Embed(sym Symbol) any {
	switch k := e.adapter.Kind(sym); k {
	case KindType:
		return e.EmbedType(sym)
	case KindMethod:
		return e.EmbedMethod(sym)
	case KindField:
		return e.EmbedField(sym)
	case KindEvent:
		return e.EmbedEvent(sym)
	case KindProperty:
		return e.EmbedProperty(sym)
	default:
		panic(errors.Violation(errors.PhaseEmbed,
			"unsupported symbol kind %s for %q", k, e.adapter.Name(sym)))
	}
}

// EmbedType embeds an interop type and, for nested types, its containers.
func (e *Engine) EmbedType(sym Symbol) *EmbeddedType {
	if v, ok := e.types.Load(sym); ok {
		return v.(*EmbeddedType)
	}
	e.expectKind(sym, KindType)

	t := &EmbeddedType{
		underlying: sym,
		engine:     e,
		name:       e.adapter.Name(sym),
		visibility: e.adapter.Visibility(sym),
	}
	if outer := e.adapter.ContainingType(sym); outer != nil {
		t.containing = e.EmbedType(outer)
	}
	t.identity = parseIdentity(e.adapter.TypeIdentity(sym), t.name)

	v, loaded := e.types.LoadOrStore(sym, t)
	if !loaded {
		e.log.Debug("embedded type",
			zap.String("name", t.FullName()),
			zap.Stringer("identity", t.identity))
	}
	return v.(*EmbeddedType)
}

func parseIdentity(id TypeIdentity, name string) Identity {
	out := Identity{Scope: id.Scope, Name: id.Name}
	if out.Name == "" {
		out.Name = name
	}
	if id.GUID == "" {
		return out
	}
	g, err := uuid.FromString(id.GUID)
	if err != nil {
		panic(errors.New(errors.PhaseEmbed, errors.KindContractViolation).
			Symbol(out.Name).
			Cause(err).
			Detail("malformed interop GUID %q", id.GUID).
			Build())
	}
	out.GUID = g
	return out
}

func (e *Engine) containingType(sym Symbol) *EmbeddedType {
	outer := e.adapter.ContainingType(sym)
	errors.Assert(outer != nil, errors.PhaseEmbed,
		"member %q has no containing type", e.adapter.Name(sym))
	return e.EmbedType(outer)
}

// EmbedMethod embeds an interop method and its declaring type.
func (e *Engine) EmbedMethod(sym Symbol) *EmbeddedMethod {
	if v, ok := e.methods.Load(sym); ok {
		return v.(*EmbeddedMethod)
	}
	e.expectKind(sym, KindMethod)

	m := &EmbeddedMethod{
		underlying: sym,
		containing: e.containingType(sym),
		name:       e.adapter.Name(sym),
		signature:  e.adapter.Signature(sym),
		visibility: e.adapter.Visibility(sym),
		flags:      e.adapter.Flags(sym),
	}
	m.parameters = embedParameters(m, m.signature.Parameters)

	v, loaded := e.methods.LoadOrStore(sym, m)
	if !loaded {
		m.containing.mu.Lock()
		m.containing.methods = append(m.containing.methods, m)
		m.containing.mu.Unlock()
	}
	return v.(*EmbeddedMethod)
}

// EmbedField embeds an interop field and its declaring type.
func (e *Engine) EmbedField(sym Symbol) *EmbeddedField {
	if v, ok := e.fields.Load(sym); ok {
		return v.(*EmbeddedField)
	}
	e.expectKind(sym, KindField)

	f := &EmbeddedField{
		underlying: sym,
		containing: e.containingType(sym),
		engine:     e,
		name:       e.adapter.Name(sym),
		visibility: e.adapter.Visibility(sym),
		flags:      e.adapter.Flags(sym),
	}

	v, loaded := e.fields.LoadOrStore(sym, f)
	if !loaded {
		f.containing.mu.Lock()
		f.containing.fields = append(f.containing.fields, f)
		f.containing.mu.Unlock()
	}
	return v.(*EmbeddedField)
}

// EmbedEvent embeds an interop event with its add and remove accessors.
func (e *Engine) EmbedEvent(sym Symbol) *EmbeddedEvent {
	if v, ok := e.events.Load(sym); ok {
		return v.(*EmbeddedEvent)
	}
	e.expectKind(sym, KindEvent)

	ev := &EmbeddedEvent{
		underlying: sym,
		containing: e.containingType(sym),
		engine:     e,
		name:       e.adapter.Name(sym),
		visibility: e.adapter.Visibility(sym),
		flags:      e.adapter.Flags(sym),
	}
	add, remove := e.adapter.Accessors(sym)
	if add != nil {
		ev.adder = e.EmbedMethod(add)
	}
	if remove != nil {
		ev.remover = e.EmbedMethod(remove)
	}

	v, loaded := e.events.LoadOrStore(sym, ev)
	if !loaded {
		ev.containing.mu.Lock()
		ev.containing.events = append(ev.containing.events, ev)
		ev.containing.mu.Unlock()
	}
	return v.(*EmbeddedEvent)
}

// EmbedProperty embeds an interop property. Its accessors are embedded
// through the adapter first.
func (e *Engine) EmbedProperty(sym Symbol) *EmbeddedProperty {
	if v, ok := e.properties.Load(sym); ok {
		return v.(*EmbeddedProperty)
	}
	e.expectKind(sym, KindProperty)

	var getter, setter *EmbeddedMethod
	get, set := e.adapter.Accessors(sym)
	if get != nil {
		getter = e.EmbedMethod(get)
	}
	if set != nil {
		setter = e.EmbedMethod(set)
	}
	return e.NewEmbeddedProperty(sym, getter, setter)
}

// NewEmbeddedProperty builds the embedded property for sym from already
// embedded accessors. At least one accessor is required; when both are
// present their calling conventions, index parameters, property type and
// by-ref-ness must agree. The first definition stored for sym wins.
func (e *Engine) NewEmbeddedProperty(sym Symbol, getter, setter *EmbeddedMethod) *EmbeddedProperty {
	if v, ok := e.properties.Load(sym); ok {
		return v.(*EmbeddedProperty)
	}
	e.expectKind(sym, KindProperty)

	p := newEmbeddedProperty(e, sym, getter, setter)
	v, loaded := e.properties.LoadOrStore(sym, p)
	if !loaded {
		c := p.ContainingType()
		c.mu.Lock()
		c.properties = append(c.properties, p)
		c.mu.Unlock()
	}
	return v.(*EmbeddedProperty)
}

// panicked carries a recovered panic value out of a worker goroutine.
type panicked struct {
	value any
}

func (p *panicked) Error() string { return "embedding panicked" }

// EmbedAll embeds a batch of symbols on at most workers goroutines (the
// engine default when workers <= 0). A panic in any worker is reported to the
// engine's fatal sink and re-raised on the calling goroutine once the batch
// has stopped.
func (e *Engine) EmbedAll(symbols []Symbol, workers int) {
	if workers <= 0 {
		workers = e.workers
	}
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for _, sym := range symbols {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			if ctx.Err() != nil {
				return nil
			}
			defer func() {
				if r := recover(); r != nil {
					err = &panicked{value: r}
				}
			}()
			return e.sink.Observe(func() error {
				e.Embed(sym)
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		if p, ok := err.(*panicked); ok {
			panic(p.value)
		}
		panic(err)
	}
	e.log.Debug("embedded batch", zap.Int("symbols", len(symbols)), zap.Int("workers", workers))
}

// Types returns every embedded type ordered by full name.
func (e *Engine) Types() []*EmbeddedType {
	var out []*EmbeddedType
	e.types.Range(func(_, v any) bool {
		out = append(out, v.(*EmbeddedType))
		return true
	})
	slices.SortFunc(out, func(a, b *EmbeddedType) int {
		return strings.Compare(a.FullName(), b.FullName())
	})
	return out
}
