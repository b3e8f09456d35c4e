package emit

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/binder"
	"github.com/wippyai/pe-emit/blob"
	"github.com/wippyai/pe-emit/diagnostic"
	"github.com/wippyai/pe-emit/eh"
	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/fatal"
	"github.com/wippyai/pe-emit/nopia"
	"github.com/wippyai/pe-emit/security"
	"github.com/wippyai/pe-emit/win32res"
)

// Writer receives the encoded module parts from Emit.
type Writer interface {
	WriteExceptionSection(method string, section []byte) error
	WriteResources(res []byte) error
	WriteSecurityAttribute(symbol string, action security.Action, permissionSet uint32) error
	WriteEmbeddedType(t *nopia.EmbeddedType) error
}

type securedSymbol struct {
	data  *security.WellKnownAttributeData
	attrs []peemit.CustomAttribute
	loc   diagnostic.Location
}

// ModuleBuilder collects the emission inputs of one module. Its methods are
// safe for concurrent use; Emit must not run concurrently with additions.
type ModuleBuilder struct {
	resources *win32res.Directory
	engine    *nopia.Engine
	blobs     *blob.Heap
	sink      *fatal.Sink
	diags     *diagnostic.Bag
	tokens    eh.TokenResolver
	log       *zap.Logger
	regions   map[string][]eh.Region
	secured   map[string]*securedSymbol
	opts      Options
	mu        sync.Mutex
}

// NewModuleBuilder creates a builder. adapter may be nil when the
// compilation embeds no interop types; tokens maps exception types to
// metadata tokens.
func NewModuleBuilder(adapter nopia.Adapter, tokens eh.TokenResolver, opts Options) *ModuleBuilder {
	sink := opts.Sink
	if sink == nil {
		sink = fatal.Default()
	}
	b := &ModuleBuilder{
		resources: win32res.NewDirectory(opts.DuplicateResources),
		blobs:     blob.NewHeap(),
		sink:      sink,
		diags:     &diagnostic.Bag{},
		tokens:    tokens,
		log:       Logger(),
		regions:   make(map[string][]eh.Region),
		secured:   make(map[string]*securedSymbol),
		opts:      opts,
	}
	if opts.EmbedInteropTypes && adapter != nil {
		b.engine = nopia.New(adapter, nopia.Options{
			Sink:    b.sink,
			Workers: opts.EmbedWorkers,
		})
	}
	return b
}

// Options returns the builder configuration.
func (b *ModuleBuilder) Options() Options { return b.opts }

// Diagnostics returns the diagnostics reported so far.
func (b *ModuleBuilder) Diagnostics() *diagnostic.Bag { return b.diags }

// Blobs returns the module's #Blob heap.
func (b *ModuleBuilder) Blobs() *blob.Heap { return b.blobs }

// Resources returns the Win32 resource directory.
func (b *ModuleBuilder) Resources() *win32res.Directory { return b.resources }

// Engine returns the interop embedding engine, or nil when embedding is off.
func (b *ModuleBuilder) Engine() *nopia.Engine { return b.engine }

// AddExceptionRegions appends regions to the method identified by method.
func (b *ModuleBuilder) AddExceptionRegions(method string, regions ...eh.Region) {
	b.mu.Lock()
	b.regions[method] = append(b.regions[method], regions...)
	b.mu.Unlock()
}

// AddResource adds a Win32 resource. A duplicate refused by the directory
// policy is reported at loc and returned.
func (b *ModuleBuilder) AddResource(r win32res.Resource, loc diagnostic.Location) error {
	err := b.resources.Add(r)
	if err != nil {
		b.diags.Add(diagnostic.New(diagnostic.ErrDuplicateWin32Resource, loc,
			fmt.Sprintf("%s/%s", r.Type, r.Name)))
	}
	return err
}

// AddResourceFile merges the resources of a compiled .res file.
func (b *ModuleBuilder) AddResourceFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.FileRead(errors.PhaseResource, path, err)
	}
	resources, err := win32res.ParseRES(data)
	if err != nil {
		return err
	}
	loc := diagnostic.Location{Path: path}
	for _, r := range resources {
		err = multierr.Append(err, b.AddResource(r, loc))
	}
	return err
}

// SecurityAttributes returns the security attribute data of symbol,
// registering it with its custom attributes on first use. loc is where
// file read failures are reported.
func (b *ModuleBuilder) SecurityAttributes(symbol string, attrs []peemit.CustomAttribute, loc diagnostic.Location) *security.WellKnownAttributeData {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.secured[symbol]
	if !ok {
		s = &securedSymbol{data: &security.WellKnownAttributeData{}, attrs: attrs, loc: loc}
		b.secured[symbol] = s
	}
	return s.data
}

// Embed embeds one interop symbol.
func (b *ModuleBuilder) Embed(sym nopia.Symbol) (any, error) {
	if b.engine == nil {
		return nil, errors.Unsupported(errors.PhaseEmbed, "interop type embedding")
	}
	return b.engine.Embed(sym), nil
}

// EmbedAll embeds a batch of interop symbols on the configured workers.
func (b *ModuleBuilder) EmbedAll(symbols []nopia.Symbol) error {
	if b.engine == nil {
		return errors.Unsupported(errors.PhaseEmbed, "interop type embedding")
	}
	b.engine.EmbedAll(symbols, b.opts.EmbedWorkers)
	return nil
}

// CheckUnsafe reports an unsafe construct bound with flags at loc. Without
// AllowUnsafe any unsafe region is itself an error. It returns whether a
// diagnostic was, or would have been, reported.
func (b *ModuleBuilder) CheckUnsafe(flags binder.Flags, loc diagnostic.Location, sizeOfType peemit.TypeReference) bool {
	if !b.opts.AllowUnsafe && flags.InUnsafeRegion() {
		if !flags.Includes(binder.SuppressUnsafeDiagnostics) {
			b.diags.Add(diagnostic.New(diagnostic.ErrIllegalUnsafe, loc))
		}
		return true
	}
	return binder.ReportUnsafeIfNotAllowed(flags, loc, sizeOfType, b.diags)
}

// Emit writes every collected part to w. Writer failures stop emission.
// Encoding failures of individual parts are combined and returned after the
// remaining parts were written.
func (b *ModuleBuilder) Emit(w Writer) error {
	var errs error

	if err := b.emitExceptionSections(w, &errs); err != nil {
		return err
	}
	if err := b.emitResources(w, &errs); err != nil {
		return err
	}
	if err := b.emitSecurity(w, &errs); err != nil {
		return err
	}
	if b.engine != nil {
		for _, t := range b.engine.Types() {
			if err := w.WriteEmbeddedType(t); err != nil {
				return writeFailed(err, "embedded type %s", t.FullName())
			}
		}
	}

	b.log.Debug("module emitted",
		zap.Int("methods", len(b.regions)),
		zap.Int("resources", b.resources.Len()),
		zap.Int("blob_heap", b.blobs.Len()),
		zap.Int("diagnostics", b.diags.Len()))
	return errs
}

func writeFailed(err error, format string, args ...any) error {
	return errors.Wrap(errors.PhaseEmit, errors.KindInvalidData, err, "write "+fmt.Sprintf(format, args...))
}

func (b *ModuleBuilder) emitExceptionSections(w Writer, errs *error) error {
	for _, method := range slices.Sorted(maps.Keys(b.regions)) {
		section, err := eh.EncodeSection(b.regions[method], b.tokens)
		if err != nil {
			*errs = multierr.Append(*errs, err)
			continue
		}
		if section == nil {
			continue
		}
		if err := w.WriteExceptionSection(method, section); err != nil {
			return writeFailed(err, "exception section of %s", method)
		}
	}
	return nil
}

func (b *ModuleBuilder) emitResources(w Writer, errs *error) error {
	entries := b.resources.Entries()
	if len(entries) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := win32res.WriteRES(&buf, entries); err != nil {
		*errs = multierr.Append(*errs, err)
		return nil
	}
	if err := w.WriteResources(buf.Bytes()); err != nil {
		return writeFailed(err, "win32 resources")
	}
	return nil
}

func (b *ModuleBuilder) emitSecurity(w Writer, errs *error) error {
	for _, symbol := range slices.Sorted(maps.Keys(b.secured)) {
		s := b.secured[symbol]
		if !s.data.HasSecurityAttributes() {
			continue
		}

		resolved, err := security.ResolveAll(s.data.Attributes(s.attrs))
		for _, e := range multierr.Errors(err) {
			if fe, ok := errors.As(e); ok && fe.Kind == errors.KindFileRead {
				b.diags.Add(diagnostic.New(diagnostic.ErrPermissionSetAttributeFileReadError, s.loc,
					fe.Value, "File", fe.Cause))
				continue
			}
			*errs = multierr.Append(*errs, e)
		}

		byAction := make(map[security.Action][]security.Resolved)
		for _, r := range resolved {
			byAction[r.Action] = append(byAction[r.Action], r)
		}
		for _, action := range slices.Sorted(maps.Keys(byAction)) {
			set, err := encodePermissionSet(byAction[action])
			if err != nil {
				*errs = multierr.Append(*errs, err)
				continue
			}
			offset := b.blobs.Add(set)
			if err := w.WriteSecurityAttribute(symbol, action, offset); err != nil {
				return writeFailed(err, "%s permission set of %s", action, symbol)
			}
		}
	}
	return nil
}
