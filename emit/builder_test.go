package emit

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/binder"
	"github.com/wippyai/pe-emit/diagnostic"
	"github.com/wippyai/pe-emit/eh"
	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/fatal"
	"github.com/wippyai/pe-emit/nopia"
	"github.com/wippyai/pe-emit/security"
	"github.com/wippyai/pe-emit/win32res"
)

type recordingWriter struct {
	calls    []string
	sections map[string][]byte
	res      []byte
	blobs    map[string]uint32
	failOn   string
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{sections: map[string][]byte{}, blobs: map[string]uint32{}}
}

func (w *recordingWriter) record(call string) error {
	w.calls = append(w.calls, call)
	if w.failOn != "" && strings.HasPrefix(call, w.failOn) {
		return fmt.Errorf("disk full")
	}
	return nil
}

func (w *recordingWriter) WriteExceptionSection(method string, section []byte) error {
	w.sections[method] = section
	return w.record("eh " + method)
}

func (w *recordingWriter) WriteResources(res []byte) error {
	w.res = res
	return w.record("res")
}

func (w *recordingWriter) WriteSecurityAttribute(symbol string, action security.Action, set uint32) error {
	w.blobs[symbol+" "+action.String()] = set
	return w.record("sec " + symbol + " " + action.String())
}

func (w *recordingWriter) WriteEmbeddedType(t *nopia.EmbeddedType) error {
	return w.record("type " + t.FullName())
}

// interopType is a one-type symbol model.
type interopType string

type interopAdapter struct{}

func (interopAdapter) Kind(nopia.Symbol) nopia.SymbolKind                  { return nopia.KindType }
func (interopAdapter) Name(sym nopia.Symbol) string                        { return string(sym.(interopType)) }
func (interopAdapter) Visibility(nopia.Symbol) nopia.Visibility            { return nopia.VisibilityPublic }
func (interopAdapter) Flags(nopia.Symbol) nopia.MemberFlags                { return 0 }
func (interopAdapter) ContainingType(nopia.Symbol) nopia.Symbol            { return nil }
func (interopAdapter) Signature(nopia.Symbol) nopia.Signature              { return nopia.Signature{} }
func (interopAdapter) Accessors(nopia.Symbol) (nopia.Symbol, nopia.Symbol) { return nil, nil }

func (interopAdapter) TypeIdentity(sym nopia.Symbol) nopia.TypeIdentity {
	return nopia.TypeIdentity{Name: string(sym.(interopType))}
}

func (interopAdapter) ResolveType(sym nopia.Symbol, _ *nopia.Context) peemit.TypeReference {
	return peemit.NamedType(sym.(interopType))
}

type permissionSet struct {
	named []peemit.NamedArgument
}

func (a *permissionSet) AttributeType() peemit.TypeReference {
	return peemit.NamedType("System.Security.Permissions.PermissionSetAttribute")
}
func (a *permissionSet) Arguments() []any                       { return nil }
func (a *permissionSet) NamedArguments() []peemit.NamedArgument { return a.named }

func tokens(peemit.TypeReference) uint32 { return 0x01000001 }

func TestModuleBuilder_EmitOrder(t *testing.T) {
	dir := t.TempDir()
	perm := filepath.Join(dir, "perm.xml")
	if err := os.WriteFile(perm, []byte("<PermissionSet/>"), 0o600); err != nil {
		t.Fatal(err)
	}

	b := NewModuleBuilder(interopAdapter{}, tokens, DefaultOptions())
	b.AddExceptionRegions("Z.Run", eh.NewFinally(0, 4, 4, 8))
	b.AddExceptionRegions("A.Main", eh.NewCatch(0, 2, 2, 6, peemit.NamedType("System.Exception")))
	b.AddExceptionRegions("M.Empty")
	if err := b.AddResource(win32res.Resource{Type: win32res.ID(win32res.TypeVersion), Name: win32res.ID(1), Data: []byte{1}}, diagnostic.Location{}); err != nil {
		t.Fatal(err)
	}

	attrs := []peemit.CustomAttribute{
		&permissionSet{named: []peemit.NamedArgument{{Name: "File", Value: "perm.xml"}, {Name: "Unrestricted", Value: true}}},
		&permissionSet{named: []peemit.NamedArgument{{Name: "Name", Value: "FullTrust"}}},
	}
	data := b.SecurityAttributes("Program", attrs, diagnostic.Location{Path: "a.cs", Line: 3, Column: 2})
	data.SetAction(0, security.ActionDemand, 2)
	data.SetFixupPath(0, perm, 2)
	data.SetAction(1, security.ActionAssert, 2)
	b.SecurityAttributes("Other", nil, diagnostic.Location{})

	if err := b.EmbedAll([]nopia.Symbol{interopType("Interop.IB"), interopType("Interop.IA")}); err != nil {
		t.Fatal(err)
	}

	w := newRecordingWriter()
	if err := b.Emit(w); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	want := []string{
		"eh A.Main",
		"eh Z.Run",
		"res",
		"sec Program Demand",
		"sec Program Assert",
		"type Interop.IA",
		"type Interop.IB",
	}
	if strings.Join(w.calls, "|") != strings.Join(want, "|") {
		t.Fatalf("calls = %v\nwant    %v", w.calls, want)
	}
	if b.Diagnostics().Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", b.Diagnostics().Items())
	}

	parsed, err := win32res.ParseRES(w.res)
	if err != nil || len(parsed) != 1 {
		t.Fatalf("ParseRES = %v, %v", parsed, err)
	}

	heap := b.Blobs().Bytes()
	demand := heap[w.blobs["Program Demand"]:]
	if !bytes.Contains(demand, []byte(hex.EncodeToString([]byte("<PermissionSet/>")))) {
		t.Error("demand permission set does not carry the file content as hex")
	}
	if bytes.Contains(heap, []byte("perm.xml")) {
		t.Error("File argument was not replaced")
	}
}

func TestModuleBuilder_PermissionSetFileReadError(t *testing.T) {
	b := NewModuleBuilder(nil, tokens, DefaultOptions())
	loc := diagnostic.Location{Path: "a.cs", Line: 7, Column: 1}
	missing := filepath.Join(t.TempDir(), "missing.xml")

	attrs := []peemit.CustomAttribute{&permissionSet{named: []peemit.NamedArgument{{Name: "File", Value: "missing.xml"}}}}
	data := b.SecurityAttributes("Program", attrs, loc)
	data.SetAction(0, security.ActionDeny, 1)
	data.SetFixupPath(0, missing, 1)

	w := newRecordingWriter()
	if err := b.Emit(w); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(w.calls) != 0 {
		t.Errorf("calls = %v, want none", w.calls)
	}

	diags := b.Diagnostics().Items()
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v", diags)
	}
	d := diags[0]
	if d.Code != diagnostic.ErrPermissionSetAttributeFileReadError || d.Location != loc {
		t.Errorf("diagnostic = %v", d)
	}
	if !strings.Contains(d.Message(), missing) {
		t.Errorf("message %q does not name the file", d.Message())
	}
}

func TestModuleBuilder_DuplicateResources(t *testing.T) {
	r := win32res.Resource{Type: win32res.ID(win32res.TypeIcon), Name: win32res.Name("APP"), Data: []byte{1, 2}}

	tests := []struct {
		policy    win32res.DuplicatePolicy
		wantLen   int
		wantDiags int
	}{
		{win32res.KeepAll, 2, 0},
		{win32res.Reject, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.DuplicateResources = tt.policy
			b := NewModuleBuilder(nil, tokens, opts)

			if err := b.AddResource(r, diagnostic.Location{}); err != nil {
				t.Fatal(err)
			}
			err := b.AddResource(r, diagnostic.Location{Path: "app.rc"})
			if (err != nil) != (tt.wantDiags > 0) {
				t.Errorf("second Add err = %v", err)
			}
			if b.Resources().Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", b.Resources().Len(), tt.wantLen)
			}
			if b.Diagnostics().Len() != tt.wantDiags {
				t.Errorf("diagnostics = %v", b.Diagnostics().Items())
			}
		})
	}
}

func TestModuleBuilder_AddResourceFile(t *testing.T) {
	var buf bytes.Buffer
	err := win32res.WriteRES(&buf, []win32res.Resource{
		{Type: win32res.ID(win32res.TypeManifest), Name: win32res.ID(1), Data: []byte("<assembly/>"), LanguageID: 0x409},
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "app.res")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	b := NewModuleBuilder(nil, tokens, DefaultOptions())
	if err := b.AddResourceFile(path); err != nil {
		t.Fatal(err)
	}
	if got := b.Resources().Entries(); len(got) != 1 || string(got[0].Data) != "<assembly/>" {
		t.Errorf("entries = %+v", got)
	}

	err = b.AddResourceFile(filepath.Join(t.TempDir(), "none.res"))
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindFileRead {
		t.Errorf("err = %v, want file_read", err)
	}
}

func TestModuleBuilder_EmbeddingDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.EmbedInteropTypes = false
	b := NewModuleBuilder(interopAdapter{}, tokens, opts)

	if b.Engine() != nil {
		t.Error("engine created with embedding disabled")
	}
	if _, err := b.Embed(interopType("Interop.IA")); err == nil {
		t.Error("Embed succeeded with embedding disabled")
	}
	if err := b.EmbedAll(nil); err == nil {
		t.Error("EmbedAll succeeded with embedding disabled")
	}
}

func TestModuleBuilder_EmbedReportsToOwnSink(t *testing.T) {
	sink := fatal.NewSink()
	var reported []error
	sink.SetHandler(func(err error) { reported = append(reported, err) })

	opts := DefaultOptions()
	opts.Sink = sink
	opts.EmbedWorkers = 1
	b := NewModuleBuilder(interopAdapter{}, tokens, opts)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("EmbedAll did not re-raise the adapter panic")
			}
		}()
		_ = b.EmbedAll([]nopia.Symbol{"not an interop type"})
	}()

	if len(reported) != 1 {
		t.Fatalf("sink saw %d reports, want 1", len(reported))
	}
	if sink.LastReported() == nil {
		t.Error("sink recorded no last error")
	}
	if fatal.Default().LastReported() == reported[0] {
		t.Error("report reached the process-wide sink")
	}
}

func TestModuleBuilder_CheckUnsafe(t *testing.T) {
	loc := diagnostic.Location{Path: "p.cs", Line: 1, Column: 1}

	tests := []struct {
		name        string
		allowUnsafe bool
		flags       binder.Flags
		wantCode    diagnostic.Code
		wantResult  bool
	}{
		{"unsafe region without allow_unsafe", false, binder.UnsafeRegion, diagnostic.ErrIllegalUnsafe, true},
		{"unsafe region with allow_unsafe", true, binder.UnsafeRegion, 0, false},
		{"outside unsafe region", true, 0, diagnostic.ErrUnsafeNeeded, true},
		{"suppressed", false, binder.UnsafeRegion | binder.SuppressUnsafeDiagnostics, 0, true},
		{"iterator", true, binder.UnsafeRegion | binder.InIterator, diagnostic.ErrIllegalInnerUnsafe, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.AllowUnsafe = tt.allowUnsafe
			b := NewModuleBuilder(nil, tokens, opts)

			if got := b.CheckUnsafe(tt.flags, loc, nil); got != tt.wantResult {
				t.Errorf("CheckUnsafe = %v, want %v", got, tt.wantResult)
			}
			items := b.Diagnostics().Items()
			if tt.wantCode == 0 {
				if len(items) != 0 {
					t.Errorf("diagnostics = %v, want none", items)
				}
				return
			}
			if len(items) != 1 || items[0].Code != tt.wantCode {
				t.Errorf("diagnostics = %v, want %s", items, tt.wantCode)
			}
		})
	}
}

func TestModuleBuilder_WriterFailureStops(t *testing.T) {
	b := NewModuleBuilder(interopAdapter{}, tokens, DefaultOptions())
	b.AddExceptionRegions("A", eh.NewFault(0, 1, 1, 2))
	if _, err := b.Embed(interopType("Interop.IA")); err != nil {
		t.Fatal(err)
	}

	w := newRecordingWriter()
	w.failOn = "eh"
	err := b.Emit(w)
	e, ok := errors.As(err)
	if !ok || e.Phase != errors.PhaseEmit {
		t.Fatalf("err = %v, want emit error", err)
	}
	if len(w.calls) != 1 {
		t.Errorf("calls = %v, want emission to stop", w.calls)
	}
}

func TestModuleBuilder_RegionOverflowIsCollected(t *testing.T) {
	b := NewModuleBuilder(nil, tokens, DefaultOptions())
	regions := make([]eh.Region, 0, 700_000)
	for i := range cap(regions) {
		regions = append(regions, eh.NewFinally(uint32(i), uint32(i)+1, uint32(i)+1, uint32(i)+2))
	}
	b.AddExceptionRegions("Huge", regions...)
	b.AddExceptionRegions("Small", eh.NewFinally(0, 1, 1, 2))

	w := newRecordingWriter()
	err := b.Emit(w)
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindOverflow {
		t.Fatalf("err = %v, want overflow", err)
	}
	if _, ok := w.sections["Small"]; !ok {
		t.Error("remaining sections were not written")
	}
}
