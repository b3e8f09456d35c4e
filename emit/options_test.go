package emit

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/win32res"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.EmbedInteropTypes {
		t.Error("embedding should be on by default")
	}
	if opts.DuplicateResources != win32res.KeepAll {
		t.Errorf("DuplicateResources = %v, want keep_all", opts.DuplicateResources)
	}
	if opts.EmbedWorkers != runtime.GOMAXPROCS(0) {
		t.Errorf("EmbedWorkers = %d", opts.EmbedWorkers)
	}
	if opts.AllowUnsafe {
		t.Error("unsafe should be off by default")
	}
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    func(Options) bool
		wantErr errors.Kind
	}{
		{
			name: "empty keeps defaults",
			yaml: "",
			want: func(o Options) bool { return o == DefaultOptions() },
		},
		{
			name: "all keys",
			yaml: "embed_interop_types: false\nduplicate_resources: reject\nembed_workers: 3\nallow_unsafe: true\n",
			want: func(o Options) bool {
				return !o.EmbedInteropTypes && o.DuplicateResources == win32res.Reject &&
					o.EmbedWorkers == 3 && o.AllowUnsafe
			},
		},
		{
			name: "partial",
			yaml: "allow_unsafe: true\n",
			want: func(o Options) bool {
				return o.AllowUnsafe && o.EmbedInteropTypes && o.DuplicateResources == win32res.KeepAll
			},
		},
		{
			name:    "unknown key",
			yaml:    "embed_everything: true\n",
			wantErr: errors.KindInvalidInput,
		},
		{
			name:    "unknown policy",
			yaml:    "duplicate_resources: merge\n",
			wantErr: errors.KindInvalidInput,
		},
		{
			name:    "non-positive workers",
			yaml:    "embed_workers: 0\n",
			wantErr: errors.KindInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptions([]byte(tt.yaml))
			if tt.wantErr != "" {
				e, ok := errors.As(err)
				if !ok || e.Kind != tt.wantErr {
					t.Fatalf("err = %v, want kind %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.want(got) {
				t.Errorf("unexpected options %+v", got)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emit.yaml")
	if err := os.WriteFile(path, []byte("duplicate_resources: reject\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts, err := LoadOptions(path)
	if err != nil {
		t.Fatal(err)
	}
	if opts.DuplicateResources != win32res.Reject {
		t.Errorf("DuplicateResources = %v", opts.DuplicateResources)
	}

	_, err = LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	if e, ok := errors.As(err); !ok || e.Kind != errors.KindFileRead || e.Phase != errors.PhaseConfig {
		t.Errorf("err = %v, want config file_read", err)
	}
}
