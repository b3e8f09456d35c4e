package emit

import (
	"bytes"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/fatal"
	"github.com/wippyai/pe-emit/win32res"
)

// Options configures a ModuleBuilder.
type Options struct {
	// DuplicateResources decides what happens to a Win32 resource whose
	// type, name and language are already present.
	DuplicateResources win32res.DuplicatePolicy `yaml:"duplicate_resources"`

	// EmbedWorkers bounds concurrent interop embedding.
	EmbedWorkers int `yaml:"embed_workers"`

	// EmbedInteropTypes enables local copies of referenced interop types.
	EmbedInteropTypes bool `yaml:"embed_interop_types"`

	// AllowUnsafe permits unsafe regions in the compilation.
	AllowUnsafe bool `yaml:"allow_unsafe"`

	// Sink receives failures observed during embedding. Nil selects the
	// process-wide sink.
	Sink *fatal.Sink `yaml:"-"`
}

// DefaultOptions returns the default builder configuration.
func DefaultOptions() Options {
	return Options{
		DuplicateResources: win32res.KeepAll,
		EmbedWorkers:       runtime.GOMAXPROCS(0),
		EmbedInteropTypes:  true,
	}
}

// ParseOptions decodes YAML over DefaultOptions. Keys that are absent keep
// their defaults; unknown keys are rejected.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return Options{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode options")
	}
	if opts.EmbedWorkers <= 0 {
		return Options{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("embed_workers").
			Value(opts.EmbedWorkers).
			Detail("must be positive").
			Build()
	}
	return opts, nil
}

// LoadOptions reads a YAML options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.FileRead(errors.PhaseConfig, path, err)
	}
	return ParseOptions(data)
}
