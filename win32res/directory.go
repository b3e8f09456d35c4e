package win32res

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/pe-emit/errors"
)

// DuplicatePolicy decides how a Directory treats a resource whose
// (type, name, language) identity is already present.
type DuplicatePolicy int

const (
	// KeepAll appends every resource. Resolution is left to the writer.
	KeepAll DuplicatePolicy = iota
	// Reject refuses a resource whose identity is already present.
	Reject
)

func (p DuplicatePolicy) String() string {
	switch p {
	case KeepAll:
		return "keep_all"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p DuplicatePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *DuplicatePolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "keep_all", "":
		*p = KeepAll
	case "reject":
		*p = Reject
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(string(text)).
			Detail("unknown duplicate resource policy %q", text).
			Build()
	}
	return nil
}

// Directory accumulates resources in insertion order. Safe for concurrent use.
type Directory struct {
	seen    map[resourceKey]struct{}
	entries []Resource
	policy  DuplicatePolicy
	mu      sync.RWMutex
}

// NewDirectory creates an empty directory with the given duplicate policy.
func NewDirectory(policy DuplicatePolicy) *Directory {
	return &Directory{
		seen:   make(map[resourceKey]struct{}),
		policy: policy,
	}
}

// Policy returns the duplicate policy.
func (d *Directory) Policy() DuplicatePolicy {
	return d.policy
}

// Add appends r. Under Reject it returns a KindDuplicate error and leaves the
// directory unchanged when r's identity is already present.
func (d *Directory) Add(r Resource) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := r.key()
	if _, dup := d.seen[k]; dup && d.policy == Reject {
		return errors.Duplicate(errors.PhaseResource,
			[]string{r.Type.String(), r.Name.String()},
			fmt.Sprintf("language 0x%04x already present", r.LanguageID))
	}

	d.seen[k] = struct{}{}
	d.entries = append(d.entries, r)

	Logger().Debug("win32 resource added",
		zap.Stringer("type", r.Type),
		zap.Stringer("name", r.Name),
		zap.Uint32("language", r.LanguageID),
		zap.Int("size", len(r.Data)))
	return nil
}

// AddAll adds each resource in order. Every refused resource contributes to
// the combined error; accepted ones stay added.
func (d *Directory) AddAll(resources []Resource) error {
	var err error
	for _, r := range resources {
		err = multierr.Append(err, d.Add(r))
	}
	return err
}

// Entries returns the resources in insertion order. The slice is a copy; the
// Data of each entry is shared and must not be modified.
func (d *Directory) Entries() []Resource {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Resource, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of resources.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}
