package security

import (
	"iter"
	"sync/atomic"

	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/errors"
)

// Attribute pairs a security action with the attribute that declared it.
// Attribute is a *PermissionSetFileReference when a fixup path was recorded.
type Attribute struct {
	Attribute peemit.CustomAttribute
	Action    Action
}

// WellKnownAttributeData holds the security attribute data decoded for one
// symbol. The zero value is ready to use. Setters may race on first use; all
// callers converge on a single backing array per kind.
//
// Index writes for one symbol come from its binding worker. Attributes must
// only be called once binding of the symbol has completed.
type WellKnownAttributeData struct {
	actions atomic.Pointer[[]Action]
	paths   atomic.Pointer[[]string]
}

// SetAction records action for the attribute at index among total custom
// attributes. action must be nonzero.
func (d *WellKnownAttributeData) SetAction(index int, action Action, total int) {
	errors.Assert(index >= 0 && index < total, errors.PhaseSecurity,
		"attribute index %d out of range [0,%d)", index, total)
	errors.Assert(action != 0, errors.PhaseSecurity, "security action must be nonzero")

	actions := lazySlice(&d.actions, total)
	actions[index] = action
}

// SetFixupPath records the resolved file whose contents replace the File
// argument of the PermissionSet attribute at index. A nonzero action must
// also be recorded for index before the data is projected.
func (d *WellKnownAttributeData) SetFixupPath(index int, path string, total int) {
	errors.Assert(index >= 0 && index < total, errors.PhaseSecurity,
		"attribute index %d out of range [0,%d)", index, total)
	errors.Assert(path != "", errors.PhaseSecurity, "permission set fixup path must not be empty")

	paths := lazySlice(&d.paths, total)
	paths[index] = path
}

// lazySlice returns the slice behind p, allocating one of length total if
// none exists yet. Concurrent first calls all return the winner's slice.
func lazySlice[T any](p *atomic.Pointer[[]T], total int) []T {
	s := p.Load()
	if s == nil {
		fresh := make([]T, total)
		p.CompareAndSwap(nil, &fresh)
		s = p.Load()
	}
	errors.Assert(len(*s) == total, errors.PhaseSecurity,
		"attribute count changed from %d to %d", len(*s), total)
	return *s
}

// HasSecurityAttributes reports whether any action was recorded.
func (d *WellKnownAttributeData) HasSecurityAttributes() bool {
	return d.actions.Load() != nil
}

// Attributes yields the security attributes among customAttributes, which
// must be the symbol's complete attribute list in declaration order. The
// sequence is a pure projection of the recorded state and may be iterated any
// number of times.
func (d *WellKnownAttributeData) Attributes(customAttributes []peemit.CustomAttribute) iter.Seq[Attribute] {
	actionsPtr := d.actions.Load()
	pathsPtr := d.paths.Load()

	var actions []Action
	var paths []string
	if actionsPtr != nil {
		actions = *actionsPtr
		errors.Assert(len(actions) == len(customAttributes), errors.PhaseSecurity,
			"recorded %d attribute slots, got %d attributes", len(actions), len(customAttributes))
	}
	if pathsPtr != nil {
		paths = *pathsPtr
		errors.Assert(actions != nil && len(paths) == len(actions), errors.PhaseSecurity,
			"fixup paths recorded without matching security actions")
	}

	return func(yield func(Attribute) bool) {
		for i, action := range actions {
			var path string
			if paths != nil {
				path = paths[i]
			}
			if action == 0 {
				errors.Assert(path == "", errors.PhaseSecurity,
					"fixup path recorded for attribute %d without a security action", i)
				continue
			}

			attr := customAttributes[i]
			if path != "" {
				attr = &PermissionSetFileReference{CustomAttribute: attr, path: path}
			}
			if !yield(Attribute{Action: action, Attribute: attr}) {
				return
			}
		}
	}
}
