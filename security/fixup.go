package security

import (
	"encoding/hex"
	"iter"
	"os"

	"go.uber.org/multierr"

	peemit "github.com/wippyai/pe-emit"
	"github.com/wippyai/pe-emit/errors"
)

const (
	fileArgument = "File"
	hexArgument  = "Hex"
)

// PermissionSetFileReference wraps a PermissionSet attribute whose File
// argument names a file. The file is read when Resolve is called.
type PermissionSetFileReference struct {
	peemit.CustomAttribute
	path string
}

// Path returns the resolved file path recorded during binding.
func (r *PermissionSetFileReference) Path() string {
	return r.path
}

// Resolve reads the referenced file and returns the attribute's named
// arguments with File replaced by Hex, the file content as lowercase hex.
func (r *PermissionSetFileReference) Resolve() ([]peemit.NamedArgument, error) {
	content, err := os.ReadFile(r.path)
	if err != nil {
		return nil, errors.FileRead(errors.PhaseSecurity, r.path, err)
	}

	hexArg := peemit.NamedArgument{Name: hexArgument, Value: hex.EncodeToString(content)}
	var out []peemit.NamedArgument
	replaced := false
	for _, arg := range r.CustomAttribute.NamedArguments() {
		if arg.Name == fileArgument && !replaced {
			out = append(out, hexArg)
			replaced = true
			continue
		}
		out = append(out, arg)
	}
	if !replaced {
		out = append(out, hexArg)
	}
	return out, nil
}

// Resolved is a security attribute ready for blob serialization.
type Resolved struct {
	Attribute      peemit.CustomAttribute
	NamedArguments []peemit.NamedArgument
	Action         Action
}

// ResolveAll resolves every attribute of a projection. File references are
// read now; other attributes keep their own named arguments. Attributes whose
// file cannot be read are left out and their errors combined.
func ResolveAll(attrs iter.Seq[Attribute]) ([]Resolved, error) {
	var out []Resolved
	var errs error
	for a := range attrs {
		if ref, ok := a.Attribute.(*PermissionSetFileReference); ok {
			args, err := ref.Resolve()
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			out = append(out, Resolved{Action: a.Action, Attribute: ref.CustomAttribute, NamedArguments: args})
			continue
		}
		out = append(out, Resolved{Action: a.Action, Attribute: a.Attribute, NamedArguments: a.Attribute.NamedArguments()})
	}
	return out, errs
}
