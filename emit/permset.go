package emit

import (
	"fmt"

	"github.com/wippyai/pe-emit/blob"
	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/internal/binary"
	"github.com/wippyai/pe-emit/security"
)

// Permission set blob markers and named-argument element types.
const (
	permissionSetPrefix = '.'
	namedProperty       = 0x54
	elementBoolean      = 0x02
	elementI4           = 0x08
	elementString       = 0x0e
)

// encodePermissionSet serializes the attributes of one security action in
// the compact DeclSecurity form.
func encodePermissionSet(attrs []security.Resolved) (blob.Immutable, error) {
	w := binary.NewWriter()
	w.Byte(permissionSetPrefix)
	w.WriteCompressedU32(uint32(len(attrs)))

	for _, a := range attrs {
		writeSerString(w, a.Attribute.AttributeType().FullName())

		props := binary.NewWriter()
		props.WriteCompressedU32(uint32(len(a.NamedArguments)))
		for _, arg := range a.NamedArguments {
			props.Byte(namedProperty)
			if err := writeNamedValue(props, arg.Name, arg.Value); err != nil {
				return blob.Immutable{}, err
			}
		}
		w.WriteCompressedU32(uint32(props.Len()))
		w.WriteBytes(props.Bytes())
	}
	return blob.Of(w.Bytes()), nil
}

func writeNamedValue(w *binary.Writer, name string, value any) error {
	switch v := value.(type) {
	case string:
		w.Byte(elementString)
		writeSerString(w, name)
		writeSerString(w, v)
	case bool:
		w.Byte(elementBoolean)
		writeSerString(w, name)
		if v {
			w.Byte(1)
		} else {
			w.Byte(0)
		}
	case int32:
		w.Byte(elementI4)
		writeSerString(w, name)
		w.WriteU32(uint32(v))
	case int:
		return writeNamedValue(w, name, int32(v))
	default:
		return errors.Unsupported(errors.PhaseEmit, fmt.Sprintf("named argument %s of type %T", name, value))
	}
	return nil
}

func writeSerString(w *binary.Writer, s string) {
	w.WriteCompressedU32(uint32(len(s)))
	w.WriteBytes([]byte(s))
}
