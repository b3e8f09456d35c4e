package win32res

import (
	"fmt"
	"io"

	"github.com/wippyai/pe-emit/errors"
	"github.com/wippyai/pe-emit/internal/binary"
)

const (
	ordinalMarker     = 0xffff
	defaultMemoryFlag = 0x1030 // MOVEABLE | PURE | DISCARDABLE
)

// ParseRES reads the resources of a 32-bit .res file. The leading empty
// entry that marks the format is skipped.
func ParseRES(data []byte) ([]Resource, error) {
	r := binary.NewReader(data)
	var out []Resource

	for !r.EOF() {
		start := r.Position()
		res, empty, err := readEntry(r)
		if err != nil {
			return nil, errors.New(errors.PhaseResource, errors.KindInvalidData).
				Value(start).
				Detail("malformed resource entry at offset %d", start).
				Cause(err).
				Build()
		}
		if !empty {
			out = append(out, res)
		}
		r.Align(4)
	}
	return out, nil
}

func readEntry(r *binary.Reader) (Resource, bool, error) {
	start := r.Position()
	dataSize, err := r.ReadU32()
	if err != nil {
		return Resource{}, false, err
	}
	headerSize, err := r.ReadU32()
	if err != nil {
		return Resource{}, false, err
	}

	typ, err := readNameOrID(r)
	if err != nil {
		return Resource{}, false, err
	}
	name, err := readNameOrID(r)
	if err != nil {
		return Resource{}, false, err
	}
	r.Align(4)

	if _, err := r.ReadU32(); err != nil { // DataVersion
		return Resource{}, false, err
	}
	if _, err := r.ReadU16(); err != nil { // MemoryFlags
		return Resource{}, false, err
	}
	lang, err := r.ReadU16()
	if err != nil {
		return Resource{}, false, err
	}
	if _, err := r.ReadBytes(8); err != nil { // Version, Characteristics
		return Resource{}, false, err
	}
	if read := r.Position() - start; int(headerSize) < read {
		return Resource{}, false, errors.InvalidData(errors.PhaseResource,
			[]string{typ.String(), name.String()},
			fmt.Sprintf("header size %d is smaller than the %d header bytes", headerSize, read))
	}

	if err := r.Seek(start + int(headerSize)); err != nil {
		return Resource{}, false, err
	}
	payload, err := r.ReadBytes(int(dataSize))
	if err != nil {
		return Resource{}, false, err
	}

	empty := dataSize == 0 && !typ.IsName() && typ.ID() == 0 && !name.IsName() && name.ID() == 0
	return Resource{
		Type:       typ,
		Name:       name,
		Data:       payload,
		LanguageID: uint32(lang),
	}, empty, nil
}

func readNameOrID(r *binary.Reader) (NameOrID, error) {
	pos := r.Position()
	marker, err := r.ReadU16()
	if err != nil {
		return NameOrID{}, err
	}
	if marker == ordinalMarker {
		id, err := r.ReadU16()
		if err != nil {
			return NameOrID{}, err
		}
		return ID(int32(id)), nil
	}
	if err := r.Seek(pos); err != nil {
		return NameOrID{}, err
	}
	s, err := r.ReadUTF16Z()
	if err != nil {
		return NameOrID{}, err
	}
	return Name(s), nil
}

// WriteRES writes resources as a 32-bit .res file, including the leading
// empty entry. Numeric identifiers and language ids must fit in 16 bits.
func WriteRES(w io.Writer, resources []Resource) error {
	bw := binary.NewWriter()
	writeEntry(bw, Resource{Type: ID(0), Name: ID(0)}, 0)

	for i, res := range resources {
		if err := checkWritable(res); err != nil {
			err.Value = i
			return err
		}
		writeEntry(bw, res, defaultMemoryFlag)
	}

	_, err := w.Write(bw.Bytes())
	return err
}

func checkWritable(res Resource) *errors.Error {
	path := []string{res.Type.String(), res.Name.String()}
	for _, n := range []NameOrID{res.Type, res.Name} {
		if !n.IsName() && (n.ID() < 0 || n.ID() > 0xffff) {
			return errors.New(errors.PhaseResource, errors.KindOverflow).
				Path(path...).
				Detail("ordinal %d does not fit in 16 bits", n.ID()).
				Build()
		}
	}
	if res.LanguageID > 0xffff {
		return errors.New(errors.PhaseResource, errors.KindOverflow).
			Path(path...).
			Detail("language 0x%x does not fit in 16 bits", res.LanguageID).
			Build()
	}
	return nil
}

func writeEntry(w *binary.Writer, res Resource, memoryFlags uint16) {
	start := w.Len()
	w.WriteU32(uint32(len(res.Data)))
	w.WriteU32(0) // header size, patched below
	writeNameOrID(w, res.Type)
	writeNameOrID(w, res.Name)
	w.Align(4)
	w.WriteU32(0) // DataVersion
	w.WriteU16(memoryFlags)
	w.WriteU16(uint16(res.LanguageID))
	w.WriteU32(0) // Version
	w.WriteU32(0) // Characteristics
	w.PatchU32(start+4, uint32(w.Len()-start))
	w.WriteBytes(res.Data)
	w.Align(4)
}

func writeNameOrID(w *binary.Writer, n NameOrID) {
	if n.IsName() {
		w.WriteUTF16Z(n.Name())
		return
	}
	w.WriteU16(ordinalMarker)
	w.WriteU16(uint16(n.ID()))
}
