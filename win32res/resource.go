package win32res

import (
	"strconv"
)

// Predefined resource type ids.
const (
	TypeCursor      int32 = 1
	TypeBitmap      int32 = 2
	TypeIcon        int32 = 3
	TypeMenu        int32 = 4
	TypeDialog      int32 = 5
	TypeString      int32 = 6
	TypeRCData      int32 = 10
	TypeGroupCursor int32 = 12
	TypeGroupIcon   int32 = 14
	TypeVersion     int32 = 16
	TypeManifest    int32 = 24
)

// NameOrID identifies a resource type or name either by number or by string.
type NameOrID struct {
	name  string
	id    int32
	named bool
}

// ID returns a numeric identifier.
func ID(id int32) NameOrID {
	return NameOrID{id: id}
}

// Name returns a string identifier.
func Name(name string) NameOrID {
	return NameOrID{name: name, named: true}
}

// IsName reports whether the identifier is a string.
func (n NameOrID) IsName() bool { return n.named }

// ID returns the numeric identifier, or -1 for named identifiers.
func (n NameOrID) ID() int32 {
	if n.named {
		return -1
	}
	return n.id
}

// Name returns the string identifier, or "" for numeric identifiers.
func (n NameOrID) Name() string { return n.name }

// String formats numeric identifiers as "#id".
func (n NameOrID) String() string {
	if n.named {
		return n.name
	}
	return "#" + strconv.FormatInt(int64(n.id), 10)
}

// Resource is one native resource entry. Data is opaque and never modified.
type Resource struct {
	Type       NameOrID
	Name       NameOrID
	Data       []byte
	CodePage   uint32
	LanguageID uint32
}

type resourceKey struct {
	typ      NameOrID
	name     NameOrID
	language uint32
}

func (r Resource) key() resourceKey {
	return resourceKey{typ: r.Type, name: r.Name, language: r.LanguageID}
}
