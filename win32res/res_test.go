package win32res

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	emiterrors "github.com/wippyai/pe-emit/errors"
)

func TestRES_RoundTrip(t *testing.T) {
	resources := []Resource{
		{Type: ID(TypeVersion), Name: ID(1), LanguageID: 0x0409, Data: []byte{1, 2, 3, 4, 5}},
		{Type: Name("CUSTOM"), Name: Name("PAYLOAD"), LanguageID: 0, Data: []byte("odd")},
		{Type: ID(TypeManifest), Name: ID(2), LanguageID: 0x0407, Data: []byte{}},
	}

	var buf bytes.Buffer
	if err := WriteRES(&buf, resources); err != nil {
		t.Fatalf("WriteRES: %v", err)
	}
	if buf.Len()%4 != 0 {
		t.Errorf("file length %d not DWORD aligned", buf.Len())
	}

	got, err := ParseRES(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseRES: %v", err)
	}
	if len(got) != len(resources) {
		t.Fatalf("parsed %d resources, want %d", len(got), len(resources))
	}
	for i, want := range resources {
		if got[i].Type != want.Type || got[i].Name != want.Name {
			t.Errorf("%d: identity %v/%v, want %v/%v", i, got[i].Type, got[i].Name, want.Type, want.Name)
		}
		if got[i].LanguageID != want.LanguageID {
			t.Errorf("%d: language 0x%x, want 0x%x", i, got[i].LanguageID, want.LanguageID)
		}
		if !bytes.Equal(got[i].Data, want.Data) {
			t.Errorf("%d: data %x, want %x", i, got[i].Data, want.Data)
		}
	}
}

func TestRES_EmptyFileHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRES(&buf, nil); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x00, // DataSize
		0x20, 0x00, 0x00, 0x00, // HeaderSize
		0xff, 0xff, 0x00, 0x00, // TYPE #0
		0xff, 0xff, 0x00, 0x00, // NAME #0
		0, 0, 0, 0, // DataVersion
		0, 0, 0, 0, // MemoryFlags, LanguageId
		0, 0, 0, 0, // Version
		0, 0, 0, 0, // Characteristics
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got  %x\nwant %x", buf.Bytes(), want)
	}

	got, err := ParseRES(buf.Bytes())
	if err != nil || len(got) != 0 {
		t.Errorf("ParseRES(empty) = %v, %v", got, err)
	}
}

func TestRES_Truncated(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteRES(&buf, []Resource{{Type: ID(TypeRCData), Name: ID(7), Data: []byte("payload")}})
	data := buf.Bytes()[:buf.Len()-6]

	_, err := ParseRES(data)
	if !errors.Is(err, &emiterrors.Error{Phase: emiterrors.PhaseResource, Kind: emiterrors.KindInvalidData}) {
		t.Fatalf("expected invalid data error, got %v", err)
	}
}

func TestRES_WriteRejectsWideOrdinals(t *testing.T) {
	tests := []struct {
		name string
		res  Resource
	}{
		{"wide type", Resource{Type: ID(0x10000), Name: ID(1)}},
		{"negative name", Resource{Type: ID(TypeRCData), Name: ID(-2)}},
		{"wide language", Resource{Type: ID(TypeRCData), Name: ID(1), LanguageID: 0x10000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WriteRES(&buf, []Resource{tt.res})
			if !errors.Is(err, &emiterrors.Error{Phase: emiterrors.PhaseResource, Kind: emiterrors.KindOverflow}) {
				t.Errorf("expected overflow error, got %v", err)
			}
		})
	}
}

func TestRES_Malformed(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteRES(&buf, []Resource{{Type: Name("CUSTOM"), Name: Name("X"), Data: []byte("data")}})
	valid := buf.Bytes()
	const second = 32 // first entry after the empty marker

	withHeaderSize := func(size uint32) []byte {
		data := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(data[second+4:], size)
		return data
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"all zero", make([]byte, 32)},
		{"zero header size", withHeaderSize(0)},
		{"header size below fixed fields", withHeaderSize(16)},
		{"header size one short", withHeaderSize(uint32(len(valid)-second-4) - 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan error, 1)
			go func() {
				_, err := ParseRES(tt.data)
				done <- err
			}()

			select {
			case err := <-done:
				if !errors.Is(err, &emiterrors.Error{Phase: emiterrors.PhaseResource, Kind: emiterrors.KindInvalidData}) {
					t.Fatalf("expected invalid data error, got %v", err)
				}
			case <-time.After(3 * time.Second):
				t.Fatal("ParseRES did not return")
			}
		})
	}
}
