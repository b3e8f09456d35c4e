package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	s := New("win32res")
	s.Get().Info("dropped")

	core, logs := observer.New(zap.DebugLevel)
	s.Set(zap.New(core))
	s.Get().Debug("kept")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].LoggerName != "win32res" || entries[0].Message != "kept" {
		t.Errorf("entry = %+v", entries[0].Entry)
	}

	s.Set(nil)
	s.Get().Info("dropped again")
	if logs.Len() != 1 {
		t.Errorf("logged after reset")
	}
}
