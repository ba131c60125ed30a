package historic

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/DEFRA/cff-chart-prototype/src/telemetry"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "historic.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := tempStore(t)
	pts := []telemetry.Point{
		{DateTime: "2024-01-15T14:45:00", Value: 0.093},
		{DateTime: "2024-01-15T15:00:00", Value: 0.095},
	}
	if !s.Save(pts) {
		t.Fatalf("save failed")
	}
	got, ok := s.Load()
	if !ok {
		t.Fatalf("load reported nothing stored")
	}
	if !reflect.DeepEqual(got, pts) {
		t.Fatalf("round trip mismatch: got %#v want %#v", got, pts)
	}
}

func TestStoreLoadAbsent(t *testing.T) {
	s := tempStore(t)
	if got, ok := s.Load(); ok || got != nil {
		t.Fatalf("expected absent marker, got %#v ok=%v", got, ok)
	}
}

func TestStoreReplaceOnSave(t *testing.T) {
	s := tempStore(t)
	first := []telemetry.Point{{DateTime: "2024-01-01T00:00:00", Value: 1}}
	second := []telemetry.Point{{DateTime: "2024-02-01T00:00:00", Value: 2}}
	if !s.Save(first) || !s.Save(second) {
		t.Fatalf("save failed")
	}
	got, ok := s.Load()
	if !ok || !reflect.DeepEqual(got, second) {
		t.Fatalf("expected second upload to replace first, got %#v", got)
	}
}

func TestStoreClearIdempotent(t *testing.T) {
	s := tempStore(t)
	if !s.Save([]telemetry.Point{{DateTime: "2024-01-01T00:00:00", Value: 1}}) {
		t.Fatalf("save failed")
	}
	if !s.Clear() {
		t.Fatalf("clear failed")
	}
	if _, ok := s.Load(); ok {
		t.Fatalf("dataset still present after clear")
	}
	if !s.Clear() {
		t.Fatalf("second clear should succeed")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "historic.db")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	pts := []telemetry.Point{{DateTime: "2024-01-15T14:45:00", Value: 0.5}}
	if !s.Save(pts) {
		t.Fatalf("save failed")
	}
	s.Close()

	s2, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, ok := s2.Load()
	if !ok || !reflect.DeepEqual(got, pts) {
		t.Fatalf("dataset lost across reopen: %#v ok=%v", got, ok)
	}
}
