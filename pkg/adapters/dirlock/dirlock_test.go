package dirlock

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLock_ExclusiveAcrossHandles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "capture")

	a, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, _ := New(dir)

	if !strings.HasSuffix(a.Path(), "capture.lock") {
		t.Errorf("Path() = %s", a.Path())
	}

	ok, err := a.TryLock()
	if err != nil || !ok {
		t.Fatalf("first TryLock = %v, %v", ok, err)
	}
	ok, err = b.TryLock()
	if err != nil {
		t.Fatalf("second TryLock error: %v", err)
	}
	if ok {
		t.Error("second handle acquired a held lock")
	}

	if err := a.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	ok, _ = b.TryLock()
	if !ok {
		t.Error("lock not available after Unlock")
	}
	b.Unlock()
}
