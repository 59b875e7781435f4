package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFind(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "shared.atlas"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPINE_ASSETS_PATH", dir)

	if got := Find("shared.atlas"); got != filepath.Join(dir, "shared.atlas") {
		t.Errorf("Find: got %q", got)
	}
	if got := Find("nonexistent.atlas"); got != "" {
		t.Errorf("Find of missing file: got %q", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "walk.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPINE_ASSETS_PATH", dir)

	f, err := Open("walk.json")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()

	if _, err := Open("nonexistent.json"); !os.IsNotExist(err) {
		t.Errorf("Open of missing file: got %v, want not-exist", err)
	}
}
