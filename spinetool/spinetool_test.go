package spinetool

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"badc0de.net/pkg/spine-split/pipeline"
)

func TestImportArgs(t *testing.T) {
	tool := New("spine", "3.8")
	got := tool.importArgs("walk.json", "proj.spine")
	want := []string{"-u", "3.8", "-i", "walk.json", "-o", "proj.spine", "--import"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExportArgs(t *testing.T) {
	tool := New("spine", "3.8")
	got := tool.exportArgs("proj.spine", "out")
	want := []string{"-u", "3.8", "-i", "proj.spine", "-m", "-o", "out", "-e", "json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	tool.ExportSettings = "save.export.json"
	got = tool.exportArgs("proj.spine", "out")
	want = []string{"-u", "3.8", "-i", "proj.spine", "-m", "-o", "out", "-e", "save.export.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("with settings: got %v, want %v", got, want)
	}
}

func TestUnpackArgs(t *testing.T) {
	tool := New("spine", "4.2")
	got := tool.unpackArgs("anim", "anim/images", "anim/shared.atlas")
	want := []string{"-u", "4.2", "-i", "anim", "-o", "anim/images", "--unpack", "anim/shared.atlas"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRunMissingBinary(t *testing.T) {
	tool := New("/nonexistent/spine-binary", "3.8")
	err := tool.Import(context.Background(), "walk.json", "proj.spine")
	if err == nil {
		t.Fatal("want error for missing binary")
	}
	var toolErr *pipeline.ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("got %T, want ExternalToolError", err)
	}
	if toolErr.Op != "import" {
		t.Errorf("op: got %s, want import", toolErr.Op)
	}
}
