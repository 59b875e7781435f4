package web

import (
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"badc0de.net/pkg/spine-split/imgtest"
	"badc0de.net/pkg/spine-split/pipeline"
)

const testDescriptor = `
shared.png
size: 64,64
format: RGBA8888
filter: Linear,Linear
repeat: none
head
  xy: 2, 2
  size: 16, 12
  orig: 16, 12
  index: -1
arm
  xy: 24, 2
  size: 8, 8
  orig: 8, 8
  index: 0
arm
  xy: 36, 2
  size: 8, 8
  orig: 8, 8
  index: 1
`

func handlerForTest(t *testing.T) *Handler {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "shared.atlas"), []byte(testDescriptor), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(filepath.Join(dir, "shared.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, imgtest.Gradient(64, 64)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src, err := pipeline.LoadSource(filepath.Join(dir, "shared.atlas"))
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	return NewHandler(src, "", nil)
}

func routerForTest(t *testing.T) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	handlerForTest(t).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r *mux.Router, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func TestIndex(t *testing.T) {
	w := get(t, routerForTest(t), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"shared.atlas", "head", "arm_0", "arm_1", "data:image/png;base64", "/anim/arm.gif"} {
		if !strings.Contains(body, want) {
			t.Errorf("index is missing %q", want)
		}
	}
}

func TestPage(t *testing.T) {
	r := routerForTest(t)
	w := get(t, r, "/page/0")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: got %s", ct)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("page width: got %d", img.Bounds().Dx())
	}

	if w := get(t, r, "/page/7"); w.Code != http.StatusNotFound {
		t.Errorf("missing page: got %d, want 404", w.Code)
	}
}

func TestPageNotModified(t *testing.T) {
	r := routerForTest(t)
	w := get(t, r, "/page/0")
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("no ETag on page response")
	}

	req := httptest.NewRequest("GET", "/page/0", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotModified {
		t.Errorf("status: got %d, want 304", w.Code)
	}
}

func TestRegion(t *testing.T) {
	r := routerForTest(t)
	w := get(t, r, "/region/head")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("region size: got %v", img.Bounds())
	}

	if w := get(t, r, "/region/ghost"); w.Code != http.StatusNotFound {
		t.Errorf("missing region: got %d, want 404", w.Code)
	}
}

func TestRegionGIF(t *testing.T) {
	r := routerForTest(t)
	w := get(t, r, "/anim/arm.gif")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	g, err := gif.DecodeAll(w.Body)
	if err != nil {
		t.Fatalf("decoding gif: %v", err)
	}
	if len(g.Image) != 2 {
		t.Errorf("frames: got %d, want 2", len(g.Image))
	}

	if w := get(t, r, "/anim/head.gif"); w.Code != http.StatusNotFound {
		t.Errorf("unindexed region gif: got %d, want 404", w.Code)
	}
}
