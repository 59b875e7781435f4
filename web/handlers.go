// Package web serves a browsable view of a source atlas and the split
// outputs: page images, individual regions, animation GIFs and an HTML
// index with inline thumbnails.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/gif"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/nfnt/resize"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/spine-split/atlas"
	"badc0de.net/pkg/spine-split/extract"
	"badc0de.net/pkg/spine-split/pipeline"
	"badc0de.net/pkg/spine-split/preview"
)

type Handler struct {
	extractLock sync.Mutex
	src         *pipeline.Source
	outDir      string
	anims       []pipeline.Animation
}

// NewHandler constructs a web handler over a loaded source atlas. outDir
// may be empty when no split outputs exist yet.
func NewHandler(src *pipeline.Source, outDir string, anims []pipeline.Animation) *Handler {
	return &Handler{
		src:    src,
		outDir: outDir,
		anims:  anims,
	}
}

// etag derives a weak validator from the descriptor's mod time; any change
// to the atlas on disk invalidates every cached response.
func (h *Handler) etag(kind string, rest string) string {
	generation := 1 // bump if the way we generate responses changes
	var mtime int64
	if s, err := os.Stat(h.src.AtlasPath); err == nil {
		mtime = s.ModTime().Unix()
	}
	return fmt.Sprintf(`W/"%s:%d:%d:%s"`, kind, generation, mtime, rest)
}

func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, etag, mime string) bool {
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	if s, err := os.Stat(h.src.AtlasPath); err == nil {
		w.Header().Set("Last-Modified", s.ModTime().Format(http.TimeFormat))
	}
	return false
}

func (h *Handler) pageHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return
	}
	if idx < 0 || idx >= len(h.src.Pages) {
		http.Error(w, "no such page", http.StatusNotFound)
		return
	}
	page := h.src.Pages[idx]
	outline := r.URL.Query().Get("outline") != ""

	etag := h.etag("page", fmt.Sprintf("%d.%t.image/png", idx, outline))
	if h.serveCached(w, r, etag, "image/png") {
		return
	}

	img := h.src.PageImage(page.Name)
	if outline {
		img = preview.Outline(img, page)
	}
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func (h *Handler) regionHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	key := vars["key"]

	region, pageImg := h.src.FindRegion(key)
	if region == nil {
		http.Error(w, "no such region", http.StatusNotFound)
		return
	}

	etag := h.etag("region", key+".image/png")
	if h.serveCached(w, r, etag, "image/png") {
		return
	}

	h.extractLock.Lock()
	img, err := extract.Extract(pageImg, region)
	h.extractLock.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img.Pix)
}

// regionGIFHandler animates the indexed frames of one region name.
func (h *Handler) regionGIFHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	var regions []*atlas.Region
	for _, p := range h.src.Pages {
		for _, reg := range p.Regions {
			if reg.Name == name && reg.Index >= 0 {
				regions = append(regions, reg)
			}
		}
	}
	if len(regions) == 0 {
		http.Error(w, "no indexed frames for region", http.StatusNotFound)
		return
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Index < regions[j].Index })

	etag := h.etag("anim", fmt.Sprintf("%s.%d.image/gif", name, len(regions)))
	if h.serveCached(w, r, etag, "image/gif") {
		return
	}

	h.extractLock.Lock()
	frames, err := extractFrames(h.src, regions)
	h.extractLock.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	g, err := preview.AnimationGIF(frames, 10)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	gif.EncodeAll(w, g)
}

// outputHandler serves one file from an animation's output directory.
func (h *Handler) outputHandler(w http.ResponseWriter, r *http.Request) {
	if h.outDir == "" {
		http.Error(w, "no output directory configured", http.StatusNotFound)
		return
	}
	vars := mux.Vars(r)
	anim, file := vars["anim"], vars["file"]
	if anim != filepath.Base(anim) || file != filepath.Base(file) {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.outDir, anim, file))
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>atlas: {{.Atlas}}</title></head><body>
<h1>{{.Atlas}}</h1>
{{range .Pages}}
<h2>{{.Name}} ({{.W}}&times;{{.H}})</h2>
<p><a href="/page/{{.Idx}}">page</a> | <a href="/page/{{.Idx}}?outline=1">with region outlines</a></p>
<ul>
{{range .Regions}}<li><a href="/region/{{.Key}}"><img src="{{.Thumb}}" alt="{{.Key}}"> {{.Key}}</a>{{if .Animated}} <a href="/anim/{{.Name}}.gif">animate</a>{{end}}</li>
{{end}}</ul>
{{end}}
{{if .Anims}}<h2>animations</h2>
<ul>{{range .Anims}}<li>{{.Name}}: <a href="/out/{{.Name}}/{{.Name}}.atlas">atlas</a> <a href="/out/{{.Name}}/{{.Name}}.json">skeleton</a> <a href="/out/{{.Name}}/{{.Name}}.png">page</a></li>
{{end}}</ul>{{end}}
</body></html>
`))

type indexRegion struct {
	Key, Name string
	Thumb     template.URL
	Animated  bool
}

type indexPage struct {
	Idx     int
	Name    string
	W, H    int
	Regions []indexRegion
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	h.extractLock.Lock()
	defer h.extractLock.Unlock()

	var pages []indexPage
	for i, p := range h.src.Pages {
		ip := indexPage{Idx: i, Name: p.Name, W: p.Size.X, H: p.Size.Y}
		for _, reg := range p.Regions {
			ir := indexRegion{Key: reg.Key(), Name: reg.Name, Animated: reg.Index == 0}
			if img, err := extract.Extract(h.src.PageImage(p.Name), reg); err == nil {
				thumb := resize.Thumbnail(64, 64, img.Pix, resize.Lanczos3)
				buf := &bytes.Buffer{}
				if err := png.Encode(buf, thumb); err == nil {
					ir.Thumb = template.URL(dataurl.New(buf.Bytes(), "image/png").String())
				}
			}
			ip.Regions = append(ip.Regions, ir)
		}
		pages = append(pages, ip)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Atlas string
		Pages []indexPage
		Anims []pipeline.Animation
	}{filepath.Base(h.src.AtlasPath), pages, h.anims}
	if err := indexTemplate.Execute(w, data); err != nil {
		glog.Errorf("rendering index: %v", err)
	}
}

func extractFrames(src *pipeline.Source, regions []*atlas.Region) ([]image.Image, error) {
	var frames []image.Image
	for _, reg := range regions {
		_, pageImg := src.FindRegion(reg.Key())
		img, err := extract.Extract(pageImg, reg)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img.Pix)
	}
	return frames, nil
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/page/{idx:[0-9]+}", h.pageHandler)
	r.HandleFunc("/region/{key}", h.regionHandler)
	r.HandleFunc("/anim/{name}.gif", h.regionGIFHandler)
	r.HandleFunc("/out/{anim}/{file}", h.outputHandler)
}
