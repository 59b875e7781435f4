package pipeline

import (
	"image"
	_ "image/jpeg" // atlas pages are usually png, but nothing forbids jpeg
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/spine-split/atlas"
)

// Source is the shared input atlas: the parsed descriptor plus the decoded
// page images. It is loaded once and shared, read-only, by every animation
// in the batch.
type Source struct {
	AtlasPath string
	Pages     []*atlas.Page

	images map[string]image.Image // page name -> pixels
}

// LoadSource parses the descriptor at atlasPath and decodes every page
// image it names, looked up next to the descriptor.
func LoadSource(atlasPath string) (*Source, error) {
	f, err := os.Open(atlasPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening atlas descriptor")
	}
	pages, err := atlas.Decode(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	s := &Source{
		AtlasPath: atlasPath,
		Pages:     pages,
		images:    make(map[string]image.Image, len(pages)),
	}
	dir := filepath.Dir(atlasPath)
	for _, p := range pages {
		imgPath := filepath.Join(dir, p.Name)
		pf, err := os.Open(imgPath)
		if err != nil {
			return nil, errors.Wrapf(err, "opening page image %s", p.Name)
		}
		img, _, err := image.Decode(pf)
		pf.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "decoding page image %s", p.Name)
		}
		s.images[p.Name] = img
		glog.Infof("loaded page %s (%dx%d, %d regions)", p.Name, img.Bounds().Dx(), img.Bounds().Dy(), len(p.Regions))
	}
	return s, nil
}

// FindRegion locates a region by key across all pages and returns it
// together with its page's pixels. Returns nil when no page has it.
func (s *Source) FindRegion(key string) (*atlas.Region, image.Image) {
	for _, p := range s.Pages {
		if r := p.Find(key); r != nil {
			return r, s.images[p.Name]
		}
	}
	return nil, nil
}

// PageImage returns the decoded pixels of a page by name.
func (s *Source) PageImage(name string) image.Image {
	return s.images[name]
}

// Format returns the first page's declared pixel format, carried into the
// packed descriptors.
func (s *Source) Format() string {
	if len(s.Pages) > 0 && s.Pages[0].Format != "" {
		return s.Pages[0].Format
	}
	return "RGBA8888"
}

// Filter returns the first page's texture filter, carried into the packed
// descriptors.
func (s *Source) Filter() string {
	if len(s.Pages) > 0 && s.Pages[0].Filter != "" {
		return s.Pages[0].Filter
	}
	return "Linear,Linear"
}
