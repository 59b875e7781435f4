// Package pipeline drives the per-animation atlas split: parse the shared
// atlas, extract the regions an animation references, pack them into a
// private atlas, rewrite the skeleton against it and write everything out.
//
// Animations are independent: each one reads the shared immutable source
// atlas and its own skeleton, and writes only into its own output
// directory. A failure is terminal for that animation only.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/spine-split/atlas"
	"badc0de.net/pkg/spine-split/extract"
	"badc0de.net/pkg/spine-split/pack"
	"badc0de.net/pkg/spine-split/skeleton"
)

// Stage is how far an animation's pipeline got.
type Stage int

const (
	StageDiscovered Stage = iota
	StageAtlasParsed
	StageRegionsExtracted
	StagePacked
	StageRewritten
	StageWritten
)

func (s Stage) String() string {
	switch s {
	case StageDiscovered:
		return "discovered"
	case StageAtlasParsed:
		return "atlas parsed"
	case StageRegionsExtracted:
		return "regions extracted"
	case StagePacked:
		return "packed"
	case StageRewritten:
		return "rewritten"
	case StageWritten:
		return "written"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Animation is one unit of work: a skeleton document paired with the shared
// atlas.
type Animation struct {
	// Name of the animation, derived from the skeleton file name.
	Name string

	// SkeletonPath is the skeleton document (.json, or .skel when a
	// Converter is available to turn it into JSON).
	SkeletonPath string
}

// Result is the outcome for one animation. Err is nil exactly when Stage
// reached StageWritten.
type Result struct {
	Animation string
	Stage     Stage
	Err       error
}

// Failed reports whether the animation's pipeline ended in the Failed state.
func (r Result) Failed() bool { return r.Err != nil }

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: failed at %s: %v", r.Animation, r.Stage, r.Err)
	}
	return fmt.Sprintf("%s: %s", r.Animation, r.Stage)
}

// Pipeline holds everything shared between animations. The source atlas is
// shared by reference and never written to.
type Pipeline struct {
	Source *Source
	OutDir string

	// MaxPageW and MaxPageH bound the packed page size.
	MaxPageW, MaxPageH int

	// Converter, when non-nil, is invoked at the boundary: to turn binary
	// skeletons into JSON before parsing, and to import/export the written
	// outputs through the authoring tool afterwards.
	Converter Converter

	// ConvertTimeout bounds each individual collaborator call. Zero means
	// no deadline.
	ConvertTimeout time.Duration

	// Workers is the number of animations processed in parallel by Run.
	// Zero or negative means one per animation.
	Workers int
}

// Process runs one animation through every stage. The returned Result
// carries the last stage reached and, when it is not StageWritten, the
// error that stopped the pipeline there.
func (p *Pipeline) Process(ctx context.Context, a Animation) Result {
	fail := func(s Stage, err error) Result {
		glog.Errorf("%s: failed at %s: %v", a.Name, s, err)
		return Result{Animation: a.Name, Stage: s, Err: err}
	}

	skelPath := a.SkeletonPath
	if filepath.Ext(skelPath) == ".skel" {
		converted, err := p.convertSkeleton(ctx, a)
		if err != nil {
			return fail(StageDiscovered, err)
		}
		skelPath = converted
	}

	f, err := os.Open(skelPath)
	if err != nil {
		return fail(StageDiscovered, errors.Wrap(err, "opening skeleton"))
	}
	doc, err := skeleton.Decode(f)
	f.Close()
	if err != nil {
		return fail(StageDiscovered, err)
	}

	refs, err := doc.References()
	if err != nil {
		return fail(StageAtlasParsed, err)
	}
	glog.Infof("%s: references %d regions", a.Name, len(refs))

	// extract only the regions this animation references; regions the
	// skeleton names but the shared atlas lacks surface later as
	// unresolved references, not as silent gaps
	var images []*extract.Image
	for _, key := range refs {
		region, pageImg := p.Source.FindRegion(key)
		if region == nil {
			continue
		}
		img, err := extract.Extract(pageImg, region)
		if err != nil {
			return fail(StageRegionsExtracted, err)
		}
		images = append(images, img)
	}
	glog.Infof("%s: extracted %d of %d referenced regions", a.Name, len(images), len(refs))

	layout, pageImages, err := pack.Pack(images, p.MaxPageW, p.MaxPageH)
	if err != nil {
		return fail(StagePacked, err)
	}
	glog.Infof("%s: packed into %d page(s)", a.Name, layout.PageCount())

	rewritten, err := skeleton.Rewrite(doc, layout, a.Name)
	if err != nil {
		return fail(StageRewritten, err)
	}

	if err := p.write(a, layout, pageImages, rewritten); err != nil {
		return fail(StageRewritten, err)
	}

	if p.Converter != nil {
		if err := p.export(ctx, a); err != nil {
			return fail(StageWritten, err)
		}
	}

	glog.Infof("%s: written to %s", a.Name, p.animDir(a))
	return Result{Animation: a.Name, Stage: StageWritten}
}

func (p *Pipeline) animDir(a Animation) string {
	return filepath.Join(p.OutDir, a.Name)
}

// write puts the packed pages, the new descriptor and the rewritten
// skeleton into the animation's own output directory.
func (p *Pipeline) write(a Animation, layout *pack.Layout, pageImages []*image.NRGBA, doc *skeleton.Document) error {
	dir := p.animDir(a)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	pages := layout.Pages(a.Name, p.Source.Format(), p.Source.Filter())
	for i, img := range pageImages {
		f, err := os.Create(filepath.Join(dir, pages[i].Name))
		if err != nil {
			return errors.Wrap(err, "creating page image")
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return errors.Wrapf(err, "encoding page %s", pages[i].Name)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "writing page %s", pages[i].Name)
		}
	}

	f, err := os.Create(filepath.Join(dir, a.Name+".atlas"))
	if err != nil {
		return errors.Wrap(err, "creating atlas descriptor")
	}
	if err := atlas.Encode(f, pages); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "writing atlas descriptor")
	}

	f, err = os.Create(filepath.Join(dir, a.Name+".json"))
	if err != nil {
		return errors.Wrap(err, "creating skeleton document")
	}
	if err := doc.Encode(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "writing skeleton document")
}
