package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"badc0de.net/pkg/spine-split/skeleton"
)

// Converter is the external authoring-tool boundary. The pipeline calls it
// synchronously, once per animation, and treats any error as that
// animation's failure. Implementations live outside the core (see the
// spinetool package); tests inject fakes.
type Converter interface {
	// Convert turns a skeleton document at input into another data
	// representation at output (binary .skel to JSON and back).
	Convert(ctx context.Context, input, output string) error

	// Import loads a skeleton document and its atlas into an authoring
	// project file at projectPath.
	Import(ctx context.Context, skeletonPath, projectPath string) error

	// Export exports the authoring project into outputDir in the target
	// format.
	Export(ctx context.Context, projectPath, outputDir string) error
}

// ExternalToolError reports a collaborator invocation that failed or
// produced unusable output.
type ExternalToolError struct {
	Op     string // convert, import or export
	Detail string // captured tool output, when any
	Err    error
}

func (e *ExternalToolError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("external tool: %s: %v: %s", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("external tool: %s: %v", e.Op, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// convertCtx applies the configured per-call deadline.
func (p *Pipeline) convertCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.ConvertTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.ConvertTimeout)
}

// convertSkeleton turns a binary skeleton into JSON beside the animation's
// output directory, so the rest of the pipeline only ever parses JSON.
func (p *Pipeline) convertSkeleton(ctx context.Context, a Animation) (string, error) {
	if p.Converter == nil {
		return "", &ExternalToolError{Op: "convert", Err: fmt.Errorf("binary skeleton %s needs a converter, none configured", filepath.Base(a.SkeletonPath))}
	}
	if err := os.MkdirAll(p.animDir(a), 0755); err != nil {
		return "", err
	}
	out := filepath.Join(p.animDir(a), a.Name+".converted.json")
	cctx, cancel := p.convertCtx(ctx)
	defer cancel()
	if err := p.Converter.Convert(cctx, a.SkeletonPath, out); err != nil {
		return "", err
	}
	return out, nil
}

// export runs the written outputs through the authoring tool: import the
// rewritten skeleton plus its atlas into a scratch project, then export the
// project in the target format.
func (p *Pipeline) export(ctx context.Context, a Animation) error {
	dir := p.animDir(a)
	project := filepath.Join(dir, a.Name+".spine")

	cctx, cancel := p.convertCtx(ctx)
	if err := p.Converter.Import(cctx, filepath.Join(dir, a.Name+".json"), project); err != nil {
		cancel()
		return err
	}
	cancel()

	cctx, cancel = p.convertCtx(ctx)
	defer cancel()
	if err := p.Converter.Export(cctx, project, dir); err != nil {
		return err
	}

	// engines importing through asset metadata need the exported
	// skeleton's texture list pointed at the new page image
	jsonMeta := filepath.Join(dir, a.Name+".json.meta")
	pngMeta := filepath.Join(dir, a.Name+".png.meta")
	if fileExists(jsonMeta) && fileExists(pngMeta) {
		if err := skeleton.RelinkMeta(jsonMeta, pngMeta); err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
