// Package spinetool drives the Spine editor's command line as a
// pipeline.Converter. The editor is the only component that understands the
// binary skeleton format and the authoring project format, so everything
// here shells out and reports the tool's own output on failure.
package spinetool

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"badc0de.net/pkg/spine-split/pipeline"
)

// Tool invokes the spine binary. The zero value is not usable; fill in at
// least Bin and Version.
type Tool struct {
	// Bin is the spine executable, looked up through $PATH when relative.
	Bin string

	// Version is the editor version to launch, passed as -u. The data
	// format is tied to the version, so this must match the skeletons
	// being processed.
	Version string

	// ExportSettings is a .export.json settings file used by Export.
	// Empty means JSON export with the editor's defaults.
	ExportSettings string
}

// New returns a Tool for the given executable and editor version.
func New(bin, version string) *Tool {
	return &Tool{Bin: bin, Version: version}
}

func (t *Tool) run(ctx context.Context, op string, args []string) error {
	glog.Infof("spine %s: %s %s", op, t.Bin, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, t.Bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &pipeline.ExternalToolError{Op: op, Detail: strings.TrimSpace(string(out)), Err: err}
	}
	return nil
}

func (t *Tool) importArgs(skeletonPath, projectPath string) []string {
	return []string{"-u", t.Version, "-i", skeletonPath, "-o", projectPath, "--import"}
}

func (t *Tool) exportArgs(projectPath, outputDir string) []string {
	args := []string{"-u", t.Version, "-i", projectPath, "-m", "-o", outputDir}
	if t.ExportSettings != "" {
		args = append(args, "-e", t.ExportSettings)
	} else {
		args = append(args, "-e", "json")
	}
	return args
}

func (t *Tool) unpackArgs(skeletonDir, texturesDir, atlasPath string) []string {
	return []string{"-u", t.Version, "-i", skeletonDir, "-o", texturesDir, "--unpack", atlasPath}
}

// Import loads a skeleton document into a fresh authoring project at
// projectPath.
func (t *Tool) Import(ctx context.Context, skeletonPath, projectPath string) error {
	return t.run(ctx, "import", t.importArgs(skeletonPath, projectPath))
}

// Export exports an authoring project into outputDir using the configured
// export settings.
func (t *Tool) Export(ctx context.Context, projectPath, outputDir string) error {
	return t.run(ctx, "export", t.exportArgs(projectPath, outputDir))
}

// Unpack asks the editor to split an atlas back into individual region
// images under texturesDir.
func (t *Tool) Unpack(ctx context.Context, skeletonDir, texturesDir, atlasPath string) error {
	if err := os.MkdirAll(texturesDir, 0755); err != nil {
		return err
	}
	return t.run(ctx, "unpack", t.unpackArgs(skeletonDir, texturesDir, atlasPath))
}

// Convert turns a skeleton document at input into JSON at output. The
// editor has no direct data conversion, so this imports into a scratch
// project next to output and exports that.
func (t *Tool) Convert(ctx context.Context, input, output string) error {
	project := output + ".spine"
	defer os.Remove(project)

	if err := t.Import(ctx, input, project); err != nil {
		return err
	}
	dir := filepath.Dir(output)
	if err := t.run(ctx, "convert", t.exportArgs(project, dir)); err != nil {
		return err
	}

	// the export names its output after the input skeleton
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	exported := filepath.Join(dir, base+".json")
	if exported == output {
		return nil
	}
	if err := os.Rename(exported, output); err != nil {
		return &pipeline.ExternalToolError{Op: "convert", Err: err}
	}
	return nil
}
