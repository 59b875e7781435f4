package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Discover scans a directory for the shared atlas descriptor and the
// skeleton documents using it. Exactly one .atlas file must be present;
// every .json (and, with a Converter, .skel) file next to it is one
// animation.
func Discover(dir string) (atlasPath string, anims []Animation, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, errors.Wrap(err, "reading input directory")
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".atlas"):
			if atlasPath != "" {
				return "", nil, errors.Errorf("multiple atlas descriptors in %s: %s and %s", dir, filepath.Base(atlasPath), name)
			}
			atlasPath = filepath.Join(dir, name)
		case strings.HasSuffix(name, ".json"):
			anims = append(anims, Animation{
				Name:         strings.TrimSuffix(name, ".json"),
				SkeletonPath: filepath.Join(dir, name),
			})
		case strings.HasSuffix(name, ".skel"):
			anims = append(anims, Animation{
				Name:         strings.TrimSuffix(name, ".skel"),
				SkeletonPath: filepath.Join(dir, name),
			})
		}
	}

	if atlasPath == "" {
		return "", nil, errors.Errorf("no atlas descriptor in %s", dir)
	}
	if len(anims) == 0 {
		return "", nil, errors.Errorf("no skeleton documents in %s", dir)
	}
	sort.Slice(anims, func(i, j int) bool { return anims[i].Name < anims[j].Name })
	return atlasPath, anims, nil
}
