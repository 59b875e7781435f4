// Package paths locates input assets without requiring every tool to take a
// full path for each file.
package paths

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

// getPossiblePathDirs lists the directories Find searches, in order: the
// working directory, ./assets, and any directories in $SPINE_ASSETS_PATH
// (colon separated).
func getPossiblePathDirs() []string {
	dirs := []string{".", "assets"}
	if env := os.Getenv("SPINE_ASSETS_PATH"); env != "" {
		for _, d := range strings.Split(env, ":") {
			if d != "" {
				dirs = append(dirs, d)
			}
		}
	}
	return dirs
}

func getPossiblePaths(fileName string) []string {
	dirs := getPossiblePathDirs()
	paths := make([]string, 0, len(dirs))
	for _, d := range dirs {
		paths = append(paths, filepath.Join(d, fileName))
	}
	return paths
}

// Find locates the passed asset shortname and returns a path it can be
// opened at, or an empty string.
//
// For example, for "shared.atlas" it may return "assets/shared.atlas".
func Find(fileName string) string {
	for _, path := range getPossiblePaths(fileName) {
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it. If Find returns an empty string, an error is returned.
func Open(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	path := Find(fileName)
	if path == "" {
		return nil, &os.PathError{Op: "open", Path: fileName, Err: os.ErrNotExist}
	}
	return os.Open(path)
}
