// Package walker discovers the files a scan covers: the configured roots,
// filtered by extension, minus the exclusion sets. The classification
// engine consumes its output and never touches the tree itself.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/user/hanscan/pkg/config"
	"github.com/user/hanscan/pkg/engine"
	"github.com/user/hanscan/pkg/logging"
)

// Target is one discovered file plus its classification kind.
type Target struct {
	Path string
	Kind engine.FileKind
}

// Walker filters a source tree down to scannable targets.
type Walker struct {
	cfg config.Discovery
}

// New creates a walker for the given discovery configuration.
func New(cfg config.Discovery) *Walker {
	return &Walker{cfg: cfg}
}

// Discover walks the given roots and returns targets in deterministic
// (lexical) order. A missing root is skipped with a warning: the java and
// frontend trees do not both exist in every checkout.
func (w *Walker) Discover(roots ...config.Root) []Target {
	var targets []Target
	for _, root := range roots {
		if _, err := os.Stat(root.Path); err != nil {
			logging.Warn("scan root missing, skipping", zap.String("root", root.Path), zap.Error(err))
			continue
		}
		err := filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logging.Warn("walk error", zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				if w.excludedSegment(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !hasExtension(path, root.Extensions) {
				return nil
			}
			if w.Excluded(root.Path, path) {
				return nil
			}
			targets = append(targets, Target{Path: path, Kind: engine.KindForPath(path)})
			return nil
		})
		if err != nil {
			logging.Warn("walk failed", zap.String("root", root.Path), zap.Error(err))
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Path < targets[j].Path })
	return targets
}

// Excluded reports whether a file is excluded by name, by a path segment,
// or by a glob pattern relative to its root.
func (w *Walker) Excluded(root, path string) bool {
	base := filepath.Base(path)
	for _, name := range w.cfg.ExcludeFiles {
		if base == name {
			return true
		}
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if w.excludedSegment(seg) {
			return true
		}
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, glob := range w.cfg.ExcludeGlobs {
		ok, err := doublestar.Match(glob, rel)
		if err != nil {
			logging.Warn("bad exclude glob", zap.String("glob", glob), zap.Error(err))
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func (w *Walker) excludedSegment(name string) bool {
	for _, seg := range w.cfg.ExcludeSegments {
		if name == seg {
			return true
		}
	}
	return false
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
