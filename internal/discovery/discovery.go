// Package discovery enumerates candidate analysis documents under a
// per-person directory subtree.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds how deep below the person directory the walk goes.
const DefaultMaxDepth = 4

var dataExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

type Finder struct {
	root     string
	maxDepth int
	logger   *zap.Logger
}

func NewFinder(root string, maxDepth int, logger *zap.Logger) *Finder {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Finder{
		root:     root,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// FindDocuments walks root/<slug> and returns every structured-data file in
// lexical walk order. A missing person directory yields an empty list, not
// an error; unreadable subdirectories are skipped.
func (f *Finder) FindDocuments(slug string) ([]string, error) {
	personDir := filepath.Join(f.root, slug)

	info, err := os.Stat(personDir)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Debug("No directory for person", zap.String("slug", slug))
			return []string{}, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{}, nil
	}

	files := make([]string, 0)

	err = filepath.WalkDir(personDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			f.logger.Warn("Skipping unreadable path",
				zap.String("path", path),
				zap.Error(walkErr),
			)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(personDir, path)
		if relErr != nil {
			return nil
		}
		depth := len(strings.Split(rel, string(filepath.Separator)))

		if d.IsDir() {
			if path != personDir && depth > f.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if depth > f.maxDepth {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := dataExtensions[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Discovered candidate documents",
		zap.String("slug", slug),
		zap.Int("count", len(files)),
	)

	return files, nil
}
