// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package discover provides hybrid archive discovery — walks a root
// directory for mbox/OLM files and applies config-driven include/exclude
// glob overrides.
package discover

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// ArchiveFile represents a discovered archive on disk.
type ArchiveFile struct {
	Path    string
	Size    int64
	ModTime int64
}

// Discovery walks a directory tree for candidate archive files, applying
// config-driven include/exclude overrides.
type Discovery struct {
	root string
}

// NewDiscovery creates an archive discovery instance rooted at dir.
func NewDiscovery(dir string) *Discovery {
	return &Discovery{root: dir}
}

var archiveExtensions = []string{".mbox", ".olm"}

// DiscoverArchives returns the list of archive files to parse.
//
// Hybrid strategy:
//   - If includeGlobs is non-empty, only files matching at least one of
//     those globs (relative to root) are returned.
//   - Otherwise, the tree is walked and every file with a recognized
//     archive extension is a candidate.
//   - In both cases, files matching any excludeGlob are removed from the
//     final set.
func (d *Discovery) DiscoverArchives(includeGlobs, excludeGlobs []string) ([]ArchiveFile, error) {
	var files []ArchiveFile

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(d.root, path)
		if relErr != nil {
			rel = path
		}

		if len(includeGlobs) > 0 {
			if !matchesAny(includeGlobs, rel) {
				return nil
			}
		} else if !hasArchiveExtension(path) {
			return nil
		}

		if matchesAny(excludeGlobs, rel) {
			slog.Debug("excluding archive", "path", rel)
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}

		files = append(files, ArchiveFile{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk archive root %s: %w", d.root, err)
	}

	slog.Info("archive discovery complete", "root", d.root, "discovered", len(files))

	return files, nil
}

func hasArchiveExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, err := filepath.Match(g, rel); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(g, filepath.Base(rel)); err == nil && ok {
			return true
		}
	}
	return false
}
