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

package discover

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFixture(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestDiscoverArchivesDefaultsToKnownExtensions(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "inbox.mbox")
	writeFixture(t, root, "export.olm")
	writeFixture(t, root, "notes.txt")

	d := NewDiscovery(root)
	files, err := d.DiscoverArchives(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
	}
	sort.Strings(names)
	want := []string{"export.olm", "inbox.mbox"}
	if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestDiscoverArchivesHonorsIncludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "keep/alpha.mbox")
	writeFixture(t, root, "skip/beta.mbox")

	d := NewDiscovery(root)
	files, err := d.DiscoverArchives([]string{filepath.Join("keep", "*.mbox")}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if filepath.Base(files[0].Path) != "alpha.mbox" {
		t.Errorf("got %q, want alpha.mbox", files[0].Path)
	}
}

func TestDiscoverArchivesExcludeGlobRemovesMatches(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "inbox.mbox")
	writeFixture(t, root, "archived.mbox")

	d := NewDiscovery(root)
	files, err := d.DiscoverArchives(nil, []string{"archived.mbox"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if filepath.Base(files[0].Path) != "inbox.mbox" {
		t.Errorf("got %q, want inbox.mbox", files[0].Path)
	}
}
