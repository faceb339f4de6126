// Package repo inspects a target repository and produces a read-only context
// snapshot consumed by the pipeline stages. The analysis is side-effect-free:
// it walks the tree to a bounded depth, classifies files, and never writes.
package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"

	"autoforge/internal/detect"
)

// ErrRepoUnreadable is returned when the target path does not exist or is not
// a readable directory. The pipeline treats this as fatal.
var ErrRepoUnreadable = errors.New("repository path is not a readable directory")

// maxWalkDepth bounds the directory walk. Anything nested deeper is noise for
// convention detection.
const maxWalkDepth = 6

// ignoredDirs are skipped during the walk.
var ignoredDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true, "__pycache__": true, ".pytest_cache": true,
	"venv": true, "env": true, ".venv": true,
	"target": true, "build": true, "dist": true, "out": true,
	"bin": true, "obj": true, ".idea": true, ".vscode": true,
	".forge": true,
}

// entryPointNames are filenames that usually mark a program entry point.
var entryPointNames = map[string]bool{
	"main.py": true, "app.py": true, "server.py": true, "__main__.py": true,
	"index.js": true, "server.js": true, "app.js": true, "main.js": true,
	"index.ts": true, "main.ts": true,
	"main.go": true,
	"main.rs": true, "lib.rs": true,
	"Program.cs": true, "Main.java": true, "Application.java": true,
}

// Snapshot is an immutable view of the target repository. It is created once
// during pipeline Init and only ever read afterwards.
type Snapshot struct {
	Root            string                       `json:"root"`
	Files           []string                     `json:"files"`
	Manifests       map[detect.Language][]string `json:"manifests,omitempty"`
	EntryPoints     []string                     `json:"entry_points,omitempty"`
	TestFiles       []string                     `json:"test_files,omitempty"`
	PrimaryLanguage detect.Language              `json:"primary_language,omitempty"`
	HasTests        bool                         `json:"has_tests"`
	IsWorktree      bool                         `json:"is_worktree"`
	Empty           bool                         `json:"empty"`
}

// Analyze walks the repository and builds a Snapshot. It fails with
// ErrRepoUnreadable when root is missing or not a directory.
func Analyze(root string) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRepoUnreadable, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRepoUnreadable, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepoUnreadable, err)
	}

	snap := &Snapshot{
		Root:      root,
		Manifests: make(map[detect.Language][]string),
	}

	langCounts := make(map[detect.Language]int)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, the snapshot stays best-effort.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignoredDirs[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if strings.Count(rel, "/") >= maxWalkDepth {
				return filepath.SkipDir
			}
			return nil
		}

		snap.Files = append(snap.Files, rel)

		name := d.Name()
		if lang, ok := detect.ManifestLanguage(name); ok {
			snap.Manifests[lang] = append(snap.Manifests[lang], rel)
		}
		if lang, ok := detect.FileLanguage(rel); ok {
			langCounts[lang]++
		}
		if entryPointNames[name] {
			snap.EntryPoints = append(snap.EntryPoints, rel)
		}
		if isTestFile(rel) {
			snap.TestFiles = append(snap.TestFiles, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepoUnreadable, walkErr)
	}

	sort.Strings(snap.Files)
	sort.Strings(snap.EntryPoints)
	sort.Strings(snap.TestFiles)

	snap.PrimaryLanguage = primaryLanguage(langCounts)
	snap.HasTests = len(snap.TestFiles) > 0
	snap.Empty = len(snap.Files) == 0

	if _, err := git.PlainOpen(root); err == nil {
		snap.IsWorktree = true
	}

	return snap, nil
}

// primaryLanguage picks the language with the highest source-file count.
// Ties break in the fixed detect.Languages order so the result is stable.
func primaryLanguage(counts map[detect.Language]int) detect.Language {
	var best detect.Language
	bestCount := 0
	for _, lang := range detect.Languages {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}

func isTestFile(rel string) bool {
	base := filepath.Base(rel)
	if strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.go") {
		return true
	}
	for _, marker := range []string{"_test.", ".test.", ".spec."} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	for _, dir := range []string{"test/", "tests/", "__tests__/"} {
		if strings.HasPrefix(rel, dir) || strings.Contains(rel, "/"+dir) {
			return true
		}
	}
	return false
}
