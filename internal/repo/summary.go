package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"autoforge/internal/detect"
)

// readmeHeadBytes limits how much of the README is quoted in the summary.
const readmeHeadBytes = 400

// Summary renders a compact human-readable digest of the snapshot, suitable
// for inclusion in a generation prompt: top-level layout, manifests, language,
// and the head of the README when present.
func (s *Snapshot) Summary() string {
	var b strings.Builder

	if s.Empty {
		b.WriteString("Empty repository (no files).\n")
	} else {
		fmt.Fprintf(&b, "Files: %d", len(s.Files))
		if s.PrimaryLanguage != "" {
			fmt.Fprintf(&b, ", primary language: %s", s.PrimaryLanguage)
		}
		if s.HasTests {
			b.WriteString(", has tests")
		}
		b.WriteString("\n")
	}

	for _, lang := range detect.Languages {
		if files := s.Manifests[lang]; len(files) > 0 {
			fmt.Fprintf(&b, "Manifest (%s): %s\n", lang, strings.Join(files, ", "))
		}
	}
	if len(s.EntryPoints) > 0 {
		fmt.Fprintf(&b, "Entry points: %s\n", strings.Join(s.EntryPoints, ", "))
	}

	// Top-level layout, capped so prompts stay small.
	topLevel := map[string][]string{}
	var order []string
	for _, f := range s.Files {
		dir := "."
		if i := strings.Index(f, "/"); i >= 0 {
			dir = f[:i]
		}
		if _, seen := topLevel[dir]; !seen {
			order = append(order, dir)
		}
		if len(topLevel[dir]) < 8 {
			topLevel[dir] = append(topLevel[dir], filepath.Base(f))
		}
	}
	for _, dir := range order {
		fmt.Fprintf(&b, "[%s] %s\n", dir, strings.Join(topLevel[dir], ", "))
	}

	if head := s.readmeHead(); head != "" {
		b.WriteString("README.md (head):\n")
		b.WriteString(head)
		b.WriteString("\n")
	}

	return b.String()
}

func (s *Snapshot) readmeHead() string {
	data, err := os.ReadFile(filepath.Join(s.Root, "README.md"))
	if err != nil {
		return ""
	}
	if len(data) > readmeHeadBytes {
		data = data[:readmeHeadBytes]
	}
	return string(data)
}
