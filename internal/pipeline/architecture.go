package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"autoforge/internal/backend"
	"autoforge/internal/detect"
	"autoforge/internal/logging"
	"autoforge/internal/templates"
)

// ArchitectureStage produces a short RFC for the project. The response is
// raw markdown; a failed call falls back to a boilerplate RFC derived from
// the detection result.
type ArchitectureStage struct {
	Backend Generator
	Retries int
}

func (ArchitectureStage) Name() Phase { return PhaseArchitecture }

func (a ArchitectureStage) Run(ctx context.Context, st *State) error {
	log := logging.Get(logging.CategoryPipeline)

	prd := readArtifact(st.RepoPath, st.PRDPath)

	req := backend.Request{
		Purpose:    backend.PurposeArchitecture,
		Language:   st.Detection.Language,
		Framework:  st.Detection.Framework,
		System:     architectureSystem,
		Prompt:     architecturePrompt(st.Request, prd, st.Detection),
		SchemaHint: "text",
	}

	var rfc string
	err := generateWithRetry(ctx, a.Backend, a.Retries, req, func(raw string) error {
		if strings.TrimSpace(raw) == "" {
			return fmt.Errorf("%w: empty architecture response", backend.ErrMalformed)
		}
		rfc = raw
		return nil
	})
	if err != nil {
		log.Warn("architecture fell back to boilerplate: %v", err)
		rfc = fallbackRFC(st)
	}

	rel := filepath.Join(ForgeDir, "RFC.md")
	if werr := writeArtifact(st.RepoPath, rel, rfc); werr != nil {
		return Fatal(PhaseArchitecture, KindFileSystemPermission, werr)
	}
	st.RFCPath = rel

	if err != nil {
		return Recoverable(PhaseArchitecture, KindFor(err), err)
	}
	return nil
}

func fallbackRFC(st *State) string {
	name := templates.ProjectSlug(st.Request)
	layout := templates.Lookup(st.Detection.Language, st.Detection.Framework, st.Detection.ProjectType, st.Request)

	var b strings.Builder
	fmt.Fprintf(&b, "# RFC: %s\n\n", name)
	fmt.Fprintf(&b, "## Stack\n\n- Language: %s\n", st.Detection.Language)
	if st.Detection.Framework != detect.FrameworkNone {
		fmt.Fprintf(&b, "- Framework: %s\n", st.Detection.Framework)
	}
	fmt.Fprintf(&b, "- Project type: %s\n", st.Detection.ProjectType)
	b.WriteString("\n## Layout\n\n")
	for _, path := range sortedPaths(layout) {
		fmt.Fprintf(&b, "- `%s`\n", path)
	}
	return b.String()
}

func sortedPaths(files templates.FileSet) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// readArtifact returns the artifact content, or empty when unreadable. The
// stages that consume artifacts treat absence as "no context".
func readArtifact(root, rel string) string {
	if rel == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return ""
	}
	return string(data)
}
