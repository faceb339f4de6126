package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"autoforge/internal/backend"
	"autoforge/internal/logging"
	"autoforge/internal/templates"
)

// PRStage assembles a human-readable change summary from the accumulated
// state and commits the run on the work branch. Nothing is pushed anywhere;
// the summary is the artifact a human turns into an actual pull request.
type PRStage struct {
	Git Git
}

func (PRStage) Name() Phase { return PhasePR }

func (p PRStage) Run(ctx context.Context, st *State) error {
	rel := filepath.Join(ForgeDir, "PR_SUMMARY.md")
	if err := writeArtifact(st.RepoPath, rel, prSummary(st)); err != nil {
		return Fatal(PhasePR, KindFileSystemPermission, err)
	}
	st.AddFiles(rel)

	if p.Git != nil {
		msg := fmt.Sprintf("Generate %s (%s)", templates.ProjectSlug(st.Request), st.RunID)
		hash, err := p.Git.CommitAll(st.RepoPath, msg)
		if err != nil {
			return Recoverable(PhasePR, KindInternal, fmt.Errorf("commit: %w", err))
		}
		st.Commit = hash
		logging.Get(logging.CategoryDev).Info("committed %s on %s", hash, st.Branch)
	}
	return nil
}

func prSummary(st *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", templates.ProjectSlug(st.Request))
	fmt.Fprintf(&b, "Run `%s`\n\n", st.RunID)
	fmt.Fprintf(&b, "## Request\n\n%s\n\n", st.Request)

	fmt.Fprintf(&b, "## Stack\n\n- Language: %s\n", st.Detection.Language)
	if st.Detection.Framework != "" {
		fmt.Fprintf(&b, "- Framework: %s\n", st.Detection.Framework)
	}
	fmt.Fprintf(&b, "- Project type: %s\n- Confidence: %s\n\n", st.Detection.ProjectType, st.Detection.Confidence)

	switch st.Outcome {
	case backend.KindFallback:
		fmt.Fprintf(&b, "## Generation\n\nTemplate fallback used: %s\n\n", st.FallbackReason)
	case backend.KindSuccess:
		b.WriteString("## Generation\n\nBackend generation succeeded.\n\n")
	}

	if len(st.Tasks) > 0 {
		b.WriteString("## Tasks\n\n")
		for _, t := range st.Tasks {
			fmt.Fprintf(&b, "%d. %s\n", t.ID, t.Title)
		}
		b.WriteString("\n")
	}

	if len(st.Files) > 0 {
		b.WriteString("## Files\n\n")
		for _, f := range st.Files {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
		b.WriteString("\n")
	}

	if len(st.TestResults) > 0 {
		b.WriteString("## Checks\n\n")
		for _, r := range st.TestResults {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
	if len(st.AuditResults) > 0 {
		b.WriteString("## Audit\n\n")
		for _, r := range st.AuditResults {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
	if len(st.DepWarnings) > 0 {
		b.WriteString("## Dependency warnings\n\n")
		for _, w := range st.DepWarnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	if len(st.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range st.Errors {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", e.Stage, e.Kind, e.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}
