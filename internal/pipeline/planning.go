package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"autoforge/internal/backend"
	"autoforge/internal/logging"
	"autoforge/internal/templates"
)

// PlanningStage turns the request into a PRD and a task list. A failed or
// malformed backend response falls back to a minimal PRD with default tasks.
type PlanningStage struct {
	Backend Generator
	Retries int
}

func (PlanningStage) Name() Phase { return PhasePlanning }

func (p PlanningStage) Run(ctx context.Context, st *State) error {
	log := logging.Get(logging.CategoryPipeline)

	summary := ""
	if st.Snapshot != nil {
		summary = st.Snapshot.Summary()
	}

	req := backend.Request{
		Purpose:    backend.PurposePlanning,
		Language:   st.Detection.Language,
		Framework:  st.Detection.Framework,
		System:     planningSystem,
		Prompt:     planningPrompt(st.Request, summary),
		SchemaHint: "json",
	}

	var prd string
	var tasks []Task
	err := generateWithRetry(ctx, p.Backend, p.Retries, req, func(raw string) error {
		var perr error
		prd, tasks, perr = parsePlanning(raw)
		return perr
	})
	if err != nil {
		log.Warn("planning fell back to defaults: %v", err)
		prd = fallbackPRD(st)
		tasks = defaultTasks()
	}

	for i := range tasks {
		tasks[i].ID = i + 1
	}
	st.Tasks = tasks

	rel := filepath.Join(ForgeDir, "PRD.md")
	if werr := writeArtifact(st.RepoPath, rel, prd); werr != nil {
		return Fatal(PhasePlanning, KindFileSystemPermission, werr)
	}
	st.PRDPath = rel

	if err != nil {
		return Recoverable(PhasePlanning, KindFor(err), err)
	}
	return nil
}

type planningPayload struct {
	PRD   string `json:"prd_md"`
	Tasks []Task `json:"tasks"`
}

func parsePlanning(raw string) (string, []Task, error) {
	obj, err := backend.ExtractJSON(raw)
	if err != nil {
		return "", nil, err
	}
	var payload planningPayload
	if err := json.Unmarshal(obj, &payload); err != nil {
		return "", nil, fmt.Errorf("%w: %v", backend.ErrMalformed, err)
	}
	if payload.PRD == "" {
		return "", nil, fmt.Errorf("%w: empty prd_md", backend.ErrMalformed)
	}
	tasks := payload.Tasks
	if len(tasks) == 0 {
		tasks = defaultTasks()
	}
	return payload.PRD, tasks, nil
}

func fallbackPRD(st *State) string {
	name := templates.ProjectSlug(st.Request)
	return fmt.Sprintf(`# %s

## Request

%s

## Requirements

- Working %s %s project
- Automated tests
- Dependency manifest
`, name, st.Request, st.Detection.Language, st.Detection.ProjectType)
}

func defaultTasks() []Task {
	return []Task{
		{Title: "Set up project scaffolding"},
		{Title: "Implement core functionality"},
		{Title: "Add tests and documentation"},
	}
}

// writeArtifact writes a file under the repo root, creating parent
// directories as needed.
func writeArtifact(root, rel, content string) error {
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(rel), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}
