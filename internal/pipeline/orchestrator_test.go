package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoforge/internal/backend"
	"autoforge/internal/config"
	"autoforge/internal/detect"
	"autoforge/internal/templates"
)

const planningJSON = `{"prd_md": "# Bookstore API\n\nCRUD for books.", "tasks": [{"title": "Scaffold project"}, {"title": "Implement endpoints"}]}`

const codingJSON = `{"files": [{"path": "main.py", "content": "print('ok')\n"}, {"path": "tests/test_main.py", "content": "def test_ok():\n    assert True\n"}], "summary": "bookstore api"}`

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{MaxRetries: 1, BranchPrefix: "forge"},
	}
}

func runPipeline(t *testing.T, request string, client backend.Client, run *fakeRunner, g *fakeGit) (*State, Phase, error) {
	t.Helper()
	st := NewState(request, t.TempDir())
	orch := Default(st, client, run, g, testConfig())
	phase, err := orch.Run(context.Background())
	return st, phase, err
}

func TestRunHappyPath(t *testing.T) {
	client := &fakeBackend{responses: []string{planningJSON, "# RFC\n\nlayout", codingJSON}}
	run := &fakeRunner{}
	g := &fakeGit{}

	st, phase, err := runPipeline(t, "Build a FastAPI REST API for books", client, run, g)
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, PhaseDone, st.Phase)
	assert.Equal(t, backend.KindSuccess, st.Outcome)
	assert.Empty(t, st.Errors)

	assert.Equal(t, detect.LangPython, st.Detection.Language)
	assert.Equal(t, detect.FrameworkFastAPI, st.Detection.Framework)

	for _, rel := range []string{"main.py", "tests/test_main.py", ".forge/PRD.md", ".forge/RFC.md", ".forge/PR_SUMMARY.md", ".forge/state.json"} {
		_, statErr := os.Stat(filepath.Join(st.RepoPath, rel))
		assert.NoError(t, statErr, "missing %s", rel)
	}

	require.Len(t, g.branches, 1)
	assert.Contains(t, g.branches[0], "forge/")
	require.Len(t, g.commits, 1)
	assert.Len(t, st.Tasks, 2)
	assert.Equal(t, 1, st.Tasks[0].ID)
}

func TestRunMalformedCodingFallsBackToTemplates(t *testing.T) {
	client := &fakeBackend{responses: []string{planningJSON, "# RFC", "this is not json at all"}}
	run := &fakeRunner{}
	g := &fakeGit{}

	st, phase, err := runPipeline(t, "Build a FastAPI REST API for books", client, run, g)
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, backend.KindFallback, st.Outcome)
	assert.NotEmpty(t, st.FallbackReason)

	var kinds []ErrorKind
	for _, e := range st.Errors {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, KindMalformedResponse)

	// Fallback files are exactly the catalog output for the detection.
	want := templates.Lookup(st.Detection.Language, st.Detection.Framework, st.Detection.ProjectType, st.Request)
	for rel, content := range want {
		data, rerr := os.ReadFile(filepath.Join(st.RepoPath, filepath.FromSlash(rel)))
		require.NoError(t, rerr, "missing fallback file %s", rel)
		if rel == "requirements.txt" {
			// The manifest accumulates the dependency merge on top of the
			// template content.
			assert.Contains(t, string(data), "fastapi")
			continue
		}
		assert.Empty(t, cmp.Diff(content, string(data)), "file %s", rel)
	}
}

func TestRunRetriesMalformedCodingResponse(t *testing.T) {
	client := &fakeBackend{responses: []string{planningJSON, "# RFC", "not json at all", codingJSON}}

	st, phase, err := runPipeline(t, "Build a FastAPI REST API for books", client, &fakeRunner{}, &fakeGit{})
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, backend.KindSuccess, st.Outcome, "retry should rescue a garbled first response")
	assert.Empty(t, st.FallbackReason)
	assert.Equal(t, 4, client.calls)

	_, statErr := os.Stat(filepath.Join(st.RepoPath, "main.py"))
	assert.NoError(t, statErr)
}

func TestRunRetriesMalformedPlanningResponse(t *testing.T) {
	client := &fakeBackend{responses: []string{"{truncated", planningJSON, "# RFC", codingJSON}}

	st, phase, err := runPipeline(t, "Build a FastAPI REST API for books", client, &fakeRunner{}, &fakeGit{})
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, backend.KindSuccess, st.Outcome)
	assert.Len(t, st.Tasks, 2)
	assert.Equal(t, 4, client.calls)
}

func TestRunUsesConfiguredStageModels(t *testing.T) {
	t.Setenv("FORGE_MODEL", "")
	client := &modelAwareBackend{fakeBackend: fakeBackend{responses: []string{planningJSON, "# RFC", codingJSON}}}
	cfg := testConfig()
	cfg.Backend.Model = "base-model"
	cfg.Models = config.ModelsConfig{Planning: "model-planning", Coding: "model-coding"}

	st := NewState("Build a FastAPI REST API", t.TempDir())
	orch := Default(st, client, &fakeRunner{}, &fakeGit{}, cfg)
	phase, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)

	// Architecture has no stage model and falls back to the base one.
	assert.Equal(t, []string{"model-planning", "base-model", "model-coding"}, client.models)
}

func TestRunBackendDownStillDone(t *testing.T) {
	unavailable := []error{backend.ErrUnavailable, backend.ErrUnavailable, backend.ErrUnavailable,
		backend.ErrUnavailable, backend.ErrUnavailable, backend.ErrUnavailable}
	client := &fakeBackend{errs: unavailable}
	st, phase, err := runPipeline(t, "Create a Rust command-line tool", client, &fakeRunner{}, &fakeGit{})
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, backend.KindFallback, st.Outcome)

	_, statErr := os.Stat(filepath.Join(st.RepoPath, "Cargo.toml"))
	assert.NoError(t, statErr)
	assert.NotEmpty(t, st.Errors)
}

func TestRunRepoUnreadableAborts(t *testing.T) {
	st := NewState("Build a FastAPI app", filepath.Join(t.TempDir(), "missing"))
	client := &fakeBackend{responses: []string{planningJSON, "# RFC", codingJSON}}
	orch := Default(st, client, &fakeRunner{}, &fakeGit{}, testConfig())

	phase, err := orch.Run(context.Background())
	assert.Equal(t, PhaseAborted, phase)
	require.Error(t, err)
	assert.Equal(t, PhaseAborted, st.Phase)

	require.NotEmpty(t, st.Errors)
	last := st.Errors[len(st.Errors)-1]
	assert.True(t, last.Fatal)
	assert.Equal(t, KindRepoUnreadable, last.Kind)
	assert.Equal(t, 0, client.calls, "no backend call after a fatal init error")
}

func TestRunCancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewState("Build a FastAPI app", t.TempDir())
	orch := Default(st, &fakeBackend{}, &fakeRunner{}, &fakeGit{}, testConfig())

	phase, err := orch.Run(ctx)
	assert.Equal(t, PhaseAborted, phase)
	assert.Error(t, err)
}

func TestRunMissingToolsRecoverable(t *testing.T) {
	client := &fakeBackend{responses: []string{planningJSON, "# RFC", codingJSON}}
	run := &fakeRunner{missing: map[string]bool{"ruff": true, "pytest": true, "pip-audit": true}}

	st, phase, err := runPipeline(t, "Build a FastAPI REST API", client, run, &fakeGit{})
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)

	var kinds []ErrorKind
	for _, e := range st.Errors {
		kinds = append(kinds, e.Kind)
		assert.False(t, e.Fatal)
	}
	assert.Contains(t, kinds, KindToolMissing)

	for _, line := range st.TestResults {
		assert.Contains(t, line, "skipped")
	}
}

func TestRunAmbiguousRequestDefaultsAndLogs(t *testing.T) {
	client := &fakeBackend{responses: []string{planningJSON, "# RFC", codingJSON}}

	st, phase, err := runPipeline(t, "Create an app", client, &fakeRunner{}, &fakeGit{})
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, detect.DefaultLanguage, st.Detection.Language)

	var kinds []ErrorKind
	for _, e := range st.Errors {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, KindDetectionAmbiguity)
}

func TestRunCustomDetectionRules(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".forge"), 0o755))
	rules := "- patterns: [\"svelte\"]\n  language: javascript\n  framework: svelte\n  project_type: web\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".forge", RulesFile), []byte(rules), 0o644))

	client := &fakeBackend{responses: []string{planningJSON, "# RFC", codingJSON}}
	st := NewState("Build a svelte dashboard", root)
	orch := Default(st, client, &fakeRunner{}, &fakeGit{}, testConfig())

	phase, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PhaseDone, phase)
	assert.Equal(t, detect.LangJavaScript, st.Detection.Language)
	assert.Equal(t, detect.Framework("svelte"), st.Detection.Framework)
}

func TestRunPersistsLoadableState(t *testing.T) {
	client := &fakeBackend{responses: []string{planningJSON, "# RFC", codingJSON}}

	st, _, err := runPipeline(t, "Build a FastAPI REST API", client, &fakeRunner{}, &fakeGit{})
	require.NoError(t, err)

	loaded, err := LoadState(st.RepoPath)
	require.NoError(t, err)
	assert.Equal(t, st.RunID, loaded.RunID)
	assert.Equal(t, PhaseDone, loaded.Phase)
	assert.Equal(t, st.Files, loaded.Files)
}
