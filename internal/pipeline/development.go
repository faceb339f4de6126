package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"autoforge/internal/backend"
	"autoforge/internal/deps"
	"autoforge/internal/detect"
	"autoforge/internal/logging"
	"autoforge/internal/templates"
)

// maxConcurrentWrites bounds the file materialization fan-out.
const maxConcurrentWrites = 8

// DevelopmentStage asks the backend for the project files, falls back to the
// template catalog when the response is unusable, materializes the files,
// merges dependency manifests, and only then creates the work branch.
type DevelopmentStage struct {
	Backend      Generator
	Git          Git
	Retries      int
	BranchPrefix string
}

func (DevelopmentStage) Name() Phase { return PhaseDevelopment }

func (d DevelopmentStage) Run(ctx context.Context, st *State) error {
	log := logging.Get(logging.CategoryDev)

	prd := readArtifact(st.RepoPath, st.PRDPath)
	rfc := readArtifact(st.RepoPath, st.RFCPath)

	outcome := d.generate(ctx, st, prd, rfc)
	st.Outcome = outcome.Kind
	st.FallbackReason = outcome.Reason

	if outcome.Kind == backend.KindFailure {
		return Fatal(PhaseDevelopment, KindFor(outcome.Err), outcome.Err)
	}

	// Files reach disk before any branch or manifest bookkeeping, so a
	// failure later never leaves a branch pointing at nothing.
	if err := materialize(ctx, st.RepoPath, outcome.Files); err != nil {
		return Fatal(PhaseDevelopment, KindFileSystemPermission, err)
	}
	paths := make([]string, 0, len(outcome.Files))
	for p := range outcome.Files {
		paths = append(paths, p)
	}
	st.AddFiles(paths...)
	log.Info("materialized %d files", len(paths))

	if delta := dependencyDelta(st.Detection); len(delta.Add) > 0 {
		manifest, warnings, err := deps.Apply(st.RepoPath, st.Snapshot, delta)
		if err != nil {
			st.RecordError(PhaseDevelopment, KindFor(err), false, err)
			log.Warn("dependency merge skipped: %v", err)
		} else if manifest != "" {
			st.AddFiles(manifest)
			st.DepWarnings = append(st.DepWarnings, warnings...)
			for _, w := range warnings {
				logging.Get(logging.CategoryDeps).Warn("%s", w)
			}
		}
	}

	if d.Git != nil {
		if err := d.Git.EnsureRepo(st.RepoPath); err != nil {
			return Fatal(PhaseDevelopment, KindInternal, err)
		}
		branch := branchName(d.BranchPrefix, st)
		if err := d.Git.CreateBranch(st.RepoPath, branch); err != nil {
			return Fatal(PhaseDevelopment, KindInternal, err)
		}
		st.Branch = branch
		log.Info("created branch %s", branch)
	}

	if outcome.Kind == backend.KindFallback {
		return Recoverable(PhaseDevelopment, KindFor(outcome.Err), outcome.Err)
	}
	return nil
}

// generate runs the backend coding call and normalizes the result. The
// catalog being total means this never returns Failure for a parseable
// detection; only a dead context does.
func (d DevelopmentStage) generate(ctx context.Context, st *State, prd, rfc string) backend.Outcome {
	req := backend.Request{
		Purpose:    backend.PurposeCoding,
		Language:   st.Detection.Language,
		Framework:  st.Detection.Framework,
		System:     codingSystem,
		Prompt:     codingPrompt(st.Request, prd, rfc, st.Detection, st.Tasks),
		SchemaHint: "json",
	}

	var files map[string]string
	var summary string
	err := generateWithRetry(ctx, d.Backend, d.Retries, req, func(raw string) error {
		var perr error
		files, summary, perr = backend.ParseFileList(raw)
		return perr
	})
	if err == nil {
		return backend.Succeeded(files, summary)
	}
	if ctx.Err() != nil {
		return backend.Failed(backend.Classify(ctx.Err()))
	}

	logging.Get(logging.CategoryBackend).Warn("coding call unusable, using template catalog: %v", err)
	fallback := templates.Lookup(st.Detection.Language, st.Detection.Framework, st.Detection.ProjectType, st.Request)
	out := backend.FellBack(fallback, "", err.Error())
	out.Err = err
	return out
}

// materialize writes the file set under root with a bounded worker group.
func materialize(ctx context.Context, root string, files map[string]string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)

	for path, content := range files {
		path, content := path, content
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeArtifact(root, filepath.FromSlash(path), content)
		})
	}
	return g.Wait()
}

// dependencyDelta maps a detection onto the packages the generated project
// needs declared.
func dependencyDelta(det detect.Result) deps.Delta {
	delta := deps.Delta{Language: det.Language}
	switch det.Framework {
	case detect.FrameworkFastAPI:
		delta.Add = []deps.Dependency{{Name: "fastapi"}, {Name: "uvicorn"}, {Name: "pytest"}, {Name: "httpx"}}
	case detect.FrameworkFlask:
		delta.Add = []deps.Dependency{{Name: "flask"}, {Name: "pytest"}}
	case detect.FrameworkDjango:
		delta.Add = []deps.Dependency{{Name: "django"}, {Name: "pytest-django"}}
	case detect.FrameworkExpress:
		delta.Add = []deps.Dependency{{Name: "express", Constraint: "^4.18.0"}}
	case detect.FrameworkReact:
		delta.Add = []deps.Dependency{{Name: "react", Constraint: "^18.0.0"}, {Name: "react-dom", Constraint: "^18.0.0"}}
	default:
		if det.Language == detect.LangPython {
			delta.Add = []deps.Dependency{{Name: "pytest"}}
		}
	}
	return delta
}

func branchName(prefix string, st *State) string {
	if prefix == "" {
		prefix = "forge"
	}
	slug := templates.ProjectSlug(st.Request)
	short := st.RunID
	if i := strings.Index(short, "-"); i > 0 {
		short = short[:i]
	}
	return fmt.Sprintf("%s/%s-%s", prefix, slug, short)
}
