package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"autoforge/internal/backend"
	"autoforge/internal/config"
	"autoforge/internal/detect"
	"autoforge/internal/logging"
	"autoforge/internal/repo"
	"autoforge/internal/runner"
)

// Orchestrator drives the shared state through the fixed phase order. Total
// progress: every run terminates in Done or Aborted. Recoverable stage
// errors land in the error log and the run advances; fatal ones abort with
// state preserved for inspection.
type Orchestrator struct {
	state  *State
	stages []Stage
}

// New assembles an orchestrator over an explicit stage list. Tests inject
// fakes here; production wiring goes through Default.
func New(st *State, stages []Stage) *Orchestrator {
	return &Orchestrator{state: st, stages: stages}
}

// Default wires the six standard stages. The backend client is wrapped in a
// dispatcher that resolves the model per call purpose, so models.planning,
// models.architecture, and models.coding each take effect on their own stage.
func Default(st *State, client backend.Client, run runner.Runner, g Git, cfg *config.Config) *Orchestrator {
	gen := backend.NewDispatcher(client, resolveModels(cfg))
	retries := cfg.Pipeline.MaxRetries
	return New(st, []Stage{
		PlanningStage{Backend: gen, Retries: retries},
		ArchitectureStage{Backend: gen, Retries: retries},
		DevelopmentStage{Backend: gen, Git: g, Retries: retries, BranchPrefix: cfg.Pipeline.BranchPrefix},
		TestingStage{Runner: run},
		SecurityStage{Runner: run},
		PRStage{Git: g},
	})
}

// resolveModels applies the model precedence per purpose: explicit CLI
// override, then the stage's configured model, then the FORGE_MODEL
// environment override, then the backend default.
func resolveModels(cfg *config.Config) backend.ModelMap {
	env := os.Getenv("FORGE_MODEL")
	models := make(backend.ModelMap, 3)
	for _, p := range []backend.Purpose{backend.PurposePlanning, backend.PurposeArchitecture, backend.PurposeCoding} {
		models[p] = config.ResolveModel(cfg.Backend.ModelOverride, cfg.Models.StageModel(string(p)), env, cfg.Backend.Model)
	}
	return models
}

// State exposes the shared state, mainly for the CLI's final report.
func (o *Orchestrator) State() *State { return o.state }

// Run executes the pipeline to a terminal phase. The returned error is
// non-nil only for Aborted runs and carries the fatal cause.
func (o *Orchestrator) Run(ctx context.Context) (Phase, error) {
	st := o.state
	log := logging.Get(logging.CategoryPipeline)
	log.Info("run %s started: %q", st.RunID, st.Request)

	if err := o.initialize(ctx); err != nil {
		return o.abort(err)
	}

	for _, stage := range o.stages {
		if err := ctx.Err(); err != nil {
			return o.abort(Fatal(st.Phase, KindInternal, err))
		}

		st.Phase = stage.Name()
		log.Info("phase %s", st.Phase)

		err := stage.Run(ctx, st)
		switch {
		case err == nil:
		case isRecoverable(err):
			var rec *RecoverableError
			errors.As(err, &rec)
			st.RecordError(rec.Stage, rec.Kind, false, rec.Err)
			log.Warn("phase %s recovered: %v", st.Phase, rec.Err)
		default:
			return o.abort(err)
		}

		if serr := st.Save(); serr != nil {
			return o.abort(Fatal(st.Phase, KindFileSystemPermission, serr))
		}
	}

	st.Phase = PhaseDone
	if err := st.Save(); err != nil {
		return o.abort(Fatal(PhaseDone, KindFileSystemPermission, err))
	}
	log.Info("run %s done", st.RunID)
	return PhaseDone, nil
}

// initialize analyzes the target repository and detects the stack. An
// unreadable repo is the one unconditional abort before any stage runs.
func (o *Orchestrator) initialize(ctx context.Context) error {
	st := o.state
	st.Phase = PhaseInit

	if err := ctx.Err(); err != nil {
		return Fatal(PhaseInit, KindInternal, err)
	}

	snap, err := repo.Analyze(st.RepoPath)
	if err != nil {
		return Fatal(PhaseInit, KindRepoUnreadable, err)
	}
	st.Snapshot = snap

	st.Detection = o.detector(st).Detect(st.Request)
	logging.Get(logging.CategoryDetect).Info("detected %s/%s %s (%s)",
		st.Detection.Language, st.Detection.Framework, st.Detection.ProjectType, st.Detection.Confidence)

	if st.Detection.Confidence == detect.ConfidenceLow {
		st.RecordError(PhaseInit, KindDetectionAmbiguity, false,
			fmt.Errorf("request %q matched no stack rule, defaulting to %s", st.Request, st.Detection.Language))
	}

	return st.Save()
}

// RulesFile is an optional per-repo detection rule override, prepended to the
// builtin table when present.
const RulesFile = "detect_rules.yaml"

func (o *Orchestrator) detector(st *State) *detect.Detector {
	path := filepath.Join(st.RepoPath, ForgeDir, RulesFile)
	if _, err := os.Stat(path); err != nil {
		return detect.New()
	}
	d, err := detect.LoadRules(path)
	if err != nil {
		st.RecordError(PhaseInit, KindInternal, false, fmt.Errorf("custom rules ignored: %w", err))
		return detect.New()
	}
	logging.Get(logging.CategoryDetect).Info("loaded custom detection rules from %s", path)
	return d
}

// abort records the fatal cause and parks the run in Aborted. State is saved
// best-effort; an unwritable state file cannot block the terminal report.
func (o *Orchestrator) abort(err error) (Phase, error) {
	st := o.state

	var fatal *FatalError
	if errors.As(err, &fatal) {
		st.RecordError(fatal.Stage, fatal.Kind, true, fatal.Err)
	} else {
		st.RecordError(st.Phase, KindInternal, true, err)
		err = Fatal(st.Phase, KindInternal, err)
	}

	st.Phase = PhaseAborted
	if serr := st.Save(); serr != nil {
		logging.Get(logging.CategoryPipeline).Error("state save failed during abort: %v", serr)
	}
	logging.Get(logging.CategoryPipeline).Error("run %s aborted: %v", st.RunID, err)
	return PhaseAborted, err
}

func isRecoverable(err error) bool {
	var rec *RecoverableError
	return errors.As(err, &rec)
}
