package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"autoforge/internal/backend"
	"autoforge/internal/detect"
	"autoforge/internal/repo"
)

// Phase is a pipeline state machine node. Transitions run strictly forward;
// a phase is never re-entered within a run.
type Phase string

const (
	PhaseInit         Phase = "init"
	PhasePlanning     Phase = "planning"
	PhaseArchitecture Phase = "architecture"
	PhaseDevelopment  Phase = "development"
	PhaseTesting      Phase = "testing"
	PhaseSecurity     Phase = "security"
	PhasePR           Phase = "pr"
	PhaseDone         Phase = "done"
	PhaseAborted      Phase = "aborted"
)

// Terminal reports whether the phase ends the run.
func (p Phase) Terminal() bool { return p == PhaseDone || p == PhaseAborted }

// ForgeDir is the per-repository artifact directory, relative to the repo root.
const ForgeDir = ".forge"

// StateFile is where the session state persists between phases.
const StateFile = "state.json"

// Task is one planned unit of work from the planning stage.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// State is the shared pipeline state every stage reads and extends. It is
// persisted to <repo>/.forge/state.json after every committed phase.
type State struct {
	RunID    string `json:"run_id"`
	Request  string `json:"request"`
	RepoPath string `json:"repo_path"`
	Phase    Phase  `json:"phase"`

	Detection detect.Result  `json:"detection"`
	Snapshot  *repo.Snapshot `json:"-"`

	Tasks   []Task   `json:"tasks,omitempty"`
	PRDPath string   `json:"prd_path,omitempty"`
	RFCPath string   `json:"rfc_path,omitempty"`
	Files   []string `json:"files,omitempty"`
	Branch  string   `json:"branch,omitempty"`
	Commit  string   `json:"commit,omitempty"`

	Outcome        backend.Kind `json:"outcome,omitempty"`
	FallbackReason string       `json:"fallback_reason,omitempty"`

	TestResults  []string `json:"test_results,omitempty"`
	AuditResults []string `json:"audit_results,omitempty"`
	DepWarnings  []string `json:"dep_warnings,omitempty"`

	Errors []ErrorRecord `json:"errors,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates the initial state for a run.
func NewState(request, repoPath string) *State {
	now := time.Now().UTC()
	return &State{
		RunID:     uuid.NewString(),
		Request:   request,
		RepoPath:  repoPath,
		Phase:     PhaseInit,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// RecordError appends to the session error log.
func (s *State) RecordError(stage Phase, kind ErrorKind, fatal bool, err error) {
	s.Errors = append(s.Errors, ErrorRecord{
		Stage:   stage,
		Kind:    kind,
		Message: err.Error(),
		Fatal:   fatal,
		At:      time.Now().UTC(),
	})
}

// AddFiles records written file paths, kept sorted and deduplicated.
func (s *State) AddFiles(paths ...string) {
	seen := make(map[string]bool, len(s.Files)+len(paths))
	for _, p := range s.Files {
		seen[p] = true
	}
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			s.Files = append(s.Files, p)
		}
	}
	sort.Strings(s.Files)
}

// Save persists the state under the repo's artifact directory.
func (s *State) Save() error {
	s.UpdatedAt = time.Now().UTC()

	dir := filepath.Join(s.RepoPath, ForgeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pipeline: create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: encode state: %w", err)
	}
	path := filepath.Join(dir, StateFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("pipeline: write state: %w", err)
	}
	return nil
}

// LoadState reads a persisted session state from a repo, if one exists.
func LoadState(repoPath string) (*State, error) {
	path := filepath.Join(repoPath, ForgeDir, StateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("pipeline: decode state: %w", err)
	}
	return &st, nil
}
