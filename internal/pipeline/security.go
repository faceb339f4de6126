package pipeline

import (
	"context"
	"fmt"

	"autoforge/internal/logging"
	"autoforge/internal/runner"
)

// SecurityStage runs the language's dependency audit tool. Classification
// mirrors the testing stage: a missing auditor is a recoverable warning.
type SecurityStage struct {
	Runner runner.Runner
}

func (SecurityStage) Name() Phase { return PhaseSecurity }

func (s SecurityStage) Run(ctx context.Context, st *State) error {
	cmd, ok := runner.AuditCommand(st.Detection.Language)
	if !ok {
		st.AuditResults = append(st.AuditResults, fmt.Sprintf("no audit tool known for %s, skipped", st.Detection.Language))
		return nil
	}

	res := s.Runner.Run(ctx, st.RepoPath, cmd)
	st.AuditResults = append(st.AuditResults, res.Summary())
	logging.Get(logging.CategoryTools).Info("%s", res.Summary())

	if res.ToolMissing {
		return Recoverable(PhaseSecurity, KindToolMissing,
			fmt.Errorf("audit tool %s not installed", res.Tool))
	}
	return nil
}
