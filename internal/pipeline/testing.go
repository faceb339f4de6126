package pipeline

import (
	"context"
	"errors"
	"fmt"

	"autoforge/internal/logging"
	"autoforge/internal/runner"
)

// TestingStage runs the detected language's lint and test commands over the
// generated project. A missing tool is a recoverable warning, not a failure.
type TestingStage struct {
	Runner runner.Runner
}

func (TestingStage) Name() Phase { return PhaseTesting }

func (t TestingStage) Run(ctx context.Context, st *State) error {
	log := logging.Get(logging.CategoryTools)
	lang := st.Detection.Language

	var missing []string
	for _, pick := range []func() (runner.Command, bool){
		func() (runner.Command, bool) { return runner.LintCommand(lang) },
		func() (runner.Command, bool) { return runner.TestCommand(lang) },
	} {
		cmd, ok := pick()
		if !ok {
			continue
		}
		res := t.Runner.Run(ctx, st.RepoPath, cmd)
		st.TestResults = append(st.TestResults, res.Summary())
		log.Info("%s", res.Summary())
		if res.ToolMissing {
			missing = append(missing, res.Tool)
		}
		if res.Err != nil && errors.Is(res.Err, ctx.Err()) && ctx.Err() != nil {
			return Fatal(PhaseTesting, KindInternal, res.Err)
		}
	}

	if len(missing) > 0 {
		return Recoverable(PhaseTesting, KindToolMissing,
			fmt.Errorf("tools not installed: %v", missing))
	}
	return nil
}
