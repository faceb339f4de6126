package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoforge/internal/detect"
)

func TestExecRunnerMissingTool(t *testing.T) {
	res := ExecRunner{}.Run(context.Background(), t.TempDir(), Command{"definitely-not-a-real-tool-xyz"})
	assert.True(t, res.ToolMissing)
	assert.False(t, res.Passed())
	assert.Contains(t, res.Summary(), "skipped")
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	res := ExecRunner{}.Run(context.Background(), t.TempDir(), Command{"sh", "-c", "echo out; echo err >&2"})
	require.False(t, res.ToolMissing)
	assert.True(t, res.Passed())
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Equal(t, "sh: passed", res.Summary())
}

func TestExecRunnerNonzeroExit(t *testing.T) {
	res := ExecRunner{}.Run(context.Background(), t.TempDir(), Command{"sh", "-c", "exit 3"})
	assert.False(t, res.ToolMissing)
	assert.False(t, res.Passed())
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Summary(), "exit 3")
}

func TestCommandTablesCoverPrimaryLanguages(t *testing.T) {
	for _, lang := range []detect.Language{detect.LangPython, detect.LangJavaScript, detect.LangGo, detect.LangRust} {
		cmd, ok := TestCommand(lang)
		require.True(t, ok, "test command for %s", lang)
		assert.NotEmpty(t, cmd)

		cmd, ok = AuditCommand(lang)
		require.True(t, ok, "audit command for %s", lang)
		assert.NotEmpty(t, cmd)
	}
}

func TestCommandTablesUnknownLanguage(t *testing.T) {
	_, ok := TestCommand(detect.Language("fortran"))
	assert.False(t, ok)
	_, ok = LintCommand(detect.Language("fortran"))
	assert.False(t, ok)
	_, ok = AuditCommand(detect.Language("fortran"))
	assert.False(t, ok)
}
