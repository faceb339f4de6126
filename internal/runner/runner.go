// Package runner executes project toolchain commands for the testing and
// security stages. A tool that is not installed is reported as ToolMissing,
// which callers treat as a skipped check rather than a failed one.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"autoforge/internal/detect"
)

// Result is the outcome of a single command run.
type Result struct {
	Tool        string
	Args        []string
	ExitCode    int
	Stdout      string
	Stderr      string
	ToolMissing bool
	Err         error
}

// Passed reports whether the command ran and exited zero.
func (r Result) Passed() bool {
	return !r.ToolMissing && r.Err == nil && r.ExitCode == 0
}

// Command is an argv to run in the project directory.
type Command []string

// Runner runs a command in a directory and captures its output.
type Runner interface {
	Run(ctx context.Context, dir string, cmd Command) Result
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, cmd Command) Result {
	res := Result{Tool: cmd[0], Args: cmd[1:]}

	if _, err := exec.LookPath(cmd[0]); err != nil {
		res.ToolMissing = true
		return res
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	c.Dir = dir
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.Err = err
			res.ExitCode = -1
		}
	}
	return res
}

// Summary renders a one-line description suitable for logs and the PR summary.
func (r Result) Summary() string {
	switch {
	case r.ToolMissing:
		return r.Tool + ": not installed, skipped"
	case r.Err != nil:
		return fmt.Sprintf("%s: failed to run: %v", r.Tool, r.Err)
	case r.ExitCode == 0:
		return r.Tool + ": passed"
	default:
		return fmt.Sprintf("%s: failed (exit %d)", r.Tool, r.ExitCode)
	}
}

// TestCommand returns the conventional test argv for a language.
func TestCommand(lang detect.Language) (Command, bool) {
	switch lang {
	case detect.LangPython:
		return Command{"pytest", "-q"}, true
	case detect.LangJavaScript, detect.LangTypeScript:
		return Command{"npm", "test", "--silent"}, true
	case detect.LangGo:
		return Command{"go", "test", "./..."}, true
	case detect.LangRust:
		return Command{"cargo", "test", "--quiet"}, true
	case detect.LangJava:
		return Command{"mvn", "-q", "test"}, true
	case detect.LangCSharp:
		return Command{"dotnet", "test"}, true
	case detect.LangRuby:
		return Command{"ruby", "-Itest", "-e", "Dir.glob('test/**/*_test.rb').each { |f| require File.expand_path(f) }"}, true
	case detect.LangPHP:
		return Command{"phpunit"}, true
	}
	return nil, false
}

// LintCommand returns the conventional lint argv for a language.
func LintCommand(lang detect.Language) (Command, bool) {
	switch lang {
	case detect.LangPython:
		return Command{"ruff", "check", "."}, true
	case detect.LangJavaScript, detect.LangTypeScript:
		return Command{"npx", "--no-install", "eslint", "."}, true
	case detect.LangGo:
		return Command{"go", "vet", "./..."}, true
	case detect.LangRust:
		return Command{"cargo", "clippy", "--quiet"}, true
	case detect.LangRuby:
		return Command{"rubocop"}, true
	case detect.LangPHP:
		return Command{"php", "-l", "index.php"}, true
	}
	return nil, false
}

// AuditCommand returns the conventional dependency-audit argv for a language.
func AuditCommand(lang detect.Language) (Command, bool) {
	switch lang {
	case detect.LangPython:
		return Command{"pip-audit"}, true
	case detect.LangJavaScript, detect.LangTypeScript:
		return Command{"npm", "audit", "--audit-level=high"}, true
	case detect.LangGo:
		return Command{"govulncheck", "./..."}, true
	case detect.LangRust:
		return Command{"cargo", "audit"}, true
	case detect.LangRuby:
		return Command{"bundler-audit", "check"}, true
	case detect.LangPHP:
		return Command{"composer", "audit"}, true
	}
	return nil, false
}
