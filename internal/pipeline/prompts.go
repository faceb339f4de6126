package pipeline

import (
	"fmt"
	"strings"

	"autoforge/internal/detect"
)

const planningSystem = `You are a senior product engineer. You turn a short
feature request into a concise product requirements document and a small,
ordered task list. Respond with a single JSON object and nothing else:
{"prd_md": "<markdown PRD>", "tasks": [{"title": "...", "description": "..."}]}`

const architectureSystem = `You are a software architect. You produce a short
RFC in markdown describing the structure of the project to build: components,
file layout, data flow, and the key decisions. Respond with markdown only, no
JSON, no code fences around the whole document.`

const codingSystem = `You are an expert developer. You produce complete,
runnable project files including tests and a dependency manifest. Respond
with a single JSON object and nothing else:
{"files": [{"path": "relative/path", "content": "file content"}], "summary": "one line"}
Paths are relative to the project root. Never use absolute paths or "..".`

func planningPrompt(request, repoSummary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature request:\n%s\n", request)
	if repoSummary != "" {
		fmt.Fprintf(&b, "\nExisting repository:\n%s\n", repoSummary)
	}
	b.WriteString("\nWrite the PRD and a task list of 3 to 7 tasks.")
	return b.String()
}

func architecturePrompt(request, prd string, det detect.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature request:\n%s\n", request)
	fmt.Fprintf(&b, "\nTarget stack: %s", det.Language)
	if det.Framework != detect.FrameworkNone {
		fmt.Fprintf(&b, " with %s", det.Framework)
	}
	fmt.Fprintf(&b, ", project type %s.\n", det.ProjectType)
	if prd != "" {
		fmt.Fprintf(&b, "\nPRD:\n%s\n", prd)
	}
	b.WriteString("\nWrite the RFC.")
	return b.String()
}

func codingPrompt(request, prd, rfc string, det detect.Result, tasks []Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature request:\n%s\n", request)
	fmt.Fprintf(&b, "\nLanguage: %s", det.Language)
	if det.Framework != detect.FrameworkNone {
		fmt.Fprintf(&b, "\nFramework: %s", det.Framework)
	}
	fmt.Fprintf(&b, "\nProject type: %s\n", det.ProjectType)
	if len(tasks) > 0 {
		b.WriteString("\nTasks:\n")
		for _, t := range tasks {
			fmt.Fprintf(&b, "%d. %s\n", t.ID, t.Title)
		}
	}
	if prd != "" {
		fmt.Fprintf(&b, "\nPRD:\n%s\n", prd)
	}
	if rfc != "" {
		fmt.Fprintf(&b, "\nRFC:\n%s\n", rfc)
	}
	b.WriteString("\nGenerate the full project: source, tests, and the dependency manifest.")
	return b.String()
}
