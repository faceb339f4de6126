package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_LiteralCases(t *testing.T) {
	tests := []struct {
		name     string
		request  string
		language Language
		fw       Framework
		projType ProjectType
	}{
		{
			name:     "go rest api",
			request:  "Create a Go REST API with health endpoints",
			language: LangGo,
			fw:       FrameworkNone,
			projType: TypeAPI,
		},
		{
			name:     "rust cli",
			request:  "Build a Rust command-line tool for text processing",
			language: LangRust,
			fw:       FrameworkNone,
			projType: TypeCLI,
		},
		{
			name:     "no signal falls back to default",
			request:  "Create an app",
			language: DefaultLanguage,
			fw:       FrameworkNone,
			projType: TypeBasic,
		},
		{
			name:     "python fastapi ecommerce",
			request:  "Create a Python FastAPI e-commerce API with product catalog and shopping cart",
			language: LangPython,
			fw:       FrameworkFastAPI,
			projType: TypeAPI,
		},
		{
			name:     "express api",
			request:  "Build an Express API for user management",
			language: LangJavaScript,
			fw:       FrameworkExpress,
			projType: TypeAPI,
		},
		{
			name:     "flask web",
			request:  "Make me a Flask site",
			language: LangPython,
			fw:       FrameworkFlask,
			projType: TypeWeb,
		},
		{
			name:     "bare python game",
			request:  "Write a python tic-tac-toe game",
			language: LangPython,
			fw:       FrameworkNone,
			projType: TypeGame,
		},
		{
			name:     "csharp special characters",
			request:  "Build a C# console utility",
			language: LangCSharp,
			fw:       FrameworkNone,
			projType: TypeBasic,
		},
		{
			name:     "dotnet substring",
			request:  "Set up a .NET backend",
			language: LangCSharp,
			fw:       FrameworkNone,
			projType: TypeAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Detect(tt.request)
			assert.Equal(t, tt.language, res.Language)
			assert.Equal(t, tt.fw, res.Framework)
			assert.Equal(t, tt.projType, res.ProjectType)
		})
	}
}

func TestDetect_Deterministic(t *testing.T) {
	requests := []string{
		"Create a Go REST API with health endpoints",
		"Build a Rust command-line tool for text processing",
		"Create an app",
		"fastapi flask django express react spring",
		"",
	}

	for _, req := range requests {
		first := Detect(req)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, Detect(req), "request %q diverged on call %d", req, i)
		}
	}
}

func TestDetect_FrameworkRulesWinOverLanguageRules(t *testing.T) {
	// Both "python" and "fastapi" appear; the framework rule sits earlier in
	// the table and must win.
	res := Detect("python fastapi service")
	assert.Equal(t, FrameworkFastAPI, res.Framework)
	assert.Equal(t, ConfidenceHigh, res.Confidence)

	// A bare language match ranks medium.
	res = Detect("plain python script")
	assert.Equal(t, FrameworkNone, res.Framework)
	assert.Equal(t, ConfidenceMedium, res.Confidence)

	// No match at all ranks low.
	res = Detect("do the thing")
	assert.Equal(t, ConfidenceLow, res.Confidence)
}

func TestDetect_WordBoundaries(t *testing.T) {
	// "go" must not match inside other words.
	res := Detect("Categorize customer accounts")
	assert.Equal(t, DefaultLanguage, res.Language)

	// "js" must not match inside "json".
	res = Detect("Validate json documents")
	assert.Equal(t, DefaultLanguage, res.Language)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `
- patterns: ["svelte", "sveltekit"]
  language: javascript
  framework: svelte
  project_type: web
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := LoadRules(path)
	require.NoError(t, err)

	res := d.Detect("Build a svelte dashboard")
	assert.Equal(t, LangJavaScript, res.Language)
	assert.Equal(t, Framework("svelte"), res.Framework)
	assert.Equal(t, TypeWeb, res.ProjectType)

	// Builtin rules still apply behind the custom ones.
	res = d.Detect("Create a Go REST API")
	assert.Equal(t, LangGo, res.Language)
}

func TestLoadRules_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- language: go\n"), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestManifestLanguage(t *testing.T) {
	lang, ok := ManifestLanguage("requirements.txt")
	require.True(t, ok)
	assert.Equal(t, LangPython, lang)

	lang, ok = ManifestLanguage("MyApp.csproj")
	require.True(t, ok)
	assert.Equal(t, LangCSharp, lang)

	_, ok = ManifestLanguage("README.md")
	assert.False(t, ok)
}
