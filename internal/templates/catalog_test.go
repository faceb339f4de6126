package templates

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoforge/internal/detect"
)

func TestLookupTotal(t *testing.T) {
	for _, lang := range detect.Languages {
		for _, pt := range detect.ProjectTypes {
			files := Lookup(lang, detect.FrameworkNone, pt, "demo app")
			require.NotEmpty(t, files, "no files for %s/%s", lang, pt)
			for path, content := range files {
				assert.NotEmpty(t, content, "%s/%s: empty file %s", lang, pt, path)
				assert.False(t, strings.HasPrefix(path, "/"), "%s/%s: absolute path %s", lang, pt, path)
			}
		}
	}
}

func TestLookupUnknownLanguageFallsBackToDefault(t *testing.T) {
	got := Lookup(detect.Language("fortran"), detect.FrameworkNone, detect.TypeBasic, "demo")
	want := Lookup(detect.DefaultLanguage, detect.FrameworkNone, detect.TypeBasic, "demo")
	assert.Empty(t, cmp.Diff(want, got))
}

func TestLookupDeterministic(t *testing.T) {
	for _, lang := range detect.Languages {
		a := Lookup(lang, detect.FrameworkNone, detect.TypeAPI, "Build a REST API for books")
		b := Lookup(lang, detect.FrameworkNone, detect.TypeAPI, "Build a REST API for books")
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("lookup not deterministic for %s (-first +second):\n%s", lang, diff)
		}
	}
}

func TestLookupFrameworkExact(t *testing.T) {
	files := Lookup(detect.LangPython, detect.FrameworkFastAPI, detect.TypeAPI, "store")
	require.Contains(t, files, "main.py")
	assert.Contains(t, files["main.py"], "FastAPI")
	require.Contains(t, files, "requirements.txt")
	assert.Contains(t, files["requirements.txt"], "fastapi")
}

func TestLookupUnknownFrameworkFallsToType(t *testing.T) {
	got := Lookup(detect.LangGo, detect.Framework("gin"), detect.TypeAPI, "svc")
	want := Lookup(detect.LangGo, detect.FrameworkNone, detect.TypeAPI, "svc")
	assert.Empty(t, cmp.Diff(want, got))
}

func TestLookupIncludesManifest(t *testing.T) {
	cases := map[detect.Language]string{
		detect.LangPython:     "requirements.txt",
		detect.LangJavaScript: "package.json",
		detect.LangGo:         "go.mod",
		detect.LangRust:       "Cargo.toml",
		detect.LangJava:       "pom.xml",
		detect.LangRuby:       "Gemfile",
		detect.LangPHP:        "composer.json",
	}
	for lang, manifest := range cases {
		files := Lookup(lang, detect.FrameworkNone, detect.TypeBasic, "demo")
		assert.Contains(t, files, manifest, "language %s", lang)
	}
}

func TestLookupIncludesTests(t *testing.T) {
	for _, lang := range []detect.Language{detect.LangPython, detect.LangJavaScript, detect.LangGo} {
		files := Lookup(lang, detect.FrameworkNone, detect.TypeAPI, "demo")
		found := false
		for path := range files {
			if strings.Contains(path, "test") || strings.Contains(path, "_test.") {
				found = true
			}
		}
		assert.True(t, found, "no test file in %s api template", lang)
	}
}

func TestProjectSlug(t *testing.T) {
	cases := []struct {
		request string
		want    string
	}{
		{"Build a REST API for books", "build-a-rest-api-for-books"},
		{"", "generated-app"},
		{"!!!???", "generated-app"},
		{"  Todo  App  ", "todo-app"},
		{"C# tool", "c-tool"},
		{strings.Repeat("x", 100), strings.Repeat("x", 30)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ProjectSlug(tc.request), "request %q", tc.request)
	}
}
