// Package templates is the deterministic fallback generator. When the
// generation backend fails or returns unusable output, the catalog produces a
// minimal buildable project for the detected (language, framework, project
// type) key. Lookup is total: every supported language resolves to at least a
// basic console template, so the pipeline always terminates with files.
package templates

import (
	"strings"

	"autoforge/internal/detect"
)

// FileSet maps repository-relative paths to file contents.
type FileSet map[string]string

// key identifies a catalog entry.
type key struct {
	lang     detect.Language
	fw       detect.Framework
	projType detect.ProjectType
}

// entry builds a FileSet from the project name. Entries are pure functions:
// same name, byte-identical output.
type entry func(name string) FileSet

// exact catalog: (language, framework, projectType).
var exactEntries = map[key]entry{
	{detect.LangPython, detect.FrameworkFastAPI, detect.TypeAPI}:      pythonFastAPI,
	{detect.LangPython, detect.FrameworkFlask, detect.TypeWeb}:        pythonFlask,
	{detect.LangJavaScript, detect.FrameworkExpress, detect.TypeAPI}:  nodeExpress,
	{detect.LangJavaScript, detect.FrameworkReact, detect.TypeWeb}:    nodeWeb,
}

// framework-agnostic catalog: (language, projectType).
var typeEntries = map[key]entry{
	{lang: detect.LangPython, projType: detect.TypeAPI}:     pythonFastAPI,
	{lang: detect.LangPython, projType: detect.TypeWeb}:     pythonFlask,
	{lang: detect.LangPython, projType: detect.TypeCLI}:     pythonCLI,
	{lang: detect.LangJavaScript, projType: detect.TypeAPI}: nodeExpress,
	{lang: detect.LangJavaScript, projType: detect.TypeWeb}: nodeWeb,
	{lang: detect.LangJavaScript, projType: detect.TypeCLI}: nodeCLI,
	{lang: detect.LangGo, projType: detect.TypeAPI}:         goAPI,
	{lang: detect.LangGo, projType: detect.TypeCLI}:         goCLI,
	{lang: detect.LangRust, projType: detect.TypeCLI}:       rustCLI,
}

// basicEntries is the per-language floor of the catalog. Every supported
// language has one; lookups that miss the two tables above land here.
var basicEntries = map[detect.Language]entry{
	detect.LangPython:     pythonBasic,
	detect.LangJavaScript: nodeBasic,
	detect.LangTypeScript: typescriptBasic,
	detect.LangGo:         goBasic,
	detect.LangRust:       rustBasic,
	detect.LangJava:       javaBasic,
	detect.LangCSharp:     csharpBasic,
	detect.LangRuby:       rubyBasic,
	detect.LangPHP:        phpBasic,
}

// Lookup resolves a template for the detection key. Selection order: exact
// (language, framework, projectType), then (language, projectType), then the
// language's basic template. The request text influences only the project
// name, never which template is chosen.
func Lookup(lang detect.Language, fw detect.Framework, projType detect.ProjectType, request string) FileSet {
	name := ProjectSlug(request)

	if fw != detect.FrameworkNone {
		if e, ok := exactEntries[key{lang, fw, projType}]; ok {
			return e(name)
		}
	}
	if e, ok := typeEntries[key{lang: lang, projType: projType}]; ok {
		return e(name)
	}
	if e, ok := basicEntries[lang]; ok {
		return e(name)
	}
	// Unknown language: the default language's basic template keeps the
	// lookup total.
	return basicEntries[detect.DefaultLanguage](name)
}

// ProjectSlug derives a filesystem- and manifest-safe project name from the
// request text. Empty or unusable requests yield "generated-app".
func ProjectSlug(request string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(request) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
		if b.Len() >= 30 {
			break
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "generated-app"
	}
	return slug
}
