package detect

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps source file extensions to languages.
var extensionLanguages = map[string]Language{
	".py":   LangPython,
	".js":   LangJavaScript,
	".mjs":  LangJavaScript,
	".jsx":  LangJavaScript,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".go":   LangGo,
	".rs":   LangRust,
	".java": LangJava,
	".cs":   LangCSharp,
	".rb":   LangRuby,
	".php":  LangPHP,
}

// manifestLanguages maps well-known manifest filenames to languages.
var manifestLanguages = map[string]Language{
	"requirements.txt":  LangPython,
	"pyproject.toml":    LangPython,
	"setup.py":          LangPython,
	"Pipfile":           LangPython,
	"package.json":      LangJavaScript,
	"package-lock.json": LangJavaScript,
	"yarn.lock":         LangJavaScript,
	"tsconfig.json":     LangTypeScript,
	"go.mod":            LangGo,
	"go.sum":            LangGo,
	"Cargo.toml":        LangRust,
	"Cargo.lock":        LangRust,
	"pom.xml":           LangJava,
	"build.gradle":      LangJava,
	"Gemfile":           LangRuby,
	"composer.json":     LangPHP,
}

// ExtensionLanguage maps a file extension (with leading dot) to a language.
func ExtensionLanguage(ext string) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(ext)]
	return lang, ok
}

// FileLanguage maps a file path to the language of its source extension.
func FileLanguage(path string) (Language, bool) {
	return ExtensionLanguage(filepath.Ext(path))
}

// ManifestLanguage reports which language a manifest filename belongs to.
func ManifestLanguage(filename string) (Language, bool) {
	if lang, ok := manifestLanguages[filename]; ok {
		return lang, ok
	}
	// Project files carry variable names (Foo.csproj, Bar.sln).
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csproj", ".sln":
		return LangCSharp, true
	}
	return "", false
}

// ManifestFile returns the canonical manifest filename created for a language
// when none exists yet.
func ManifestFile(lang Language) (string, bool) {
	switch lang {
	case LangPython:
		return "requirements.txt", true
	case LangJavaScript, LangTypeScript:
		return "package.json", true
	case LangGo:
		return "go.mod", true
	case LangRust:
		return "Cargo.toml", true
	case LangJava:
		return "pom.xml", true
	case LangCSharp:
		return "Project.csproj", true
	case LangRuby:
		return "Gemfile", true
	case LangPHP:
		return "composer.json", true
	}
	return "", false
}
