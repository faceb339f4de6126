// Package detect infers the target programming language, framework, and
// project type from a natural-language build request.
//
// Detection is deliberately dumb: an ordered rule table scanned first-match
// wins, no scoring, no state. Identical input always yields an identical
// result. Rules earlier in the table take precedence over later ones, which
// is the whole tie-break policy: framework rules sit above bare-language
// rules, and bare-language rules sit above the generic default.
package detect

import (
	"regexp"
	"strings"
	"sync"
)

// Language identifies a supported target language.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangGo         Language = "go"
	LangRust       Language = "rust"
	LangJava       Language = "java"
	LangCSharp     Language = "csharp"
	LangRuby       Language = "ruby"
	LangPHP        Language = "php"
)

// DefaultLanguage is used when no language keyword matches the request.
const DefaultLanguage = LangPython

// Languages lists every language the catalog and dependency manager support,
// in a fixed order.
var Languages = []Language{
	LangPython, LangJavaScript, LangTypeScript, LangGo,
	LangRust, LangJava, LangCSharp, LangRuby, LangPHP,
}

// Framework identifies a web/application framework within a language.
type Framework string

const (
	FrameworkNone    Framework = ""
	FrameworkFastAPI Framework = "fastapi"
	FrameworkFlask   Framework = "flask"
	FrameworkDjango  Framework = "django"
	FrameworkExpress Framework = "express"
	FrameworkReact   Framework = "react"
	FrameworkNext    Framework = "next"
	FrameworkNest    Framework = "nestjs"
	FrameworkGin     Framework = "gin"
	FrameworkEcho    Framework = "echo"
	FrameworkActix   Framework = "actix"
	FrameworkSpring  Framework = "spring"
	FrameworkAspNet  Framework = "aspnet"
	FrameworkRails   Framework = "rails"
	FrameworkLaravel Framework = "laravel"
)

// ProjectType classifies the kind of project being requested.
type ProjectType string

const (
	TypeAPI   ProjectType = "api"
	TypeWeb   ProjectType = "web"
	TypeCLI   ProjectType = "cli"
	TypeGame  ProjectType = "game"
	TypeBasic ProjectType = "basic"
)

// ProjectTypes lists every project type in a fixed order.
var ProjectTypes = []ProjectType{TypeAPI, TypeWeb, TypeCLI, TypeGame, TypeBasic}

// Confidence ranks how strong the detection signal was.
type Confidence int

const (
	// ConfidenceLow means nothing matched and the default language was used.
	ConfidenceLow Confidence = iota
	// ConfidenceMedium means a bare language keyword matched.
	ConfidenceMedium
	// ConfidenceHigh means a framework-specific rule matched.
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// Result is the immutable output of a detection pass. Exactly one language is
// always chosen; Framework may be FrameworkNone.
type Result struct {
	Language    Language    `json:"language"`
	Framework   Framework   `json:"framework,omitempty"`
	ProjectType ProjectType `json:"project_type"`
	Confidence  Confidence  `json:"confidence"`
}

// Rule maps a set of request keywords to a detection outcome. A rule matches
// when any of its patterns appears in the request. ProjectType may be left
// empty, in which case it is inferred from generic keywords after the match.
type Rule struct {
	Patterns    []string    `yaml:"patterns"`
	Language    Language    `yaml:"language"`
	Framework   Framework   `yaml:"framework"`
	ProjectType ProjectType `yaml:"project_type"`
}

// builtinRules is the ordered detection table, most specific first.
// Framework rules precede language rules; within each group the order is the
// tie-break policy and must stay stable.
var builtinRules = []Rule{
	// Framework rules.
	{Patterns: []string{"fastapi"}, Language: LangPython, Framework: FrameworkFastAPI, ProjectType: TypeAPI},
	{Patterns: []string{"flask"}, Language: LangPython, Framework: FrameworkFlask, ProjectType: TypeWeb},
	{Patterns: []string{"django"}, Language: LangPython, Framework: FrameworkDjango, ProjectType: TypeWeb},
	{Patterns: []string{"nestjs", "nest.js"}, Language: LangTypeScript, Framework: FrameworkNest, ProjectType: TypeAPI},
	{Patterns: []string{"next.js", "nextjs"}, Language: LangJavaScript, Framework: FrameworkNext, ProjectType: TypeWeb},
	{Patterns: []string{"express"}, Language: LangJavaScript, Framework: FrameworkExpress, ProjectType: TypeAPI},
	{Patterns: []string{"react"}, Language: LangJavaScript, Framework: FrameworkReact, ProjectType: TypeWeb},
	{Patterns: []string{"gin"}, Language: LangGo, Framework: FrameworkGin, ProjectType: TypeAPI},
	{Patterns: []string{"actix"}, Language: LangRust, Framework: FrameworkActix, ProjectType: TypeAPI},
	{Patterns: []string{"spring", "springboot", "spring boot"}, Language: LangJava, Framework: FrameworkSpring, ProjectType: TypeAPI},
	{Patterns: []string{"asp.net", "blazor"}, Language: LangCSharp, Framework: FrameworkAspNet, ProjectType: TypeWeb},
	{Patterns: []string{"rails"}, Language: LangRuby, Framework: FrameworkRails, ProjectType: TypeWeb},
	{Patterns: []string{"laravel"}, Language: LangPHP, Framework: FrameworkLaravel, ProjectType: TypeWeb},

	// Bare language rules. ProjectType is inferred from generic keywords.
	{Patterns: []string{"python", "pytest", "pip"}, Language: LangPython},
	{Patterns: []string{"typescript", "ts"}, Language: LangTypeScript},
	{Patterns: []string{"javascript", "js", "node", "nodejs", "node.js", "npm"}, Language: LangJavaScript},
	{Patterns: []string{"golang", "go"}, Language: LangGo},
	{Patterns: []string{"rust", "cargo"}, Language: LangRust},
	{Patterns: []string{"java", "maven", "gradle"}, Language: LangJava},
	{Patterns: []string{"c#", "csharp", ".net", "dotnet"}, Language: LangCSharp},
	{Patterns: []string{"ruby", "sinatra"}, Language: LangRuby},
	{Patterns: []string{"php", "symfony", "composer"}, Language: LangPHP},
}

// Generic project-type keywords, checked in a fixed order after a
// language-only (or no) match.
var typeKeywords = []struct {
	projType ProjectType
	words    []string
}{
	{TypeAPI, []string{"api", "rest", "endpoint", "endpoints", "microservice", "backend", "server"}},
	{TypeCLI, []string{"cli", "command-line", "command line", "terminal"}},
	{TypeGame, []string{"game", "tic-tac-toe", "tictactoe", "puzzle"}},
	{TypeWeb, []string{"website", "web app", "webapp", "frontend", "dashboard", "web"}},
}

// Detector holds an ordered rule table. The zero value is not usable; call
// New or NewWithRules. A Detector is immutable after construction and safe
// for concurrent use.
type Detector struct {
	rules []Rule
}

// New returns a Detector with the builtin rule table.
func New() *Detector {
	return &Detector{rules: builtinRules}
}

// NewWithRules prepends custom rules to the builtin table. Custom rules win
// over builtin ones because earlier entries take precedence.
func NewWithRules(custom []Rule) *Detector {
	rules := make([]Rule, 0, len(custom)+len(builtinRules))
	rules = append(rules, custom...)
	rules = append(rules, builtinRules...)
	return &Detector{rules: rules}
}

var defaultDetector = New()

// Detect runs the default detector. It is a total function: every input maps
// to exactly one Result, and repeated calls with the same input return the
// same value.
func Detect(request string) Result {
	return defaultDetector.Detect(request)
}

// Detect scans the request against the rule table, first match wins.
func (d *Detector) Detect(request string) Result {
	text := strings.ToLower(request)

	for _, rule := range d.rules {
		if !matchesAny(text, rule.Patterns) {
			continue
		}
		res := Result{
			Language:    rule.Language,
			Framework:   rule.Framework,
			ProjectType: rule.ProjectType,
			Confidence:  ConfidenceMedium,
		}
		if rule.Framework != FrameworkNone {
			res.Confidence = ConfidenceHigh
		}
		if res.ProjectType == "" {
			res.ProjectType = inferProjectType(text)
		}
		return res
	}

	return Result{
		Language:    DefaultLanguage,
		Framework:   FrameworkNone,
		ProjectType: inferProjectType(text),
		Confidence:  ConfidenceLow,
	}
}

func inferProjectType(text string) ProjectType {
	for _, tk := range typeKeywords {
		if matchesAny(text, tk.words) {
			return tk.projType
		}
	}
	return TypeBasic
}

func matchesAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if matchKeyword(text, p) {
			return true
		}
	}
	return false
}

var (
	wordRegexMu sync.Mutex
	wordRegexes = map[string]*regexp.Regexp{}
)

// matchKeyword matches a keyword on word boundaries. Keywords containing
// characters outside \w (like "c#", ".net", "node.js") fall back to plain
// substring matching, since \b does not behave usefully around them.
func matchKeyword(text, keyword string) bool {
	if strings.ContainsAny(keyword, "#.+ ") {
		return strings.Contains(text, keyword)
	}

	wordRegexMu.Lock()
	re, ok := wordRegexes[keyword]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		wordRegexes[keyword] = re
	}
	wordRegexMu.Unlock()

	return re.MatchString(text)
}
