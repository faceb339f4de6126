// Package deps merges generated dependency requirements into project
// manifests. Merges are idempotent and never remove or rewrite entries the
// project already pins: on a constraint conflict the existing entry wins and
// the merge reports a warning.
package deps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"autoforge/internal/detect"
	"autoforge/internal/repo"
)

// Format identifies a manifest dialect.
type Format string

const (
	FormatRequirements Format = "requirements.txt"
	FormatPackageJSON  Format = "package.json"
	FormatGoMod        Format = "go.mod"
	FormatCargo        Format = "Cargo.toml"
	FormatPyproject    Format = "pyproject.toml"
)

// ErrUnsupported reports a manifest dialect the merger cannot edit.
var ErrUnsupported = errors.New("deps: unsupported manifest format")

// Dependency is a single package requirement. Constraint may be empty, in
// which case the format's loosest pin is used.
type Dependency struct {
	Name       string
	Constraint string
}

// Delta is the set of dependencies a generation stage wants present.
type Delta struct {
	Language detect.Language
	Add      []Dependency
}

// FormatFor maps a manifest filename to its merge format.
func FormatFor(filename string) (Format, bool) {
	switch filepath.Base(filename) {
	case "requirements.txt":
		return FormatRequirements, true
	case "package.json":
		return FormatPackageJSON, true
	case "go.mod":
		return FormatGoMod, true
	case "Cargo.toml":
		return FormatCargo, true
	case "pyproject.toml":
		return FormatPyproject, true
	}
	return "", false
}

// Merge folds the additions into the manifest bytes. Existing entries are
// preserved verbatim. A nil or empty existing slice produces a fresh minimal
// manifest. Returned warnings describe constraint conflicts and skipped
// entries; they are not errors.
func Merge(format Format, existing []byte, add []Dependency) ([]byte, []string, error) {
	switch format {
	case FormatRequirements:
		return mergeRequirements(existing, add)
	case FormatPackageJSON:
		return mergePackageJSON(existing, add)
	case FormatGoMod:
		return mergeGoMod(existing, add)
	case FormatCargo:
		return mergeCargo(existing, add)
	case FormatPyproject:
		return mergePyproject(existing, add)
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
}

// Apply merges the delta into the project's manifest on disk, creating the
// language's canonical manifest when the project has none. It returns the
// manifest path written and any merge warnings.
func Apply(root string, snap *repo.Snapshot, delta Delta) (string, []string, error) {
	if len(delta.Add) == 0 {
		return "", nil, nil
	}

	rel, format, err := targetManifest(snap, delta.Language)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(root, rel)
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", nil, fmt.Errorf("deps: read %s: %w", rel, err)
	}

	merged, warnings, err := Merge(format, existing, delta.Add)
	if err != nil {
		return "", nil, err
	}
	if err := os.WriteFile(path, merged, 0o644); err != nil {
		return "", nil, fmt.Errorf("deps: write %s: %w", rel, err)
	}
	return rel, warnings, nil
}

// targetManifest picks the manifest to edit: the first mergeable manifest the
// snapshot already has for the language, else the language's canonical file.
func targetManifest(snap *repo.Snapshot, lang detect.Language) (string, Format, error) {
	if snap != nil {
		for _, m := range snap.Manifests[lang] {
			if format, ok := FormatFor(m); ok {
				return m, format, nil
			}
		}
	}
	canonical, ok := detect.ManifestFile(lang)
	if !ok {
		return "", "", fmt.Errorf("%w: no manifest for language %s", ErrUnsupported, lang)
	}
	format, ok := FormatFor(canonical)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupported, canonical)
	}
	return canonical, format, nil
}
