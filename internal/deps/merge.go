package deps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// reqName extracts the package name from a requirements.txt line.
func reqName(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return ""
	}
	end := len(line)
	for i, r := range line {
		switch r {
		case '=', '<', '>', '!', '~', '[', ';', ' ', '#':
			end = i
		}
		if end == i {
			break
		}
	}
	return strings.ToLower(strings.TrimSpace(line[:end]))
}

func mergeRequirements(existing []byte, add []Dependency) ([]byte, []string, error) {
	seen := map[string]string{}
	lines := []string{}
	if len(existing) > 0 {
		for _, line := range strings.Split(strings.TrimRight(string(existing), "\n"), "\n") {
			lines = append(lines, line)
			if name := reqName(line); name != "" {
				seen[name] = strings.TrimSpace(line)
			}
		}
	}

	var warnings []string
	added := []string{}
	for _, d := range add {
		name := strings.ToLower(d.Name)
		pin := d.Name + d.Constraint
		if have, ok := seen[name]; ok {
			if d.Constraint != "" && have != pin {
				warnings = append(warnings, fmt.Sprintf("%s: keeping existing pin %q over %q", d.Name, have, pin))
			}
			continue
		}
		seen[name] = pin
		added = append(added, pin)
	}
	sort.Strings(added)
	lines = append(lines, added...)

	out := strings.Join(lines, "\n")
	if out != "" {
		out += "\n"
	}
	return []byte(out), warnings, nil
}

func mergePackageJSON(existing []byte, add []Dependency) ([]byte, []string, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, nil, fmt.Errorf("deps: parse package.json: %w", err)
		}
	} else {
		doc["name"] = "generated-app"
		doc["version"] = "1.0.0"
	}

	depsObj, ok := doc["dependencies"].(map[string]any)
	if !ok {
		depsObj = map[string]any{}
	}

	var warnings []string
	for _, d := range add {
		constraint := d.Constraint
		if constraint == "" {
			constraint = "*"
		}
		if have, ok := depsObj[d.Name]; ok {
			if s, _ := have.(string); s != constraint && d.Constraint != "" {
				warnings = append(warnings, fmt.Sprintf("%s: keeping existing pin %q over %q", d.Name, s, constraint))
			}
			continue
		}
		depsObj[d.Name] = constraint
	}
	doc["dependencies"] = depsObj

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("deps: encode package.json: %w", err)
	}
	return append(out, '\n'), warnings, nil
}

func mergeGoMod(existing []byte, add []Dependency) ([]byte, []string, error) {
	content := string(existing)
	if strings.TrimSpace(content) == "" {
		content = "module generated-app\n\ngo 1.24\n"
	}

	have := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "require "))
		if len(fields) == 2 && strings.Contains(fields[0], "/") && strings.HasPrefix(fields[1], "v") {
			have[fields[0]] = fields[1]
		}
	}

	var warnings []string
	var missing []Dependency
	for _, d := range add {
		if d.Constraint == "" {
			warnings = append(warnings, fmt.Sprintf("%s: skipped, go.mod requires a version", d.Name))
			continue
		}
		if v, ok := have[d.Name]; ok {
			if v != d.Constraint {
				warnings = append(warnings, fmt.Sprintf("%s: keeping existing pin %q over %q", d.Name, v, d.Constraint))
			}
			continue
		}
		missing = append(missing, d)
	}
	if len(missing) == 0 {
		return []byte(content), warnings, nil
	}

	sort.Slice(missing, func(i, j int) bool { return missing[i].Name < missing[j].Name })
	var block strings.Builder
	block.WriteString("\nrequire (\n")
	for _, d := range missing {
		fmt.Fprintf(&block, "\t%s %s\n", d.Name, d.Constraint)
	}
	block.WriteString(")\n")

	content = strings.TrimRight(content, "\n") + "\n" + block.String()
	return []byte(content), warnings, nil
}

// tomlDeps merges additions into a string-valued dependency table.
func tomlDeps(table map[string]any, add []Dependency) []string {
	var warnings []string
	for _, d := range add {
		constraint := d.Constraint
		if constraint == "" {
			constraint = "*"
		}
		if have, ok := table[d.Name]; ok {
			if s, _ := have.(string); s != constraint && d.Constraint != "" {
				warnings = append(warnings, fmt.Sprintf("%s: keeping existing pin %q over %q", d.Name, s, constraint))
			}
			continue
		}
		table[d.Name] = constraint
	}
	return warnings
}

func mergeCargo(existing []byte, add []Dependency) ([]byte, []string, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := toml.Unmarshal(existing, &doc); err != nil {
			return nil, nil, fmt.Errorf("deps: parse Cargo.toml: %w", err)
		}
	} else {
		doc["package"] = map[string]any{
			"name":    "generated-app",
			"version": "0.1.0",
			"edition": "2021",
		}
	}

	table, ok := doc["dependencies"].(map[string]any)
	if !ok {
		table = map[string]any{}
	}
	warnings := tomlDeps(table, add)
	doc["dependencies"] = table

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, nil, fmt.Errorf("deps: encode Cargo.toml: %w", err)
	}
	return buf.Bytes(), warnings, nil
}

func mergePyproject(existing []byte, add []Dependency) ([]byte, []string, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(existing)) > 0 {
		if err := toml.Unmarshal(existing, &doc); err != nil {
			return nil, nil, fmt.Errorf("deps: parse pyproject.toml: %w", err)
		}
	}

	project, ok := doc["project"].(map[string]any)
	if !ok {
		project = map[string]any{"name": "generated-app", "version": "0.1.0"}
	}

	have := map[string]string{}
	var list []string
	if raw, ok := project["dependencies"].([]any); ok {
		for _, item := range raw {
			if s, ok := item.(string); ok {
				list = append(list, s)
				if name := reqName(s); name != "" {
					have[name] = strings.TrimSpace(s)
				}
			}
		}
	}

	var warnings []string
	var added []string
	for _, d := range add {
		name := strings.ToLower(d.Name)
		pin := d.Name + d.Constraint
		if cur, ok := have[name]; ok {
			if d.Constraint != "" && cur != pin {
				warnings = append(warnings, fmt.Sprintf("%s: keeping existing pin %q over %q", d.Name, cur, pin))
			}
			continue
		}
		have[name] = pin
		added = append(added, pin)
	}
	sort.Strings(added)
	list = append(list, added...)

	project["dependencies"] = list
	doc["project"] = project

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, nil, fmt.Errorf("deps: encode pyproject.toml: %w", err)
	}
	return buf.Bytes(), warnings, nil
}
