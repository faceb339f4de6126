package detect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRules reads custom detection rules from a YAML file and returns a
// Detector with those rules prepended to the builtin table.
//
// File format:
//
//	- patterns: ["svelte", "sveltekit"]
//	  language: javascript
//	  framework: svelte
//	  project_type: web
func LoadRules(path string) (*Detector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	for i, r := range rules {
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("rule %d has no patterns", i)
		}
		if r.Language == "" {
			return nil, fmt.Errorf("rule %d has no language", i)
		}
	}

	return NewWithRules(rules), nil
}
