package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags a GenerationOutcome variant.
type Kind string

const (
	// KindSuccess means the backend produced usable output.
	KindSuccess Kind = "success"
	// KindFallback means the template catalog produced the output after the
	// backend failed or answered with garbage.
	KindFallback Kind = "fallback"
	// KindFailure means neither path yielded output. With the catalog being
	// total this only occurs for fatal classifications.
	KindFailure Kind = "failure"
)

// Outcome is the normalized result every backend-invoking stage produces
// before merging anything into the pipeline state. Fallback is a first-class
// variant, not a caught exception.
type Outcome struct {
	Kind   Kind              `json:"kind"`
	Files  map[string]string `json:"files,omitempty"`
	Text   string            `json:"text,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Err    error             `json:"-"`
}

// Succeeded returns an Outcome for usable backend output.
func Succeeded(files map[string]string, text string) Outcome {
	return Outcome{Kind: KindSuccess, Files: files, Text: text}
}

// FellBack returns an Outcome for catalog-generated output, recording why the
// backend path was abandoned.
func FellBack(files map[string]string, text, reason string) Outcome {
	return Outcome{Kind: KindFallback, Files: files, Text: text, Reason: reason}
}

// Failed returns a terminal Outcome carrying the classified error.
func Failed(err error) Outcome {
	return Outcome{Kind: KindFailure, Err: err, Reason: err.Error()}
}

// ExtractJSON recovers a JSON object from a raw model response. It tries, in
// order: the response as-is, the response with markdown fences stripped, and
// the slice between the first '{' and the last '}'. Returns ErrMalformed when
// none of them parse.
func ExtractJSON(raw string) (json.RawMessage, error) {
	candidates := []string{strings.TrimSpace(raw)}

	if stripped := stripFences(raw); stripped != "" {
		candidates = append(candidates, stripped)
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		candidates = append(candidates, raw[start:end+1])
	}

	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		if json.Valid([]byte(cand)) && strings.HasPrefix(strings.TrimSpace(cand), "{") {
			return json.RawMessage(cand), nil
		}
	}
	return nil, fmt.Errorf("%w: no JSON object found in response", ErrMalformed)
}

// stripFences removes a ```json ... ``` (or bare ```) wrapper.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return ""
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// filePayload is the JSON shape the coding purpose expects from the backend.
type filePayload struct {
	Files []struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	} `json:"files"`
	Summary string `json:"summary"`
}

// ParseFileList decodes a coding response into a path→content map plus the
// model's summary line. Duplicate paths keep the first occurrence; empty
// paths and absolute paths are rejected as malformed.
func ParseFileList(raw string) (map[string]string, string, error) {
	obj, err := ExtractJSON(raw)
	if err != nil {
		return nil, "", err
	}

	var payload filePayload
	if err := json.Unmarshal(obj, &payload); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(payload.Files) == 0 {
		return nil, "", fmt.Errorf("%w: response contains no files", ErrMalformed)
	}

	files := make(map[string]string, len(payload.Files))
	for _, f := range payload.Files {
		path := strings.TrimSpace(f.Path)
		if path == "" || strings.HasPrefix(path, "/") || strings.Contains(path, "..") {
			return nil, "", fmt.Errorf("%w: unsafe file path %q", ErrMalformed, f.Path)
		}
		if _, dup := files[path]; dup {
			continue
		}
		files[path] = f.Content
	}
	return files, payload.Summary, nil
}
