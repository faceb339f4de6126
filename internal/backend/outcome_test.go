package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    string
	}{
		{
			name: "clean object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "prose around object",
			raw:  "Sure! Here is the result:\n{\"a\":1}\nHope that helps.",
			want: `{"a":1}`,
		},
		{
			name:    "no json at all",
			raw:     "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "broken braces",
			raw:     `{"a": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestParseFileList(t *testing.T) {
	raw := `{"files":[{"path":"main.py","content":"print(1)"},{"path":"tests/test_main.py","content":"def test(): pass"}],"summary":"two files"}`

	files, summary, err := ParseFileList(raw)
	require.NoError(t, err)
	assert.Equal(t, "two files", summary)
	assert.Equal(t, "print(1)", files["main.py"])
	assert.Len(t, files, 2)
}

func TestParseFileList_Malformed(t *testing.T) {
	for _, raw := range []string{
		"not json",
		`{"files":[]}`,
		`{"files":[{"path":"/etc/passwd","content":"x"}]}`,
		`{"files":[{"path":"../escape.py","content":"x"}]}`,
	} {
		_, _, err := ParseFileList(raw)
		assert.ErrorIs(t, err, ErrMalformed, "raw=%q", raw)
	}
}

func TestParseFileList_DuplicateKeepsFirst(t *testing.T) {
	raw := `{"files":[{"path":"a.py","content":"first"},{"path":"a.py","content":"second"}]}`
	files, _, err := ParseFileList(raw)
	require.NoError(t, err)
	assert.Equal(t, "first", files["a.py"])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))
	assert.ErrorIs(t, Classify(context.DeadlineExceeded), ErrTimeout)
	assert.ErrorIs(t, Classify(context.Canceled), ErrTimeout)
	assert.ErrorIs(t, Classify(errors.New("connection refused")), ErrUnavailable)

	// Already-classified errors pass through.
	wrapped := Classify(ErrMalformed)
	assert.ErrorIs(t, wrapped, ErrMalformed)
	assert.NotErrorIs(t, wrapped, ErrUnavailable)
}

func TestOutcomeConstructors(t *testing.T) {
	ok := Succeeded(map[string]string{"a": "b"}, "")
	assert.Equal(t, KindSuccess, ok.Kind)

	fb := FellBack(map[string]string{"a": "b"}, "", "backend returned garbage")
	assert.Equal(t, KindFallback, fb.Kind)
	assert.Equal(t, "backend returned garbage", fb.Reason)

	fail := Failed(ErrUnavailable)
	assert.Equal(t, KindFailure, fail.Kind)
	assert.ErrorIs(t, fail.Err, ErrUnavailable)
}
