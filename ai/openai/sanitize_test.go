package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean object untouched",
			in:   `{"summary":"s","topics":["a","b","c"]}`,
			want: `{"summary":"s","topics":["a","b","c"]}`,
		},
		{
			name: "json code fence",
			in:   "```json\n{\"summary\":\"s\"}\n```",
			want: `{"summary":"s"}`,
		},
		{
			name: "bare code fence",
			in:   "```\n{\"summary\":\"s\"}\n```",
			want: `{"summary":"s"}`,
		},
		{
			name: "preamble and epilogue stripped",
			in:   "Here is the JSON:\n{\"summary\":\"s\"}\nHope that helps!",
			want: `{"summary":"s"}`,
		},
		{
			name: "trailing comma in object",
			in:   `{"summary":"s","topics":["a","b","c"],}`,
			want: `{"summary":"s","topics":["a","b","c"]}`,
		},
		{
			name: "trailing comma in array",
			in:   `{"topics":["a","b","c",]}`,
			want: `{"topics":["a","b","c"]}`,
		},
		{
			name: "trailing comma before newline",
			in:   "{\"topics\": [\"a\",\n]}",
			want: "{\"topics\": [\"a\"\n]}",
		},
		{
			name: "comma inside string preserved",
			in:   `{"summary":"first, second, third"}`,
			want: `{"summary":"first, second, third"}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"summary":"a \"quoted,\" word"}`,
			want: `{"summary":"a \"quoted,\" word"}`,
		},
		{
			name: "no braces passes through",
			in:   "not json at all",
			want: "not json at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeJSON(tt.in))
		})
	}
}

func TestSanitizeJSON_ResultParses(t *testing.T) {
	messy := "```json\n{\n  \"summary\": \"A summary, with commas.\",\n  \"topics\": [\"a\", \"b\", \"c\",],\n}\n```"

	var out struct {
		Summary string   `json:"summary"`
		Topics  []string `json:"topics"`
	}
	require.NoError(t, json.Unmarshal([]byte(sanitizeJSON(messy)), &out))
	assert.Equal(t, "A summary, with commas.", out.Summary)
	assert.Equal(t, []string{"a", "b", "c"}, out.Topics)
}
