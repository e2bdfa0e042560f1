package inference

import (
	"errors"
	"testing"
)

func TestNormalizeJSONOutput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "fenced json block",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "plain fence",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "bare object",
			in:   `{"a": 1, "b": "two"}`,
			want: `{"a":1,"b":"two"}`,
		},
		{
			name: "surrounding whitespace",
			in:   "\n  {\"x\": true}  \n",
			want: `{"x":true}`,
		},
		{
			name:    "not json",
			in:      "I cannot answer that as JSON.",
			wantErr: true,
		},
		{
			name:    "truncated object",
			in:      "```json\n{\"a\":\n```",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeJSONOutput(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				if !errors.Is(err, ErrStructuredOutput) {
					t.Fatalf("expected ErrStructuredOutput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
