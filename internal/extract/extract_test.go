package extract_test

import (
	"testing"

	"github.com/visionhire/backend/internal/extract"
)

func TestQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "markdown emphasis stripped",
			in:   "**Tell me about yourself?**",
			want: "Tell me about yourself?",
		},
		{
			name: "surrounding quotes stripped",
			in:   `"What is a goroutine?"`,
			want: "What is a goroutine?",
		},
		{
			name: "question after preamble sentence",
			in:   "Sure. What is the difference between TCP and UDP?",
			want: "What is the difference between TCP and UDP?",
		},
		{
			name: "trailing explanation dropped",
			in:   "What is a deadlock? This tests concurrency basics.",
			want: "What is a deadlock?",
		},
		{
			name: "multiple question marks kept",
			in:   "Can you explain REST?? More detail please.",
			want: "Can you explain REST??",
		},
		{
			name: "no question mark falls back to first line",
			in:   "no question mark here",
			want: "no question mark here",
		},
		{
			name: "multiline fallback takes first line",
			in:   "Explain polymorphism\nwith an example",
			want: "Explain polymorphism",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "   \n  ",
			want: "",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := extract.Question(c.in)
			if got != c.want {
				t.Errorf("Question(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}
