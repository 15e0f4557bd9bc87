package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \n\t\n ", want: ""},
		{name: "line endings", input: "Line 1\r\nLine 2\rLine 3", want: "Line 1\nLine 2\nLine 3"},
		{name: "inner spaces", input: "Line    with    spaces", want: "Line with spaces"},
		{name: "blank lines", input: "A\n\n\n\n\nB", want: "A\n\nB"},
		{name: "trailing spaces", input: "A   \nB\t", want: "A\nB"},
		{name: "keeps indentation", input: "Jobs\n    - Built APIs", want: "Jobs\n    - Built APIs"},
		{name: "keeps tabs and bullets", input: "Skills\n\t• Go | Rust", want: "Skills\n\t• Go | Rust"},
		{name: "control characters", input: "Go\x00lang\x07", want: "Golang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}
