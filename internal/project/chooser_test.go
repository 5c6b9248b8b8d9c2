package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptChooser_Choose(t *testing.T) {
	candidates := []string{"/repo/dbt/a", "/repo/dbt/b", "/repo/dbt/c"}

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "first", input: "1\n", want: 0},
		{name: "last", input: "3\n", want: 2},
		{name: "empty line", input: "\n", want: 0},
		{name: "closed input", input: "", want: 0},
		{name: "surrounding spaces", input: "  2 \n", want: 1},
		{name: "zero falls back to first", input: "0\n", want: 0},
		{name: "out of range", input: "4\n", wantErr: true},
		{name: "negative", input: "-1\n", wantErr: true},
		{name: "not a number", input: "lakehouse\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			c := NewPromptChooser(strings.NewReader(tt.input), &out)

			got, err := c.Choose(candidates)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidChoice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1 /repo/dbt/a\n2 /repo/dbt/b\n3 /repo/dbt/c\n")
		})
	}
}

func TestPromptChooser_NoCandidates(t *testing.T) {
	c := NewPromptChooser(strings.NewReader("1\n"), &strings.Builder{})
	_, err := c.Choose(nil)
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestChooseFirst(t *testing.T) {
	idx, err := ChooseFirst.Choose([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestPromptChooser_ReadsOneLinePerChoice(t *testing.T) {
	in := strings.NewReader("2\n")
	c := NewPromptChooser(in, &strings.Builder{})

	got, err := c.Choose([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.False(t, c.isTerminal())
}

func TestParseSelection_ZeroIsFirst(t *testing.T) {
	got, err := parseSelection("0", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "0 selects the first candidate, not the last")
}
