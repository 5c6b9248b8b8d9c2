package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrInvalidChoice is returned when a selection does not name a candidate.
var ErrInvalidChoice = errors.New("invalid project selection")

// Chooser selects one of several candidate project directories.
// It returns the 0-based index of the selected candidate.
type Chooser interface {
	Choose(candidates []string) (int, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(candidates []string) (int, error)

// Choose implements Chooser.
func (f ChooserFunc) Choose(candidates []string) (int, error) {
	return f(candidates)
}

// ChooseFirst always selects the first candidate.
var ChooseFirst = ChooserFunc(func(_ []string) (int, error) {
	return 0, nil
})

// PromptChooser lists candidates as a numbered list and reads the
// 1-based selection from a line of input. Empty input selects the first one.
//
// Answers are read with readline, so a terminal gets line editing. Piped
// input is read line by line and closed input selects the first candidate.
type PromptChooser struct {
	in  io.Reader
	out io.Writer
}

// NewPromptChooser creates a chooser that reads from in and prompts on out.
func NewPromptChooser(in io.Reader, out io.Writer) *PromptChooser {
	return &PromptChooser{
		in:  in,
		out: out,
	}
}

// Choose implements Chooser.
func (p *PromptChooser) Choose(candidates []string) (int, error) {
	if len(candidates) == 0 {
		return 0, ErrInvalidChoice
	}

	for i, c := range candidates {
		_, _ = fmt.Fprintf(p.out, "%d %s\n", i+1, c)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:         selectionPrompt,
		Stdin:          io.NopCloser(p.in),
		Stdout:         p.out,
		Stderr:         p.out,
		FuncIsTerminal: p.isTerminal,
	})
	if err != nil {
		return 0, fmt.Errorf("initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	line, err := rl.Readline()
	switch {
	case errors.Is(err, io.EOF):
		// Closed input keeps whatever was read, usually nothing.
	case errors.Is(err, readline.ErrInterrupt):
		return 0, fmt.Errorf("%w: selection interrupted", ErrInvalidChoice)
	case err != nil:
		return 0, fmt.Errorf("read selection: %w", err)
	}

	return parseSelection(strings.TrimSpace(line), len(candidates))
}

const selectionPrompt = "Type number of desired dbt project and press enter: "

// isTerminal reports whether the input is an interactive terminal. Any other
// reader is read without raw mode.
func (p *PromptChooser) isTerminal() bool {
	f, ok := p.in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseSelection converts a 1-based answer into an index. Empty input and 0
// both select the first candidate.
func parseSelection(answer string, n int) (int, error) {
	if answer == "" {
		return 0, nil
	}

	num, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidChoice, answer)
	}
	// 0 deliberately selects the first candidate rather than wrapping
	// around to the last one.
	if num == 0 {
		return 0, nil
	}
	if num < 1 || num > n {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidChoice, num, n)
	}
	return num - 1, nil
}
