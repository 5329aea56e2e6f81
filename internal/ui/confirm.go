package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter asks the operator yes/no questions. Interactive prompters render
// a form; non-interactive ones read a single line from In, which keeps piped
// input (`echo yes | sonarup apply`) working.
type Prompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

// NewPrompter builds a prompter on the process's stdin/stdout, detecting
// whether a terminal is attached.
func NewPrompter() *Prompter {
	return &Prompter{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// Confirm asks the question and returns the operator's decision. Only an
// explicit yes answer returns true; anything else, including EOF, declines.
func (p *Prompter) Confirm(question string) (bool, error) {
	if p.Interactive {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return false, fmt.Errorf("confirmation prompt failed: %w", err)
		}
		return confirmed, nil
	}

	fmt.Fprintf(p.Out, "%s [yes/no]: ", question)
	scanner := bufio.NewScanner(p.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "yes", "y":
		return true, nil
	case "no", "n", "":
		return false, nil
	default:
		fmt.Fprintln(p.Out, "Answer not understood, treating as no.")
		return false, nil
	}
}
