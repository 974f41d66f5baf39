// Package confirm is the interactive confirmation channel. Destructive
// operations ask exactly once; any non-affirmative response aborts with no
// side effects, and there is no retry loop.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Confirmer presents a yes/no prompt and returns the response
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Always approves every prompt; backs the --yes flag
type Always struct{}

// Confirm always returns true
func (Always) Confirm(string) (bool, error) { return true, nil }

// ScriptedConfirmer replays canned answers, for automated testing
type ScriptedConfirmer struct {
	answers []bool
	next    int

	// Prompts records every prompt presented, in order
	Prompts []string
}

// Scripted creates a confirmer that answers prompts from a fixed list.
// Running out of answers declines.
func Scripted(answers ...bool) *ScriptedConfirmer {
	return &ScriptedConfirmer{answers: answers}
}

// Confirm returns the next scripted answer
func (s *ScriptedConfirmer) Confirm(prompt string) (bool, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.next >= len(s.answers) {
		return false, nil
	}
	answer := s.answers[s.next]
	s.next++
	return answer, nil
}

// Console prompts on the terminal. On a TTY it uses pterm's interactive
// confirm; otherwise it reads one line from In (default stdin) so piped
// input works.
type Console struct {
	In  io.Reader
	Out io.Writer
}

// NewConsole creates a console confirmer on stdin/stderr
func NewConsole() *Console {
	return &Console{In: os.Stdin, Out: os.Stderr}
}

// Confirm presents the prompt once and returns the response. Only "y" and
// "yes" (case-insensitive) are affirmative.
func (c *Console) Confirm(prompt string) (bool, error) {
	if f, ok := c.In.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return pterm.DefaultInteractiveConfirm.
			WithDefaultValue(false).
			Show(prompt)
	}

	fmt.Fprintf(c.Out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		// EOF with no input counts as a decline
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
