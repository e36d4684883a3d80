package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Enabled indicates the prompter is interactive.
func (p *Prompter) Enabled() bool {
	return true
}

// Confirm asks the user before a sensitive or preview-required action is
// dispatched.
func (p *Prompter) Confirm(action domain.PlanAction) (bool, error) {
	switch {
	case action.Sensitive:
		fmt.Fprintf(p.out, "\n⚠️  %q is marked sensitive\n", action.Name)
	default:
		fmt.Fprintf(p.out, "\n%q requires a preview before dispatch\n", action.Name)
	}
	if action.Payload != "" {
		fmt.Fprintf(p.out, "Payload:\n  %s\n", action.Payload)
	}

	fmt.Fprint(p.out, "Dispatch? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
