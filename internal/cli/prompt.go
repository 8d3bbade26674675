package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// errInputClosed is returned when stdin ends before an answer was given.
var errInputClosed = errors.New("input closed")

// prompter reads one answer per line from a command's input.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
}

// Ask writes question and returns the trimmed reply.
func (p *prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *prompter) Confirm(question string) (bool, error) {
	reply, err := p.Ask(question + " [y/N]: ")
	if errors.Is(err, errInputClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(reply) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
