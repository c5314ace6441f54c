package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompt(in io.Reader, out io.Writer) *prompt {
	return &prompt{in: bufio.NewReader(in), out: out}
}

// confirm asks a yes/no question. Anything but y or yes, including end of
// input, means no.
func (p *prompt) confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fprintln(p.out, "")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
