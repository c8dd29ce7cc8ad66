package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned once the input has no more lines.
var ErrInputClosed = errors.New("input closed")

// Prompter reads answers line by line and writes prompts to out.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask shows label and reads lines until valid accepts one, printing errMsg
// after every rejected answer. The accepted line is returned trimmed.
func (p *Prompter) Ask(label, errMsg string, valid func(string) bool) (string, error) {
	for {
		fmt.Fprint(p.out, label)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read input: %w", err)
			}
			return "", ErrInputClosed
		}
		answer := strings.TrimSpace(p.in.Text())
		if valid == nil || valid(answer) {
			return answer, nil
		}
		fmt.Fprintln(p.out, errMsg)
	}
}

func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}
