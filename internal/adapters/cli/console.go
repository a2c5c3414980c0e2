package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console reads one trimmed line per prompt and writes line-oriented output
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	closed  bool
}

// MaxLineSize is the longest input line accepted
const MaxLineSize = 1 << 20

// NewConsole creates a console over the given streams
func NewConsole(in io.Reader, out io.Writer) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return &Console{
		scanner: scanner,
		out:     out,
	}
}

// Ask prints the prompt and returns the next line. Once input is exhausted it
// returns "" and Closed reports true.
func (c *Console) Ask(prompt string) string {
	fmt.Fprint(c.out, prompt)
	if c.closed || !c.scanner.Scan() {
		c.closed = true
		fmt.Fprintln(c.out)
		return ""
	}
	return strings.TrimSpace(c.scanner.Text())
}

// Closed reports whether input has ended
func (c *Console) Closed() bool {
	return c.closed
}

// Err returns the read error that closed the input, or nil on a clean EOF
func (c *Console) Err() error {
	return c.scanner.Err()
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Rule prints the 80-dash separator
func (c *Console) Rule() {
	fmt.Fprintln(c.out, strings.Repeat("-", 80))
}
