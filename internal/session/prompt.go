package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// Prompter reads answers to interactive prompts.
// Implementations return io.EOF when input is exhausted or interrupted.
type Prompter interface {
	// Line prints label and returns the whole next line, trimmed of the
	// line terminator only.
	Line(label string) (string, error)
	// Token prints label and returns the next whitespace-separated word,
	// reading further lines as needed. Words left on the line are kept for
	// the following prompts.
	Token(label string) (string, error)
	// Secret prints label and reads a password.
	Secret(label string) (string, error)
}

// LinePrompter reads answers line by line from an io.Reader.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	// rest is the unread remainder of the last line consumed by Token.
	rest string
}

// NewLinePrompter creates a LinePrompter reading from in and printing labels to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Line implements Prompter. If a previous Token left words on its line,
// those words are the answer.
func (p *LinePrompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if rest := strings.TrimLeftFunc(p.rest, unicode.IsSpace); rest != "" {
		p.rest = ""
		return rest, nil
	}
	p.rest = ""
	return p.readLine()
}

// Token implements Prompter. Blank lines are skipped.
func (p *LinePrompter) Token(label string) (string, error) {
	fmt.Fprint(p.out, label)
	for {
		if word, rest, ok := nextWord(p.rest); ok {
			p.rest = rest
			return word, nil
		}
		line, err := p.readLine()
		if err != nil {
			p.rest = ""
			return "", err
		}
		p.rest = line
	}
}

// nextWord splits off the first whitespace-separated word of s.
func nextWord(s string) (word, rest string, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", "", false
	}
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i], s[i:], true
	}
	return s, "", true
}

// Secret implements Prompter. Input is read like a token; nothing is masked.
func (p *LinePrompter) Secret(label string) (string, error) {
	return p.Token(label)
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalPrompter masks passwords with promptui and reads everything else
// line by line.
type TerminalPrompter struct {
	*LinePrompter
}

// Secret implements Prompter with a masked prompt. A word already typed
// ahead on the previous line is used without prompting.
func (p *TerminalPrompter) Secret(label string) (string, error) {
	if word, rest, ok := nextWord(p.rest); ok {
		p.rest = rest
		return word, nil
	}
	p.rest = ""

	prompt := p.secretPrompt(label)
	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// secretPrompt reads through the shared buffered reader so that input
// already buffered for line prompts is not lost.
func (p *TerminalPrompter) secretPrompt(label string) promptui.Prompt {
	return promptui.Prompt{
		Label: strings.TrimSuffix(strings.TrimSpace(label), ":"),
		Mask:  '*',
		Stdin: io.NopCloser(p.in),
	}
}

// NewPrompter returns a TerminalPrompter when in is an interactive terminal
// and a plain LinePrompter otherwise.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	lp := NewLinePrompter(in, out)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &TerminalPrompter{LinePrompter: lp}
	}
	return lp
}
