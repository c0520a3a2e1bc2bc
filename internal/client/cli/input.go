package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for the x/term calls.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// lineSource yields input lines, trailing newline removed.
type lineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// asyncLines reads one line per request on a background goroutine, so a
// caller blocked on input can give up when its context ends. Nothing is
// read ahead, which keeps the terminal free for password prompts.
type asyncLines struct {
	reader *bufio.Reader
	reqs   chan chan lineResult
}

func newAsyncLines(r io.Reader) *asyncLines {
	l := &asyncLines{reader: bufio.NewReader(r), reqs: make(chan chan lineResult)}
	go l.loop()
	return l
}

func (l *asyncLines) loop() {
	for resp := range l.reqs {
		line, err := l.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && len(line) > 0 {
			err = nil
		}
		resp <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}
}

func (l *asyncLines) ReadLine(ctx context.Context) (string, error) {
	resp := make(chan lineResult, 1)
	select {
	case l.reqs <- resp:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case r := <-resp:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// GetSimpleText prints a prompt to w and reads a single line of input.
// Surrounding whitespace is trimmed.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(ctx context.Context, in lineSource, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := in.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a password without echo. When
// stdin is not a terminal the password is read as a plain line from in.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(ctx context.Context, in lineSource, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := in.ReadLine(ctx)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
