// Package terminal holds the small helpers behind interactive front ends:
// line prompts, screen clearing, sleeping and environment scanning.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// REPL commands understood by Prompter.Command.
const (
	CommandHelp  = "help"
	CommandExit  = "exit"
	CommandClear = "clear"
)

var commands = []string{CommandHelp, CommandExit, CommandClear}

// Prompter reads answers line by line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Stdio returns a prompter on the process's standard streams.
func Stdio() *Prompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// Question writes "label: " and returns the next line without its line
// ending. io.EOF is returned once input is exhausted.
func (p *Prompter) Question(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, LabelStyle.Render(label+": ")); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Command reports whether line is one of the REPL commands.
func Command(line string) (string, bool) {
	cmd := strings.ToLower(strings.TrimSpace(line))
	for _, c := range commands {
		if cmd == c {
			return c, true
		}
	}
	return "", false
}

// Complete returns the commands starting with prefix, or every command
// when none match.
func Complete(prefix string) []string {
	var hits []string
	for _, c := range commands {
		if strings.HasPrefix(c, prefix) {
			hits = append(hits, c)
		}
	}
	if len(hits) == 0 {
		return append([]string(nil), commands...)
	}
	return hits
}

// Help writes the command summary.
func Help(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\nAvailable commands:\n  - %s: Show this help message\n  - %s: Exit the terminal\n  - %s: Clear the terminal screen\n\n",
		CommandHelp, CommandExit, CommandClear)
	return err
}

// Clear resets the terminal screen.
func Clear(w io.Writer) error {
	_, err := io.WriteString(w, "\x1bc")
	return err
}

// Sleep pauses for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ParseEnvKeys returns the environment variables whose names start with
// prefix, sorted by name. Variables with empty values are skipped.
func ParseEnvKeys(prefix string) (keys, values []string) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" || !strings.HasPrefix(k, prefix) {
			continue
		}
		env[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values = make([]string, len(keys))
	for i, k := range keys {
		values[i] = env[k]
	}
	return keys, values
}
