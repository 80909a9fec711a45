package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bpetrace/bpetrace/internal/config"
	"github.com/bpetrace/bpetrace/internal/render"
)

// readInput resolves the text to tokenize: a positional argument, a file, or
// stdin, in that order. Leading and trailing whitespace is trimmed here —
// the engine expects pre-trimmed input.
func readInput(args []string, filePath string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.TrimSpace(strings.Join(args, " ")), nil

	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil

	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return "", fmt.Errorf("no input: pass text as an argument, via --file, or on stdin")
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
}

// normalizeMaxMerges maps caller-supplied bounds onto the engine contract:
// anything non-positive means unbounded.
func normalizeMaxMerges(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// renderOptions derives chip-rendering options from config and the terminal.
func renderOptions(cfg config.GlobalConfig) render.Options {
	opt := render.Options{}

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		opt.Color = cfg.Output.Color && os.Getenv("NO_COLOR") == ""
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			opt.Width = w
		}
	}
	return opt
}
