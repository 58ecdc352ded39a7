package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"
	"github.com/wudi/shy/engine"
	"github.com/wudi/shy/parser"
)

var replCommand = &cli.Command{
	Name:  "repl",
	Usage: "Start an interactive shell for evaluating expressions",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return runREPL(nil, cmd.Root().Writer)
	},
}

// runREPL drives an interactive read-eval-print loop over a persistent
// engine.Context, so variables assigned in one line are visible to the
// next. Grounded on cmd/hey's runInteractiveShell/needsMoreInput, with
// readline.Instance standing in for the teacher's bufio.Scanner so the
// prompt gets history and line editing, and the depth-counting
// continuation heuristic adapted to this grammar's own bracket forms
// (parens and quoted strings: single and double quotes are both
// tracked, though the lexer recognizes only double-quoted string
// literals; shy has no brace or bracket literal syntax).
func runREPL(in io.Reader, out io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "shy > ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdin:           toReadCloser(in),
		Stdout:          out,
	})
	if err != nil {
		return fmt.Errorf("starting repl: %w", err)
	}
	defer rl.Close()

	ctx := engine.NewContext()
	var held strings.Builder

	for {
		if held.Len() > 0 {
			rl.SetPrompt("... ")
		} else {
			rl.SetPrompt("shy > ")
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			held.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if held.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			return nil
		}

		held.WriteString(line)
		held.WriteByte('\n')

		if needsMoreInput(held.String()) {
			continue
		}

		source := strings.TrimSpace(held.String())
		held.Reset()
		if source == "" {
			continue
		}

		evalREPLLine(out, ctx, source)
	}
}

func evalREPLLine(out io.Writer, ctx *engine.Context, source string) {
	program, err := parser.Compile(source)
	if err != nil {
		fmt.Fprintf(out, "parse error: %v\n", err)
		return
	}

	value, err := engine.Exec(program, ctx)
	if err != nil {
		fmt.Fprintf(out, "runtime error: %v\n", err)
		return
	}
	fmt.Fprintln(out, value.Describe())
}

// needsMoreInput reports whether source has unclosed parentheses or an
// unterminated string literal, meaning the REPL should keep reading
// lines before compiling.
func needsMoreInput(source string) bool {
	openParens := 0
	inSingleQuote, inDoubleQuote := false, false
	escaped := false

	for _, ch := range source {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && (inSingleQuote || inDoubleQuote) {
			escaped = true
			continue
		}
		switch {
		case inSingleQuote:
			if ch == '\'' {
				inSingleQuote = false
			}
		case inDoubleQuote:
			if ch == '"' {
				inDoubleQuote = false
			}
		case ch == '\'':
			inSingleQuote = true
		case ch == '"':
			inDoubleQuote = true
		case ch == '(':
			openParens++
		case ch == ')':
			openParens--
		}
	}

	return openParens > 0 || inSingleQuote || inDoubleQuote
}

func toReadCloser(r io.Reader) io.ReadCloser {
	if r == nil {
		return nil
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}
