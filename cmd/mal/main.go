package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/deosjr/mal/lisp"
)

const continuePrompt = "   "

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "log macro expansions, caught failures and file loads to stderr")
	history := fs.String("history", historyPath(), "REPL history file, empty to disable")
	prompt := fs.String("prompt", "user> ", "REPL prompt")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: mal [flags] [file [args...]]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *debug {
		lisp.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if fs.NArg() > 0 {
		l := lisp.New(lisp.WithOutput(stdout))
		return runFile(l, fs.Arg(0), fs.Args()[1:], stderr)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if *history != "" {
		if f, err := os.Open(*history); err == nil {
			_, _ = ln.ReadHistory(f)
			f.Close()
		}
	}

	l := lisp.New(lisp.WithOutput(stdout), lisp.WithLineReader(ln.Prompt))
	repl(l, ln, *prompt, stdout)

	if *history != "" {
		if f, err := os.Create(*history); err == nil {
			_, _ = ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

// historyPath is $MAL_HISTORY, falling back to ~/.mal_history.
func historyPath() string {
	if p := os.Getenv("MAL_HISTORY"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mal_history")
}

// runFile binds *ARGV* to args and loads path, reporting failure as exit code 1.
func runFile(l lisp.Lisp, path string, args []string, stderr io.Writer) int {
	l.SetArgs(args)
	if err := l.LoadFile(path); err != nil {
		fmt.Fprintln(stderr, errorLine(err))
		return 1
	}
	return 0
}

type lineEditor interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func repl(l lisp.Lisp, ln lineEditor, prompt string, out io.Writer) {
	l.Eval(`(println (str "Mal [" *host-language* "]"))`)
	for {
		src, ok := readInput(ln, prompt)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		result, err := l.Rep(src)
		if errors.Is(err, lisp.ErrEmptyInput) {
			continue
		}
		if err != nil {
			fmt.Fprintln(out, errorLine(err))
			continue
		}
		fmt.Fprintln(out, result)
	}
}

// readInput accumulates lines until they hold a complete form or a real
// parse error. Ctrl-C drops what was typed so far.
func readInput(ln lineEditor, prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = continuePrompt
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if _, err := lisp.Read(src); !lisp.IsIncomplete(err) {
			return src, true
		}
	}
}

func errorLine(err error) string {
	var pe *lisp.ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("Parse error: %s (line %d, column %d)", pe.Msg, pe.Line, pe.Col)
	}
	return "Error: " + err.Error()
}
