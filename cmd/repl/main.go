// REPL binary for interactively building and executing queries.
//
// Configuration (env vars):
//
//	GOQUEL_DIALECT=postgres|mysql|sqlite  (optional, default postgres)
//	DATABASE_URL=<dsn>                    (optional, auto-connects if set)
//
// Usage:
//
//	go run ./cmd/repl
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
)

func main() {
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "goquel> ",
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	sess := NewSession(loadDialect(), os.Stdout)

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		fmt.Println("[config] connecting via DATABASE_URL...")
		if err := sess.Execute("connect " + dsn); err != nil {
			fmt.Fprintf(os.Stderr, "  warning: DATABASE_URL connect failed: %v\n", err)
		}
	}

	fmt.Println("goquel REPL - type 'help' for commands, 'exit' to quit")
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) || err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
		}
	}
	sess.Close()
	fmt.Println()
}

func loadDialect() string {
	d := strings.TrimSpace(strings.ToLower(os.Getenv("GOQUEL_DIALECT")))
	switch d {
	case "", "postgres", "mysql", "sqlite":
	default:
		fmt.Fprintf(os.Stderr, "warning: invalid GOQUEL_DIALECT=%q, defaulting to postgres\n", d)
		d = ""
	}
	if d == "" {
		return "postgres"
	}
	fmt.Printf("[config] dialect: %s (from GOQUEL_DIALECT)\n", d)
	return d
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".goquel_history")
}
