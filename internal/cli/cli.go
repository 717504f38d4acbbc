// Package cli implements the settle command line client.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"SettleKaro/internal/app"
)

// Env is what a command runs against.
type Env struct {
	Workspace *app.Workspace
	Out       io.Writer
	Err       io.Writer
	Log       *slog.Logger
	// Interactive starts the terminal UI for chat without -m.
	Interactive func(ctx context.Context, w *app.Workspace, title string) error
}

type command struct {
	usage string
	run   func(ctx context.Context, env Env, args []string) error
}

var commands = map[string]command{
	"list":    {usage: "list [-json]", run: runList},
	"show":    {usage: "show [-json] <id>", run: runShow},
	"submit":  {usage: "submit -f draft.yaml | -title T -description D [-category C] [-amount N] [-plaintiff P] [-defendant D] [-evidence path]...", run: runSubmit},
	"status":  {usage: "status <id> <submitted|under_review|resolved>", run: runStatus},
	"resolve": {usage: "resolve <id>", run: runResolve},
	"mediate": {usage: "mediate <id>", run: runMediate},
	"chat":    {usage: "chat [-history] [-m message] <id>", run: runChat},
	"report":  {usage: "report <id>", run: runReport},
	"export":  {usage: "export", run: runExport},
	"stats":   {usage: "stats", run: runStats},
	"health":  {usage: "health", run: runHealth},
}

// ErrUsage marks invalid invocations; the caller prints usage.
var ErrUsage = errors.New("usage")

// Run dispatches args[0] and returns the process exit code.
func Run(ctx context.Context, env Env, args []string) int {
	if len(args) == 0 {
		printUsage(env.Err)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(env.Err, "unknown command %q\n", args[0])
		printUsage(env.Err)
		return 2
	}

	err := cmd.run(ctx, env, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage), errors.Is(err, flag.ErrHelp):
		fmt.Fprintf(env.Err, "usage: settle %s\n", cmd.usage)
		return 2
	default:
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: settle <command> [flags]")
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func newFlagSet(name string, env Env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.Err)
	return fs
}

// positional parses fs and requires exactly n positional arguments.
func positional(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != n {
		return nil, ErrUsage
	}
	return fs.Args(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(strings.TrimSpace(s), "\n", "\n"+prefix)
}
