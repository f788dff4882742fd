// Package main is the inkstone command: it loads a Markdown document, runs
// Lua edit scripts against a selection over it and prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/inkstone/internal/config"
	"github.com/dshills/inkstone/internal/logging"
	"github.com/dshills/inkstone/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath  string
	scriptPath  string
	expr        string
	format      string
	logLevel    string
	watch       bool
	showVersion bool
	input       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "inkstone %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})
	defer func() { _ = logger.Sync() }()

	e := &editor{cfg: cfg, opts: opts, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := e.process(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if !opts.watch {
			return 1
		}
	}
	if !opts.watch {
		return 0
	}
	if err := e.watch(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("inkstone", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.scriptPath, "script", "", "Lua edit script to run")
	fs.StringVar(&opts.scriptPath, "s", "", "Lua edit script to run (shorthand)")
	fs.StringVar(&opts.expr, "e", "", "Lua code to run after the script")
	fs.StringVar(&opts.format, "format", "", "Output format (markdown, html, text, json)")
	fs.StringVar(&opts.format, "f", "", "Output format (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run when the document or script changes")
	fs.BoolVar(&opts.watch, "w", false, "Re-run on change (shorthand)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "inkstone - scriptable rich-text selection engine\n\n")
		fmt.Fprintf(stderr, "Usage: inkstone [options] [file.md]\n\n")
		fmt.Fprintf(stderr, "Reads Markdown from file.md or stdin.\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  inkstone -e 'sel.select(0, 5) sel.toggle(\"bold\")' notes.md\n")
		fmt.Fprintf(stderr, "  inkstone -s edit.lua -f html -w notes.md\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		opts.input = rest[0]
	default:
		fmt.Fprintf(stderr, "Error: expected at most one input file, got %d\n", len(rest))
		return opts, errors.New("too many arguments")
	}
	if opts.watch && (opts.input == "" || opts.input == "-") {
		fmt.Fprintln(stderr, "Error: -watch needs an input file")
		return opts, errors.New("watch without file")
	}
	return opts, nil
}

// watch re-runs process whenever the input or script file changes.
func (e *editor) watch(ctx context.Context) error {
	w, err := watcher.New(watcher.WithLogger(logging.WithComponent(e.logger, "watcher")))
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range []string{e.opts.input, e.opts.scriptPath} {
		if p == "" {
			continue
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}
	e.logger.Info("watching for changes", zap.Strings("files", w.Files()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op.Has(watcher.OpRemove) {
				e.logger.Warn("watched file removed", zap.String("path", ev.Path))
				continue
			}
			e.logger.Info("change detected", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
			if err := e.process(ctx); err != nil {
				fmt.Fprintf(e.stderr, "Error: %v\n", err)
			}
		case err, ok := <-w.Errors():
			if ok {
				e.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}
}
