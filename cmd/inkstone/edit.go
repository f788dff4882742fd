package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/sjson"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/inkstone/internal/config"
	"github.com/dshills/inkstone/internal/engine/doctree"
	"github.com/dshills/inkstone/internal/engine/selection"
	"github.com/dshills/inkstone/internal/host/htmldom"
	"github.com/dshills/inkstone/internal/logging"
	"github.com/dshills/inkstone/internal/markdown"
	"github.com/dshills/inkstone/internal/script"
)

// editor runs one load, edit and print cycle.
type editor struct {
	cfg    config.Config
	opts   options
	logger *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (e *editor) process(ctx context.Context) error {
	src, err := e.readInput()
	if err != nil {
		return err
	}
	tree, err := markdown.Parse(src, doctree.WithMaxLevel(e.cfg.Editor.MaxLevel))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", e.inputName(), err)
	}

	selOpts := []selection.Option{selection.WithLogger(logging.WithComponent(e.logger, "selection"))}
	if form, ok := e.cfg.Editor.Form(); ok {
		selOpts = append(selOpts, selection.WithNormalization(form))
	}
	sel := selection.New(tree, selOpts...)

	r := script.New(sel,
		script.WithOutput(e.stderr),
		script.WithLogger(logging.WithComponent(e.logger, "script")),
	)
	defer r.Close()
	if e.opts.scriptPath != "" {
		if err := r.RunFile(ctx, e.opts.scriptPath); err != nil {
			return err
		}
	}
	if e.opts.expr != "" {
		if err := r.Run(ctx, "-e", e.opts.expr); err != nil {
			return err
		}
	}
	return e.output(tree, sel)
}

func (e *editor) inputName() string {
	if e.opts.input == "" || e.opts.input == "-" {
		return "stdin"
	}
	return e.opts.input
}

func (e *editor) readInput() ([]byte, error) {
	if e.opts.input == "" || e.opts.input == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(e.opts.input)
}

func (e *editor) output(tree *doctree.Tree, sel *selection.Selection) error {
	switch e.cfg.Output.Format {
	case "html":
		doc := htmldom.Render(tree)
		sel.Apply(doc)
		if err := doc.WriteHTML(e.stdout); err != nil {
			return err
		}
		_, err := fmt.Fprintln(e.stdout)
		return err
	case "text":
		_, err := fmt.Fprintln(e.stdout, e.highlight(tree.PlainText(), sel))
		return err
	case "json":
		out, err := tree.DumpJSON()
		if err != nil {
			return err
		}
		if start, end, ok := sel.Offsets(); ok {
			if out, err = sjson.Set(out, "selection.start", start); err != nil {
				return err
			}
			if out, err = sjson.Set(out, "selection.end", end); err != nil {
				return err
			}
			if out, err = sjson.Set(out, "selection.state", sel.State().String()); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(e.stdout, out)
		return err
	default:
		_, err := e.stdout.Write(markdown.Render(tree))
		return err
	}
}

// highlight marks the selected range of text in reverse video when writing
// to a terminal. Selection offsets index the plain text rune for rune.
func (e *editor) highlight(text string, sel *selection.Selection) string {
	f, ok := e.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return text
	}
	start, end, ok := sel.Offsets()
	if !ok {
		return text
	}
	runes := []rune(text)
	start, end = min(start, len(runes)), min(end, len(runes))
	if start == end {
		return text
	}
	var sb strings.Builder
	sb.WriteString(string(runes[:start]))
	sb.WriteString("\x1b[7m")
	sb.WriteString(string(runes[start:end]))
	sb.WriteString("\x1b[27m")
	sb.WriteString(string(runes[end:]))
	return sb.String()
}
