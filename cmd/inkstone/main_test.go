package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

// invoke runs the command with stdin and returns the exit code and both
// output streams.
func invoke(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunMarkdown(t *testing.T) {
	code, out, errOut := invoke(t, "hello world\n", "-e", `sel.select(0, 5) sel.toggle("bold")`)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "**hello** world\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunTextFromFile(t *testing.T) {
	path := writeFile(t, "doc.md", "one\n\ntwo\n")
	code, out, errOut := invoke(t, "", "-f", "text", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "one\ntwo\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunScriptFile(t *testing.T) {
	script := writeFile(t, "edit.lua", `
		sel.cursor(3)
		sel.newline()
		sel.insert("x")
	`)
	code, out, errOut := invoke(t, "abcdef", "-s", script, "-f", "text")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "abc\nxdef\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunJSON(t *testing.T) {
	code, out, errOut := invoke(t, "hello", "-f", "json", "-e", `sel.select(1, 3)`)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !gjson.Valid(out) {
		t.Fatalf("invalid JSON %q", out)
	}
	for path, want := range map[string]string{
		"kind":                       "document",
		"children.0.kind":            "paragraph",
		"children.0.children.0.text": "hello",
		"selection.start":            "1",
		"selection.end":              "3",
		"selection.state":            "single-leaf",
	} {
		if got := gjson.Get(out, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestRunHTML(t *testing.T) {
	code, out, errOut := invoke(t, "some *text*", "-f", "html")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{`class="inkstone"`, "<p ", `class="italic"`, ">text</span>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunHTMLRange(t *testing.T) {
	code, out, errOut := invoke(t, "hello", "-f", "html", "-e", `sel.select(1, 3)`)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{`data-range-start-offset="1"`, `data-range-end-offset="3"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunConfigFile(t *testing.T) {
	cfg := writeFile(t, "inkstone.toml", "[output]\nformat = \"text\"\n")
	code, out, errOut := invoke(t, "- a\n- b\n", "-c", cfg)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if out != "a\nb\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		code    int
		wantErr string
	}{
		{"bad flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"too many files", []string{"a.md", "b.md"}, 2, "at most one input file"},
		{"watch stdin", []string{"-w"}, 2, "-watch needs an input file"},
		{"bad format", []string{"-f", "pdf"}, 1, "output.format"},
		{"script error", []string{"-e", `sel.format("sparkly")`}, 1, "script error"},
		{"missing input", []string{filepath.Join(t.TempDir(), "none.md")}, 1, "no such file"},
		{"bad config", []string{"-c", "settings.ini"}, 1, "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := invoke(t, "text", tt.args...)
			if code != tt.code {
				t.Errorf("exit = %d, want %d", code, tt.code)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, errOut)
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	code, out, _ := invoke(t, "", "-version")
	if code != 0 || !strings.HasPrefix(out, "inkstone dev\n") {
		t.Errorf("exit %d, output %q", code, out)
	}
}
