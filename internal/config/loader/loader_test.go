package loader

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"/a.toml", "toml", false},
		{"/a.TOML", "toml", false},
		{"/a.yaml", "yaml", false},
		{"/a.yml", "yaml", false},
		{"/a.json", "", true},
		{"/a", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(NewMemFS(), tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForPath: %v", err)
			}
			var got string
			switch l.(type) {
			case *TOMLLoader:
				got = "toml"
			case *YAMLLoader:
				got = "yaml"
			}
			if got != tt.want {
				t.Errorf("loader = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[logging]
level = "debug"

[editor]
maxLevel = 4
`)
	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := Get(config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v", v)
	}
	if v, _ := Get(config, "editor.maxLevel"); v != int64(4) {
		t.Errorf("editor.maxLevel = %v (%T), want 4", v, v)
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", "logging:\n  format: console\neditor:\n  maxLevel: 3\n")
	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := Get(config, "logging.format"); v != "console" {
		t.Errorf("logging.format = %v", v)
	}
	if v, _ := Get(config, "editor.maxLevel"); v != 3 {
		t.Errorf("editor.maxLevel = %v (%T), want 3", v, v)
	}
}

func TestLoadMissingFile(t *testing.T) {
	for _, l := range []Loader{
		NewTOMLLoaderWithFS(NewMemFS(), "/none.toml"),
		NewYAMLLoaderWithFS(NewMemFS(), "/none.yaml"),
	} {
		config, err := l.Load()
		if err != nil || config != nil {
			t.Errorf("%T: expected nil, nil; got %v, %v", l, config, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		parse    func(string, []byte) (map[string]any, error)
		data     string
		wantLine int
	}{
		{"toml", ParseTOML, "[logging]\nlevel = \n", 2},
		{"yaml", ParseYAML, "logging:\n  level: a: b\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse("/broken", []byte(tt.data))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Path != "/broken" {
				t.Errorf("Path = %q", perr.Path)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d (%v)", perr.Line, tt.wantLine, err)
			}
			if perr.Unwrap() == nil {
				t.Error("expected wrapped cause")
			}
		})
	}
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst, src map[string]any
		want     map[string]any
	}{
		{
			name: "nil dst",
			src:  map[string]any{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "nested",
			dst:  map[string]any{"logging": map[string]any{"level": "info", "format": "json"}},
			src:  map[string]any{"logging": map[string]any{"level": "debug"}},
			want: map[string]any{"logging": map[string]any{"level": "debug", "format": "json"}},
		},
		{
			name: "scalar replaces map",
			dst:  map[string]any{"a": map[string]any{"b": 1}},
			src:  map[string]any{"a": 2},
			want: map[string]any{"a": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DeepMerge(tt.dst, tt.src)); diff != "" {
				t.Errorf("DeepMerge mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	data := map[string]any{}
	Set(data, "a.b.c", 1)
	Set(data, "a.d", "x")
	if v, ok := Get(data, "a.b.c"); !ok || v != 1 {
		t.Errorf("a.b.c = %v, %v", v, ok)
	}
	if _, ok := Get(data, "a.b.missing"); ok {
		t.Error("expected missing path")
	}
	if _, ok := Get(data, "a.d.e"); ok {
		t.Error("expected path through scalar to fail")
	}
}
