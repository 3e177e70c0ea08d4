package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/wordstream/pkg/cache"
	"github.com/matzehuels/wordstream/pkg/errors"
	"github.com/matzehuels/wordstream/pkg/session"
)

// isolate points every user directory and config source at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("WORDSTREAM_CONFIG", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, want := range []string{"cache", "cloud", "completion", "schema", "serve", "stream"} {
		found := false
		for _, name := range got {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("RootCommand() missing %q, have %v", want, got)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{" SVG , json,", []string{"svg", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "", "wordcloud"},
		{"", "-", "wordcloud"},
		{"", "data/speech.txt", "speech"},
		{"out/cloud.svg", "", "out/cloud"},
		{"out/cloud.PNG", "", "out/cloud"},
		{"out/cloud.v2", "", "out/cloud.v2"},
		{"out/cloud", "speech.txt", "out/cloud"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input, "wordcloud"); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := outputPaths("chart.out", "", "streamgraph", []string{"svg"})
	if got["svg"] != "chart.out" {
		t.Errorf("single format path = %q, want %q", got["svg"], "chart.out")
	}

	got = outputPaths("out/chart.svg", "", "streamgraph", []string{"svg", "json"})
	want := map[string]string{"svg": "out/chart.svg", "json": "out/chart.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("outputPaths() = %v, want %v", got, want)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	t.Run("files", func(t *testing.T) {
		formats := []string{"svg", "json"}
		paths := outputPaths(filepath.Join(dir, "nested", "x"), "", "", formats)
		written, err := writeArtifacts(io.Discard, artifacts, formats, paths)
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		if len(written) != 2 {
			t.Fatalf("written = %v, want 2 paths", written)
		}
		data, err := os.ReadFile(filepath.Join(dir, "nested", "x.svg"))
		if err != nil || string(data) != "<svg/>" {
			t.Errorf("x.svg = %q, %v", data, err)
		}
	})

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		written, err := writeArtifacts(&buf, artifacts, []string{"json"}, map[string]string{"json": "-"})
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		if len(written) != 0 || buf.String() != "{}" {
			t.Errorf("written = %v, stdout = %q", written, buf.String())
		}
	})

	t.Run("multiple to stdout", func(t *testing.T) {
		formats := []string{"svg", "json"}
		_, err := writeArtifacts(io.Discard, artifacts, formats, outputPaths("-", "", "", formats))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("writeArtifacts() error = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		_, err := writeArtifacts(io.Discard, artifacts, []string{"png"}, map[string]string{"png": filepath.Join(dir, "y.png")})
		if err == nil {
			t.Error("writeArtifacts() expected error for missing artifact")
		}
	})
}

func TestReadText(t *testing.T) {
	file := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(file, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		file    string
		want    string
		wantErr errors.Code
	}{
		{"args", []string{"a", "b"}, "", "a b", ""},
		{"stdin", nil, "", "from stdin", ""},
		{"stdin dash", nil, "-", "from stdin", ""},
		{"file", nil, file, "from file", ""},
		{"missing file", nil, file + ".nope", "", errors.ErrCodeFileNotFound},
		{"args and file", []string{"a"}, file, "", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readText(strings.NewReader("from stdin"), tt.args, tt.file)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("readText() error = %v, want %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readText() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("readText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseColors(t *testing.T) {
	got, err := parseColors(map[string]string{"A": "#111111", "B": "#222222"}, []string{"B=#333333", "C=#444444"})
	if err != nil {
		t.Fatalf("parseColors() error: %v", err)
	}
	want := map[string]string{"A": "#111111", "B": "#333333", "C": "#444444"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseColors() = %v, want %v", got, want)
	}

	if got, _ := parseColors(nil, nil); got != nil {
		t.Errorf("parseColors(nil, nil) = %v, want nil", got)
	}
	if _, err := parseColors(nil, []string{"nohex"}); err == nil {
		t.Error("parseColors() expected error for missing '='")
	}
}

func TestCloudCommandSession(t *testing.T) {
	dir := isolate(t)
	sessions := filepath.Join(dir, "sessions")
	out := filepath.Join(dir, "cloud.svg")

	passes := []string{"dog cat dog", "dog cat dog bird bird bird"}
	for _, text := range passes {
		stdout, err := execute(t, "", "cloud", text, "--no-cache", "-o", out,
			"--session", "demo", "--session-dir", sessions)
		if err != nil {
			t.Fatalf("cloud %q error: %v", text, err)
		}
		if !strings.Contains(stdout, out) {
			t.Errorf("stdout = %q, want written path", stdout)
		}
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("output is not an SVG: %.80s", data)
	}
	if !bytes.Contains(data, []byte("@font-face")) {
		t.Error("default SVG does not embed the font")
	}

	store, err := session.NewFileStore(sessions)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := store.Get(context.Background(), "demo")
	if err != nil || sess == nil {
		t.Fatalf("Get(demo) = %v, %v", sess, err)
	}
	if sess.Passes != 2 {
		t.Errorf("Passes = %d, want 2", sess.Passes)
	}
	if !sess.Labels.Has("bird") {
		t.Errorf("committed labels %v missing bird", sess.Labels.Tokens())
	}

	if _, err := execute(t, "", "cloud", "x", "--no-cache", "-o", out,
		"--session", "demo", "--session-dir", sessions, "--reset"); err != nil {
		t.Fatalf("cloud --reset error: %v", err)
	}
	sess, _ = store.Get(context.Background(), "demo")
	if sess == nil || sess.Passes != 1 {
		t.Errorf("after --reset session = %+v, want one pass", sess)
	}
}

func TestCloudCommandStdin(t *testing.T) {
	isolate(t)
	stdout, err := execute(t, "the quick fox and the lazy fox", "cloud", "--no-cache", "--format", "json", "-o", "-")
	if err != nil {
		t.Fatalf("cloud error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(stdout), "{") || !strings.Contains(stdout, "fox") {
		t.Errorf("stdout = %.120s, want JSON document with fox", stdout)
	}
}

func TestCloudCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"bad session name", []string{"cloud", "a b", "--no-cache", "-o", "-", "--session", "../etc"}, errors.ErrCodeInvalidSession},
		{"bad format", []string{"cloud", "a b", "--no-cache", "--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad top-n", []string{"cloud", "a b", "--no-cache", "--top-n=-2"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestStreamCommand(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "usage.csv")
	csv := "Date,A,B,C\n2024-01-01,1,2,3\n2024-02-01,2,3,1\n2024-03-01,4,1,2\n"
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	base := filepath.Join(dir, "out", "chart")
	stdout, err := execute(t, "", "stream", input, "--no-cache", "--interactive",
		"--format", "svg,json", "-o", base, "--color", "A=#ff0000")
	if err != nil {
		t.Fatalf("stream error: %v", err)
	}
	for _, ext := range []string{".svg", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", base+ext, err)
		}
		if !strings.Contains(stdout, base+ext) {
			t.Errorf("stdout does not list %s", base+ext)
		}
	}

	if _, err := execute(t, "", "stream", filepath.Join(dir, "missing.csv")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing input error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := execute(t, "", "stream", input, "--no-cache", "--color", "A=red"); !errors.Is(err, errors.ErrCodeInvalidColor) {
		t.Errorf("bad color error = %v, want INVALID_COLOR", err)
	}
}

func TestSchemaCommand(t *testing.T) {
	isolate(t)
	tests := []struct {
		target string
		want   string
	}{
		{"cloud", `"session_id"`},
		{"stream", `"records"`},
		{"config", `"session_ttl"`},
		{"session", `"passes"`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			out, err := execute(t, "", "schema", tt.target)
			if err != nil {
				t.Fatalf("schema %s error: %v", tt.target, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("schema %s missing %s", tt.target, tt.want)
			}
		})
	}
	if _, err := execute(t, "", "schema", "bogus"); err == nil {
		t.Error("schema bogus expected error")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	cacheDir := filepath.Join(dir, "artifacts")
	t.Setenv("WORDSTREAM_CACHE_DIR", cacheDir)

	out, err := execute(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), cacheDir)
	}

	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "k", []byte("v"), cache.LayoutTTL); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "wordstream") {
		t.Error("bash completion does not mention wordstream")
	}
}
