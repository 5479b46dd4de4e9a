package sanitizer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amankumarsingh77/wordfreq/internal/logging"
	"golang.org/x/text/encoding"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"digits", "Chapter 12", "chapter   "},
		{"mixed", "In 1851, ISHMAEL\n", "in     , ishmael\n"},
		{"whitespace kept", "A\t\tB  C\r\n", "a\t\tb  c\r\n"},
		{"unicode", "ÉTÉ Ⅻ ٣", "été ⅻ  "},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Transform(&buf, strings.NewReader(tt.in)); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("Transform(%q) = %q, want %q", tt.in, buf.String(), tt.want)
			}
		})
	}
}

func TestTransformRejectsInvalidUTF8(t *testing.T) {
	for _, in := range []string{"Caf\xe9 N\xba1\n", "Caf\xe9", "ok\xc3"} {
		var buf bytes.Buffer
		err := Transform(&buf, strings.NewReader(in))
		if !errors.Is(err, encoding.ErrInvalidUTF8) {
			t.Errorf("Transform(%q) error = %v, want ErrInvalidUTF8", in, err)
		}
		if strings.ContainsRune(buf.String(), '\uFFFD') {
			t.Errorf("Transform(%q) wrote replacement characters: %q", in, buf.String())
		}
	}
}

func TestProcessFileInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "latin1.txt"), filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("Caf\xe9 au lait\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := New(logging.Discard()).ProcessFile(in, out); !errors.Is(err, encoding.ErrInvalidUTF8) {
		t.Fatalf("ProcessFile() error = %v, want ErrInvalidUTF8", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output left behind after failure: %v", err)
	}
}

func TestTransformLargeInput(t *testing.T) {
	line := strings.Repeat("Abc1", 50000) + "\n"
	var buf bytes.Buffer
	if err := Transform(&buf, strings.NewReader(strings.Repeat(line, 20))); err != nil {
		t.Fatal(err)
	}
	want := strings.Repeat(strings.Repeat("abc ", 50000)+"\n", 20)
	if buf.String() != want {
		t.Fatal("large input not transformed correctly")
	}
}

func TestCopyStructureAndProcess(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "novels")
	out := filepath.Join(root, "processed", "novels")
	files := map[string]string{
		"moby.txt":             "Call me Ishmael. 1851\n",
		"austen/pride.txt":     "It is a TRUTH 2 universally\n",
		"austen/extra/emma.md": "EMMA 3\n",
	}
	for name, body := range files {
		path := filepath.Join(in, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(in, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	s := New(logging.Discard())
	if err := s.CopyStructureAndProcess(context.Background(), in, out); err != nil {
		t.Fatalf("CopyStructureAndProcess() error = %v", err)
	}

	want := map[string]string{
		"moby.txt":             "call me ishmael.     \n",
		"austen/pride.txt":     "it is a truth   universally\n",
		"austen/extra/emma.md": "emma  \n",
	}
	for name, body := range want {
		got, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
		if string(got) != body {
			t.Errorf("%s = %q, want %q", name, got, body)
		}
	}
	if info, err := os.Stat(filepath.Join(out, "empty")); err != nil || !info.IsDir() {
		t.Errorf("empty directory not mirrored: %v", err)
	}
}

func TestCopyStructureOutputInsideInput(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "a.txt"), []byte("A1"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(in, "out")
	if err := New(logging.Discard()).CopyStructureAndProcess(context.Background(), in, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "out")); !os.IsNotExist(err) {
		t.Fatalf("output tree was copied into itself: %v", err)
	}
	got, _ := os.ReadFile(filepath.Join(out, "a.txt"))
	if string(got) != "a " {
		t.Fatalf("a.txt = %q", got)
	}
}

func TestCopyStructureErrors(t *testing.T) {
	s := New(logging.Discard())
	if err := s.CopyStructureAndProcess(context.Background(), filepath.Join(t.TempDir(), "none"), t.TempDir()); err == nil {
		t.Error("expected error for missing input dir")
	}

	in := t.TempDir()
	os.WriteFile(filepath.Join(in, "a.txt"), []byte("x"), 0644)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.CopyStructureAndProcess(ctx, in, t.TempDir()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
