package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cfront/internal/cctx"
	"cfront/internal/token"
)

func TestTokenizeSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	if err := os.WriteFile(path, []byte("int x;"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Tokenize(path, cctx.New(), 20)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if result.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result.Bag.Items())
	}
	if len(result.Tokens) == 0 || result.Tokens[len(result.Tokens)-1].Kind != token.EOF {
		t.Fatalf("expected tokens ending in EOF, got %+v", result.Tokens)
	}
}

func TestTokenizeDirFansOutAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.c": `int a;`,
		"b.c": `"A" "B";`,
		"c.h": `#define X 1`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var seen []string
	fileSet, results, err := TokenizeDir(context.Background(), dir, cctx.New(), 20, 2, func(path string) {
		seen = append(seen, path)
	})
	if err != nil {
		t.Fatalf("TokenizeDir() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(seen) != 3 {
		t.Fatalf("expected progress callback once per file, got %d", len(seen))
	}
	if fileSet.BaseDir() != dir {
		t.Fatalf("expected base dir %q, got %q", dir, fileSet.BaseDir())
	}
	for _, r := range results {
		if r.Bag.HasErrors() {
			t.Fatalf("unexpected errors in %s: %+v", r.Path, r.Bag.Items())
		}
	}
}

func TestTokenizeDirEmpty(t *testing.T) {
	dir := t.TempDir()
	_, results, err := TokenizeDir(context.Background(), dir, cctx.New(), 20, 0, nil)
	if err != nil {
		t.Fatalf("TokenizeDir() error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
