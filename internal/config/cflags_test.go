package config

import (
	"os"
	"path/filepath"
	"testing"

	"cfront/internal/cctx"
	"cfront/internal/token"
)

const sampleToml = `
[standard]
lang = "c17"
gnu_extensions = true
pedantic = false

[diagnostics]
color = "on"
max_errors = 50
warnings_as_errors = true

[target]
wchar_bits = 16
`

func TestLoadAndToContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cflags.toml")
	if err := os.WriteFile(path, []byte(sampleToml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Standard.Lang != "c17" || !cfg.Standard.GNUExtensions {
		t.Fatalf("unexpected standard section: %+v", cfg.Standard)
	}
	if cfg.Target.WcharBits != 16 {
		t.Fatalf("unexpected wchar_bits: %d", cfg.Target.WcharBits)
	}

	ctx, err := cfg.ToContext()
	if err != nil {
		t.Fatalf("ToContext() error: %v", err)
	}
	if ctx.LangStd() != token.StdC17 {
		t.Fatalf("expected StdC17, got %v", ctx.LangStd())
	}
	if !ctx.GNUExtensions() {
		t.Fatal("expected GNU extensions enabled")
	}
	if ctx.WcharBits() != 16 {
		t.Fatalf("expected wchar_bits 16, got %d", ctx.WcharBits())
	}
	if !ctx.WarningsAsErrors() {
		t.Fatal("expected warnings_as_errors true")
	}
	if ctx.ColorMode() != cctx.ColorAlways {
		t.Fatalf("expected ColorAlways, got %v", ctx.ColorMode())
	}
}

func TestDefaultMatchesCctxNew(t *testing.T) {
	cfg := Default()
	ctx, err := cfg.ToContext()
	if err != nil {
		t.Fatalf("ToContext() error: %v", err)
	}
	want := cctx.New()
	if ctx.LangStd() != want.LangStd() || ctx.WcharBits() != want.WcharBits() || ctx.MaxErrors() != want.MaxErrors() {
		t.Fatalf("Default() context diverges from cctx.New(): %+v vs %+v", ctx, want)
	}
}

func TestLoadRejectsUnknownStandard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cflags.toml")
	if err := os.WriteFile(path, []byte("[standard]\nlang = \"c99plusplus\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, err := cfg.ToContext(); err == nil {
		t.Fatal("expected ToContext() to reject an unknown standard")
	}
}
