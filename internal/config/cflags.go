// Package config loads the CLI-layer cflags.toml (§6.1) the same way the
// teacher loads surge.toml project manifests
// (cmd/surge/project_manifest.go): github.com/BurntSushi/toml decodes into
// a typed struct, and meta.IsDefined distinguishes an absent field from a
// zero value. The lexer's own Go API never reads a config file itself —
// it only ever consumes an already-built *cctx.Context.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"cfront/internal/cctx"
	"cfront/internal/token"
)

// Cflags mirrors the [standard]/[diagnostics]/[target] sections of
// cflags.toml verbatim (§6.1).
type Cflags struct {
	Standard    standardSection    `toml:"standard"`
	Diagnostics diagnosticsSection `toml:"diagnostics"`
	Target      targetSection      `toml:"target"`
}

type standardSection struct {
	Lang           string `toml:"lang"`
	GNUExtensions  bool   `toml:"gnu_extensions"`
	YeccExtensions bool   `toml:"yecc_extensions"`
	Pedantic       bool   `toml:"pedantic"`
	Trigraphs      bool   `toml:"trigraphs"`
}

type diagnosticsSection struct {
	Color            string `toml:"color"`
	MaxErrors        int    `toml:"max_errors"`
	WarningsAsErrors bool   `toml:"warnings_as_errors"`
}

type targetSection struct {
	WcharBits int `toml:"wchar_bits"`
}

// Default returns the TOML-schema defaults, matching cctx.New().
func Default() Cflags {
	return Cflags{
		Standard: standardSection{Lang: "c23"},
		Diagnostics: diagnosticsSection{
			Color:     "auto",
			MaxErrors: 20,
		},
		Target: targetSection{WcharBits: 32},
	}
}

// Load decodes path as a cflags.toml document. Every field is optional;
// absent sections fall back to Default()'s values.
func Load(path string) (Cflags, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Cflags{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("standard", "lang") && strings.TrimSpace(cfg.Standard.Lang) == "" {
		return Cflags{}, fmt.Errorf("%s: [standard].lang must not be empty", path)
	}
	return cfg, nil
}

func parseStandard(lang string) (token.Standard, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "c23":
		return token.StdC23, nil
	case "c17":
		return token.StdC17, nil
	case "c11":
		return token.StdC11, nil
	case "c99":
		return token.StdC99, nil
	case "c89", "c90", "ansi":
		return token.StdC89, nil
	default:
		return 0, fmt.Errorf("unknown standard %q (want c89|c99|c11|c17|c23)", lang)
	}
}

func parseColorMode(mode string) (cctx.ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return cctx.ColorAuto, nil
	case "on", "always":
		return cctx.ColorAlways, nil
	case "off", "never":
		return cctx.ColorNever, nil
	default:
		return 0, fmt.Errorf("unknown color mode %q (want auto|on|off)", mode)
	}
}

// ToContext builds a *cctx.Context from the decoded document, the
// direction §6.1 documents: the TOML layer is purely a CLI-side builder
// of the same Context the lexer's library API accepts directly.
func (c Cflags) ToContext() (*cctx.Context, error) {
	std, err := parseStandard(c.Standard.Lang)
	if err != nil {
		return nil, err
	}
	color, err := parseColorMode(c.Diagnostics.Color)
	if err != nil {
		return nil, err
	}

	maxErrors := c.Diagnostics.MaxErrors
	if maxErrors <= 0 {
		maxErrors = 20
	}
	wcharBits := c.Target.WcharBits
	if wcharBits <= 0 {
		wcharBits = 32
	}

	ctx := cctx.New().
		WithLangStd(std).
		WithGNUExtensions(c.Standard.GNUExtensions).
		WithYeccExtensions(c.Standard.YeccExtensions).
		WithPedantic(c.Standard.Pedantic).
		WithEnableTrigraphs(c.Standard.Trigraphs).
		WithWarningsAsErrors(c.Diagnostics.WarningsAsErrors).
		WithColorMode(color).
		WithMaxErrors(maxErrors).
		WithWcharBits(wcharBits)

	return ctx, nil
}
