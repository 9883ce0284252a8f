package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cfront/internal/cctx"
	"cfront/internal/config"
)

// resolveContext builds the *cctx.Context a lex/tokens run should use:
// cflags.toml (if --config was given) provides the base, and any
// explicitly-set persistent flag overrides it field by field.
func resolveContext(cmd *cobra.Command) (*cctx.Context, error) {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if flags.Changed("std") {
		cfg.Standard.Lang, err = flags.GetString("std")
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("gnu") {
		cfg.Standard.GNUExtensions, err = flags.GetBool("gnu")
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("pedantic") {
		cfg.Standard.Pedantic, err = flags.GetBool("pedantic")
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("trigraphs") {
		cfg.Standard.Trigraphs, err = flags.GetBool("trigraphs")
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("wchar-bits") {
		cfg.Target.WcharBits, err = flags.GetInt("wchar-bits")
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("warnings-as-errors") {
		cfg.Diagnostics.WarningsAsErrors, err = flags.GetBool("warnings-as-errors")
		if err != nil {
			return nil, err
		}
	}
	if flags.Changed("color") {
		cfg.Diagnostics.Color, err = flags.GetString("color")
		if err != nil {
			return nil, err
		}
	}

	return cfg.ToContext()
}

// resolveColor decides whether diagnostics rendering should use color: the
// explicit "on"/"off" modes win outright, "auto" gates on dest being a
// terminal via golang.org/x/term, the same check cmd/surge's tokenize
// command uses.
func resolveColor(cmd *cobra.Command, dest *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return isTerminal(dest), nil
	}
}
