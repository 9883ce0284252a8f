package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "cfront"}
	root.PersistentFlags().String("color", "auto", "")
	root.PersistentFlags().Bool("quiet", false, "")
	root.PersistentFlags().Int("max-diagnostics", 100, "")
	root.PersistentFlags().String("config", "", "")
	root.PersistentFlags().Int("timeout", 30, "")
	root.PersistentFlags().String("std", "", "")
	root.PersistentFlags().Bool("gnu", false, "")
	root.PersistentFlags().Bool("pedantic", false, "")
	root.PersistentFlags().Bool("trigraphs", false, "")
	root.PersistentFlags().Int("wchar-bits", 0, "")
	root.PersistentFlags().Bool("warnings-as-errors", false, "")
	root.PersistentFlags().Int("jobs", 0, "")
	child := &cobra.Command{Use: "child"}
	root.AddCommand(child)
	return child
}

func TestResolveColorExplicit(t *testing.T) {
	cmd := newTestRoot()
	if err := cmd.Root().PersistentFlags().Set("color", "on"); err != nil {
		t.Fatal(err)
	}
	on, err := resolveColor(cmd, os.Stdout)
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Fatal("resolveColor(color=on) = false, want true")
	}

	if err := cmd.Root().PersistentFlags().Set("color", "off"); err != nil {
		t.Fatal(err)
	}
	on, err = resolveColor(cmd, os.Stdout)
	if err != nil {
		t.Fatal(err)
	}
	if on {
		t.Fatal("resolveColor(color=off) = true, want false")
	}
}

func TestResolveContextDefaults(t *testing.T) {
	cmd := newTestRoot()
	ctx, err := resolveContext(cmd)
	if err != nil {
		t.Fatalf("resolveContext: %v", err)
	}
	if ctx == nil {
		t.Fatal("resolveContext returned nil context")
	}
}

func TestResolveContextConfigFileAndFlagOverride(t *testing.T) {
	cmd := newTestRoot()
	dir := t.TempDir()
	path := filepath.Join(dir, "cflags.toml")
	data := "[standard]\nlang = \"c11\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Root().PersistentFlags().Set("config", path); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Root().PersistentFlags().Set("gnu", "true"); err != nil {
		t.Fatal(err)
	}

	ctx, err := resolveContext(cmd)
	if err != nil {
		t.Fatalf("resolveContext: %v", err)
	}
	if !ctx.GNUExtensions() {
		t.Fatal("explicit --gnu flag did not override cflags.toml")
	}
}

func TestVersionCmdPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	cmd := versionCmd
	cmd.SetOut(&buf)
	versionFormat, versionShowHash, versionShowDate, versionShowFull = "pretty", false, false, false
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("version RunE: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("version command produced no output")
	}
}
