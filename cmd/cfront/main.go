// Command cfront is the lexical-front-end CLI: lex/tokens/version over
// single files or whole directories, mirroring cmd/surge's
// root-command/persistent-flags pattern (§10).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cfront",
	Short: "C89-C23 lexical front end",
	Long:  `cfront tokenizes C source files (C89 through C23) and reports lexical diagnostics.`,
}

var (
	timeoutCancel context.CancelFunc
)

func main() {
	rootCmd.Version = version.VersionString()
	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file")
	rootCmd.PersistentFlags().String("config", "", "path to cflags.toml (§6.1); flags below override it")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")

	rootCmd.PersistentFlags().String("std", "", "language standard (c89|c99|c11|c17|c23), overrides cflags.toml")
	rootCmd.PersistentFlags().Bool("gnu", false, "enable GNU extensions, overrides cflags.toml")
	rootCmd.PersistentFlags().Bool("pedantic", false, "reject non-standard constructs, overrides cflags.toml")
	rootCmd.PersistentFlags().Bool("trigraphs", false, "enable trigraph substitution, overrides cflags.toml")
	rootCmd.PersistentFlags().Int("wchar-bits", 0, "target wchar_t width in bits, overrides cflags.toml")
	rootCmd.PersistentFlags().Bool("warnings-as-errors", false, "escalate every warning to an error, overrides cflags.toml")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers for directory mode (0=auto)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(secs)*time.Second)
	timeoutCancel = cancel
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "cfront: command timed out after %ds\n", secs)
			os.Exit(1)
		}
	}()
	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
}
