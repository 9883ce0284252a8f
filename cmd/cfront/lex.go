package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cfront/internal/cctx"
	"cfront/internal/diag"
	"cfront/internal/diagfmt"
	"cfront/internal/driver"
	"cfront/internal/fix"
	"cfront/internal/source"
	"cfront/internal/version"
)

var lexCmd = &cobra.Command{
	Use:   "lex [flags] <file|directory>",
	Short: "Lex a C source file or directory and report diagnostics",
	Long:  "Lex runs the lexer over a single file or every *.c/*.h/*.i file under a directory and reports lexical diagnostics (no token dump; use `tokens` for that).",
	Args:  cobra.ExactArgs(1),
	RunE:  runLex,
}

func init() {
	lexCmd.Flags().String("format", "pretty", "diagnostic format (pretty|json|sarif)")
	lexCmd.Flags().Bool("fix", false, "apply available fixes after reporting")
	lexCmd.Flags().Bool("fix-all", false, "apply every safe fix instead of just the first")
	lexCmd.Flags().String("fix-id", "", "apply only the fix with this identifier")
}

func runLex(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	applyFix, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return err
	}
	applyAll, err := cmd.Flags().GetBool("fix-all")
	if err != nil {
		return err
	}
	fixID, err := cmd.Flags().GetString("fix-id")
	if err != nil {
		return err
	}

	langCtx, err := resolveContext(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}
	if info.IsDir() && fixID != "" {
		return fmt.Errorf("lex: --fix-id can only be used with a single file")
	}

	useColor, err := resolveColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	mode := fix.ApplyModeOnce
	switch {
	case fixID != "":
		mode = fix.ApplyModeID
	case applyAll:
		mode = fix.ApplyModeAll
	}
	opts := fix.ApplyOptions{Mode: mode, TargetID: fixID}

	if !info.IsDir() {
		return runLexFile(cmd, targetPath, langCtx, maxDiagnostics, format, useColor, applyFix, opts)
	}
	return runLexDir(cmd, targetPath, langCtx, maxDiagnostics, jobs, format, useColor, applyFix, opts)
}

func runLexFile(cmd *cobra.Command, path string, langCtx *cctx.Context, maxDiagnostics int, format string, useColor, applyFix bool, opts fix.ApplyOptions) error {
	result, err := driver.Tokenize(path, langCtx, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}
	result.Bag.Sort()

	if err := renderDiagnostics(cmd, format, result.Bag, result.FileSet, useColor); err != nil {
		return err
	}

	if applyFix {
		if err := applyAndReport(result.FileSet, derefDiagnostics(result.Bag), opts); err != nil {
			return err
		}
	}

	if result.Bag.HasErrors() {
		return fmt.Errorf("lex: %s has diagnostic errors", path)
	}
	return nil
}

func runLexDir(cmd *cobra.Command, dir string, langCtx *cctx.Context, maxDiagnostics, jobs int, format string, useColor, applyFix bool, opts fix.ApplyOptions) error {
	fileSet, results, err := driver.TokenizeDir(cmd.Context(), dir, langCtx, maxDiagnostics, jobs, nil)
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	hasErrors := false
	var allDiagnostics []diag.Diagnostic
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		r.Bag.Sort()
		if err := renderDiagnostics(cmd, format, r.Bag, fileSet, useColor); err != nil {
			return err
		}
		if r.Bag.HasErrors() {
			hasErrors = true
		}
		allDiagnostics = append(allDiagnostics, derefDiagnostics(r.Bag)...)
	}

	if applyFix {
		if err := applyAndReport(fileSet, allDiagnostics, opts); err != nil {
			return err
		}
	}

	if hasErrors {
		return fmt.Errorf("lex: %s has diagnostic errors", dir)
	}
	return nil
}

func renderDiagnostics(cmd *cobra.Command, format string, bag *diag.Bag, fileSet *source.FileSet, useColor bool) error {
	if bag.Len() == 0 {
		return nil
	}
	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{Color: useColor, Context: 2, ShowNotes: true, ShowFixes: true})
		return nil
	case "json":
		return diagfmt.JSON(os.Stdout, bag, fileSet, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true})
	case "sarif":
		return diagfmt.Sarif(os.Stdout, bag, fileSet, diagfmt.SarifRunMeta{ToolName: "cfront", ToolVersion: version.VersionString(), InvocationArgs: cmd.Flags().Args()})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func derefDiagnostics(bag *diag.Bag) []diag.Diagnostic {
	items := bag.Items()
	out := make([]diag.Diagnostic, 0, len(items))
	for _, d := range items {
		out = append(out, *d)
	}
	return out
}

func applyAndReport(fileSet *source.FileSet, diagnostics []diag.Diagnostic, opts fix.ApplyOptions) error {
	res, applyErr := fix.Apply(fileSet, diagnostics, opts)
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(os.Stdout, "  %s [%s] - %s (%d edits)\n", item.Title, item.ID, location, item.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(os.Stdout, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			fmt.Fprintf(os.Stdout, "  [%s]: %s\n", id, skip.Reason)
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(os.Stdout, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	return nil
}
