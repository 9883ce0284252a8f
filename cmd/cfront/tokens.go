package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"cfront/internal/cctx"
	"cfront/internal/diagfmt"
	"cfront/internal/driver"
	"cfront/internal/source"
	"cfront/internal/ui"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] <file|directory>",
	Short: "Dump the token stream for a C source file or directory",
	Long:  "Tokens lexes a single file or every *.c/*.h/*.i file under a directory and prints the resulting token stream in the requested format.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	tokensCmd.Flags().Bool("ui", false, "show a live progress view while tokenizing a directory")
}

func runTokens(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	useUI, err := cmd.Flags().GetBool("ui")
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
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}

	useColor, err := resolveColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return runTokensFile(targetPath, langCtx, maxDiagnostics, format, useColor)
	}
	return runTokensDir(cmd, targetPath, langCtx, maxDiagnostics, jobs, format, useColor, quiet, useUI)
}

func runTokensFile(path string, langCtx *cctx.Context, maxDiagnostics int, format string, useColor bool) error {
	result, err := driver.Tokenize(path, langCtx, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	result.Bag.Sort()

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: useColor, Context: 2})
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.Interner)
	case "msgpack":
		return diagfmt.FormatTokensMsgpack(os.Stdout, result.Tokens, result.Interner)
	default:
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet, result.Interner)
	}
}

func runTokensDir(cmd *cobra.Command, dir string, langCtx *cctx.Context, maxDiagnostics, jobs int, format string, useColor, quiet, useUI bool) error {
	var (
		fileSet *source.FileSet
		results []driver.DirResult
		err     error
	)

	if useUI {
		fileSet, results, err = tokenizeDirWithUI(cmd, dir, langCtx, maxDiagnostics, jobs)
	} else {
		fileSet, results, err = driver.TokenizeDir(cmd.Context(), dir, langCtx, maxDiagnostics, jobs, nil)
	}
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}

	for _, r := range results {
		if r.Bag != nil && (r.Bag.HasErrors() || r.Bag.HasWarnings()) {
			r.Bag.Sort()
			diagfmt.Pretty(os.Stderr, r.Bag, fileSet, diagfmt.PrettyOpts{Color: useColor, Context: 2})
		}
	}

	switch format {
	case "json":
		sets := make(map[string][]diagfmt.TokenOutput, len(results))
		for _, r := range results {
			sets[displayPath(fileSet, r)] = diagfmt.TokenOutputsJSON(r.Tokens, r.Interner)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sets)
	case "msgpack":
		sets := make(map[string][]diagfmt.TokenOutput, len(results))
		for _, r := range results {
			sets[displayPath(fileSet, r)] = diagfmt.TokenOutputsJSON(r.Tokens, r.Interner)
		}
		return msgpack.NewEncoder(os.Stdout).Encode(sets)
	default:
		for idx, r := range results {
			if !quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", displayPath(fileSet, r))
			}
			if err := diagfmt.FormatTokensPretty(os.Stdout, r.Tokens, fileSet, r.Interner); err != nil {
				return err
			}
			if !quiet && idx < len(results)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
		return nil
	}
}

func displayPath(fileSet *source.FileSet, r driver.DirResult) string {
	if r.FileID == 0 {
		return r.Path
	}
	return fileSet.Get(r.FileID).FormatPath("auto", fileSet.BaseDir())
}

type tokenizeOutcome struct {
	fileSet *source.FileSet
	results []driver.DirResult
	err     error
}

// tokenizeDirWithUI runs TokenizeDir in the background while a bubbletea
// progress view consumes its per-file completions, the same
// goroutine-plus-channel split cmd/surge's runBuildWithUI uses.
func tokenizeDirWithUI(cmd *cobra.Command, dir string, langCtx *cctx.Context, maxDiagnostics, jobs int) (*source.FileSet, []driver.DirResult, error) {
	files, listErr := driver.ListSourceFiles(dir)
	if listErr != nil {
		return nil, nil, listErr
	}

	events := make(chan ui.Event, 256)
	outcomeCh := make(chan tokenizeOutcome, 1)

	go func() {
		fileSet, results, err := driver.TokenizeDir(cmd.Context(), dir, langCtx, maxDiagnostics, jobs, func(path string) {
			events <- ui.Event{File: path}
		})
		outcomeCh <- tokenizeOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
