package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"persona-hq/animus/pkg/cli"
	"persona-hq/animus/pkg/facts"
	"persona-hq/animus/pkg/fcl/compiler"
	"persona-hq/animus/pkg/loader"
	"persona-hq/animus/pkg/msgfilter"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate character definition files",
	Long: `Validate character definition files for syntax and sandbox errors.

The lint command classifies every fact line and compiles every guard
expression without evaluating anything:
  - YAML structure (name, facts list)
  - Directive payloads ($model, $stream, $context, ...)
  - Guard expressions ($if ...) against the sandbox's identifier set
  - Context-filter expressions

Examples:
  # Lint a single character
  animus lint --file characters/iris.yaml

  # Lint a directory
  animus lint --dir characters/

  # JSON output for CI
  animus lint --dir characters/ --format json`,
	RunE: lintCharacters,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "character file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of character files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation outcome for one character file.
type LintResult struct {
	File      string      `json:"file"`
	Character string      `json:"character,omitempty"`
	Valid     bool        `json:"valid"`
	Issues    []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single problem in a character file.
type LintIssue struct {
	// Line is the 1-based index into the facts list, 0 for file-level
	// problems.
	Line    int    `json:"line,omitempty"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message"`
}

func lintCharacters(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list character files: %w", err)
			}
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no character files found")
	}

	results := make([]LintResult, 0, len(files))
	invalid := 0
	for _, file := range files {
		result := lintFile(file)
		if !result.Valid {
			invalid++
		}
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		printLintText(results)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d files invalid", invalid, len(files))
	}
	return nil
}

func lintFile(path string) LintResult {
	result := LintResult{File: path, Valid: true}

	def, err := loader.LoadFile(path)
	if err != nil {
		result.Valid = false
		result.Issues = append(result.Issues, LintIssue{Message: err.Error()})
		return result
	}
	result.Character = def.Name

	for i, line := range def.Facts {
		for _, issue := range lintLine(line) {
			issue.Line = i + 1
			issue.Text = line
			result.Issues = append(result.Issues, issue)
			result.Valid = false
		}
	}

	return result
}

// lintLine classifies one fact line and compiles whatever expressions it
// carries, without evaluating them.
func lintLine(line string) []LintIssue {
	if facts.IsComment(line) {
		return nil
	}

	fact, err := facts.Classify(line)
	if err != nil {
		return []LintIssue{{Message: err.Error()}}
	}

	var issues []LintIssue

	if fact.Conditional {
		if _, err := compiler.Compile(fact.Guard); err != nil {
			issues = append(issues, LintIssue{Message: err.Error()})
		}
	}

	if fact.Directive == facts.DirectiveContext && fact.Filter != "" {
		if _, err := msgfilter.Compile(fact.Filter); err != nil {
			issues = append(issues, LintIssue{Message: err.Error()})
		}
	}

	return issues
}

func printLintText(results []LintResult) {
	for _, r := range results {
		if r.Valid {
			fmt.Printf("✓ %s (%s)\n", r.File, r.Character)
			continue
		}
		fmt.Printf("✗ %s\n", r.File)
		for _, issue := range r.Issues {
			if issue.Line > 0 {
				fmt.Printf("  fact %d: %s\n    %s\n", issue.Line, issue.Message, issue.Text)
			} else {
				fmt.Printf("  %s\n", issue.Message)
			}
		}
	}
}
