package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"persona-hq/animus/pkg/cli"
	"persona-hq/animus/pkg/timefmt"
	"persona-hq/animus/pkg/trace"
)

var traceFlags struct {
	character string
	limit     int
	format    string
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show recorded guard failures",
	Long: `Show guard-evaluation failures recorded in the trace database.

Records are newest first. Use --character to restrict the listing to a
single character.

Examples:
  # Last 20 failures
  animus trace

  # Failures for one character, JSON output
  animus trace --character Iris --format json`,
	RunE: showTraces,
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringVar(&traceFlags.character, "character", "", "filter by character name")
	traceCmd.Flags().IntVar(&traceFlags.limit, "limit", 20, "maximum records to show")
	traceCmd.Flags().StringVar(&traceFlags.format, "format", "text", "output format: text, json")
}

func showTraces(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	recorder, err := trace.NewRecorder(cfg.Trace.Path, cfg.Trace.MaxRecords)
	if err != nil {
		return cli.NewCommandError("trace", err)
	}
	defer recorder.Close()

	records, err := recorder.Recent(cmd.Context(), traceFlags.character, traceFlags.limit)
	if err != nil {
		return cli.NewCommandError("trace", err)
	}

	if traceFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("No guard failures recorded.")
		return nil
	}
	now := time.Now()
	for _, r := range records {
		name := r.Character
		if name == "" {
			name = "(unknown)"
		}
		fmt.Printf("%s (%s)  %s\n  line:  %s\n  guard: %s\n  error: %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), timefmt.FormatOffset(r.CreatedAt, now),
			name, r.Line, r.Guard, r.Error)
	}
	return nil
}
