package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"persona-hq/animus/pkg/cli"
	"persona-hq/animus/pkg/facts"
	"persona-hq/animus/pkg/fcl"
	"persona-hq/animus/pkg/fcl/compiler"
	"persona-hq/animus/pkg/loader"
	"persona-hq/animus/pkg/timefmt"
)

var evalFlags struct {
	file    string
	context string
	format  string
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a character's facts against a context",
	Long: `Evaluate a character definition's fact lines against a context and
print the result: the visible facts, the response decision, and every
directive slot the lines set.

The context file is a YAML document mirroring the sandbox's identifier
set:

  mentioned: true
  name: Iris
  health: 0.8
  message_count: 12
  facts:
    cursed: "true"
  channel:
    name: library
    nsfw: false

Examples:
  # Evaluate with an empty context
  animus eval --file characters/iris.yaml

  # Evaluate against a context file, JSON output
  animus eval --file characters/iris.yaml --context ctx.yaml --format json`,
	RunE: evalCharacter,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalFlags.file, "file", "f", "", "character file to evaluate (required)")
	evalCmd.Flags().StringVar(&evalFlags.context, "context", "", "context YAML file")
	evalCmd.Flags().StringVar(&evalFlags.format, "format", "text", "output format: text, json")
	evalCmd.MarkFlagRequired("file")
}

// contextDoc is the YAML shape of a context file.
type contextDoc struct {
	Mentioned    bool              `yaml:"mentioned"`
	Name         string            `yaml:"name"`
	Facts        map[string]string `yaml:"facts"`
	Health       float64           `yaml:"health"`
	MessageCount int               `yaml:"message_count"`
	TurnCount    int               `yaml:"turn_count"`
	Channel      struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
		NSFW bool   `yaml:"nsfw"`
	} `yaml:"channel"`
	Server struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"server"`
	Messages []string `yaml:"messages"`
}

func loadEvalContext(path, characterName string) (*compiler.EvalContext, error) {
	var doc contextDoc
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse context file: %w", err)
		}
	}

	if doc.Name == "" {
		doc.Name = characterName
	}

	ctx := &compiler.EvalContext{
		Mentioned:    doc.Mentioned,
		Name:         doc.Name,
		Facts:        doc.Facts,
		Health:       doc.Health,
		MessageCount: doc.MessageCount,
		TurnCount:    doc.TurnCount,
		Channel: compiler.Channel{
			ID:   doc.Channel.ID,
			Name: doc.Channel.Name,
			NSFW: doc.Channel.NSFW,
		},
		Server: compiler.Server{
			ID:   doc.Server.ID,
			Name: doc.Server.Name,
		},
	}
	if len(doc.Messages) > 0 {
		messages := doc.Messages
		ctx.Messages = func(n int) string {
			if n < 0 || n >= len(messages) {
				return ""
			}
			return messages[n]
		}
	}
	return ctx, nil
}

func evalCharacter(cmd *cobra.Command, args []string) error {
	def, err := loader.LoadFile(evalFlags.file)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	ctx, err := loadEvalContext(evalFlags.context, def.Name)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	evaluator := facts.NewEvaluator(fcl.NewEngine())
	result, err := evaluator.Evaluate(def.Facts, ctx)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	if evalFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, result)
	}

	printEvalText(def.Name, result)
	return nil
}

func printEvalText(name string, result *facts.EvaluatedFacts) {
	fmt.Printf("Character: %s\n", name)

	fmt.Printf("Facts (%d):\n", len(result.Facts))
	for _, fact := range result.Facts {
		marker := " "
		if result.LockedFacts[fact] {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, fact)
	}

	switch {
	case result.Respond == nil:
		fmt.Println("Respond: (no directive)")
	case *result.Respond:
		fmt.Printf("Respond: yes (%s)\n", result.RespondSource)
	default:
		fmt.Printf("Respond: no (%s)\n", result.RespondSource)
	}

	if result.RetryMS != nil {
		delay := time.Duration(*result.RetryMS) * time.Millisecond
		fmt.Printf("Retry: %dms (%s)\n", *result.RetryMS, timefmt.FormatDuration(delay))
	}
	if result.Avatar != "" {
		fmt.Printf("Avatar: %s\n", result.Avatar)
	}
	if result.EntityLocked {
		fmt.Println("Entity locked")
	}
	if result.Stream != nil {
		fmt.Printf("Stream: full=%v delimiters=%q\n", result.Stream.Full, result.Stream.Delimiters)
	}
	if result.Memory != "" {
		fmt.Printf("Memory: %s\n", result.Memory)
	}
	if result.Filter != "" {
		fmt.Printf("Context filter: %s\n", result.Filter)
	}
	if result.Model != nil {
		fmt.Printf("Model: %s:%s\n", result.Model.Provider, result.Model.Model)
	}
	if result.Freeform {
		fmt.Println("Freeform output")
	}
	if result.Strip != nil {
		if result.Strip.Disabled {
			fmt.Println("Strip: disabled")
		} else {
			fmt.Printf("Strip: %q\n", result.Strip.Patterns)
		}
	}
}
