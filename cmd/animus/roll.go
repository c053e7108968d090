package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"persona-hq/animus/pkg/dice"
)

var rollFlags struct {
	times int
}

var rollCmd = &cobra.Command{
	Use:   "roll <spec>",
	Short: "Roll a dice expression",
	Long: `Roll a dice expression and print the result.

The grammar is NdS with optional suffixes: keep/drop (kh2, kl1, dh1,
dl2), exploding dice (2d6!), success counting (4d6>=5), and a flat
modifier (2d6+3).

Examples:
  animus roll 2d6
  animus roll 4d6kh3
  animus roll 2d6!+1
  animus roll 10d10>=8 -n 5`,
	Args: cobra.ExactArgs(1),
	RunE: rollDice,
}

func init() {
	rootCmd.AddCommand(rollCmd)

	rollCmd.Flags().IntVarP(&rollFlags.times, "times", "n", 1, "number of rolls")
}

func rollDice(cmd *cobra.Command, args []string) error {
	spec := args[0]
	if rollFlags.times < 1 {
		return fmt.Errorf("--times must be at least 1")
	}

	for i := 0; i < rollFlags.times; i++ {
		result, err := dice.Roll(spec)
		if err != nil {
			return err
		}
		fmt.Println(result)
	}
	return nil
}
