package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var mergeAI bool

var mergeCmd = &cobra.Command{
	Use:   "merge <keep-id> <other-id>",
	Short: "Merge two contacts into one",
	Long: `Merge two contacts into one.

The second contact is folded into the first: the first contact's ID,
source, and creation time are kept, all emails, phones, and URLs are
combined, and the notes are reconciled. The second contact is deleted.

Example:
  rolo merge 7f3a... 91c2...
  rolo merge 7f3a... 91c2... --ai`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		keep, err := store.GetContact(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if keep == nil {
			fmt.Fprintf(os.Stderr, "Error: contact not found: %s\n", args[0])
			os.Exit(1)
		}
		other, err := store.GetContact(ctx, args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if other == nil {
			fmt.Fprintf(os.Stderr, "Error: contact not found: %s\n", args[1])
			os.Exit(1)
		}

		strategy := mergeStrategy(mergeAI || cfg.AIMerge)
		merged, err := strategy.Merge(ctx, keep, other.AsPartial())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: merge failed: %v\n", err)
			os.Exit(1)
		}

		if err := store.UpdateContact(ctx, merged); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := store.DeleteContact(ctx, other.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error: merged but failed to delete %s: %v\n", other.ID, err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Merged %s into %s (%s, %s strategy)\n",
			green("✓"), other.Name, merged.Name, merged.ID, strategy.Name())
		printContact(merged)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().BoolVar(&mergeAI, "ai", false, "Merge with the model instead of the fixed field policy")
}
