package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/dedupe"
	"github.com/rolotools/rolo/internal/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Scan existing contacts for duplicate pairs",
	Long: `Scan the existing contacts against each other and report pairs that
look like the same person. Nothing is modified; merge pairs with
'rolo merge <id> <id>' or queue imports with --review.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		contacts, err := store.ListContacts(ctx, types.ContactFilter{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Each contact is matched against the ones after it so every
		// pair is reported once
		type pair struct {
			a     *types.Contact
			match types.DuplicateMatch
		}
		var pairs []pair
		for i, c := range contacts {
			for _, m := range dedupe.FindDuplicates(contacts[i+1:], c.AsPartial()) {
				pairs = append(pairs, pair{a: c, match: m})
			}
		}

		if len(pairs) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s No duplicates found among %d contact(s)\n", green("✓"), len(contacts))
			return
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Found %d duplicate pair(s):\n\n", yellow("⚠"), len(pairs))
		for _, p := range pairs {
			fmt.Printf("%s matches %s\n", cyan(p.a.Name), cyan(p.match.Existing.Name))
			fmt.Printf("  Matched on %s: %q\n", p.match.MatchType, p.match.MatchValue)
			fmt.Printf("  %s\n\n", gray(fmt.Sprintf("rolo merge %s %s", p.match.Existing.ID, p.a.ID)))
		}
	},
}

func init() {
	rootCmd.AddCommand(dedupeCmd)
}
