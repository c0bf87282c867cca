package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/ai"
	"github.com/rolotools/rolo/internal/importer"
	"github.com/rolotools/rolo/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database stats and configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== rolo status ==="))

		count, err := store.CountContacts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", yellow("Contacts:"))
		fmt.Printf("  Total: %d\n", count)
		for _, src := range []types.Source{types.SourceGoogle, types.SourceLinkedIn, types.SourceManual} {
			s := src
			contacts, err := store.ListContacts(ctx, types.ContactFilter{Source: &s})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if len(contacts) > 0 {
				fmt.Printf("  %-9s %d\n", string(src)+":", len(contacts))
			}
		}
		fmt.Println()

		queue, err := importer.LoadReviewQueue(ctx, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", yellow("Review queue:"))
		if len(queue) == 0 {
			fmt.Printf("  %s\n", gray("empty"))
		} else {
			fmt.Printf("  %d item(s) pending, run 'rolo review'\n", len(queue))
		}
		fmt.Println()

		fmt.Printf("%s\n", yellow("Configuration:"))
		fmt.Printf("  Backend:  %s\n", cfg.Backend)
		if cfg.Backend == "sqlite" {
			fmt.Printf("  Database: %s\n", cfg.DBPath)
		}
		if cfg.APIKey != "" || ai.Available() {
			fmt.Printf("  AI:       %s (%s)\n", green("available"), ai.GetDefaultModel())
		} else {
			fmt.Printf("  AI:       %s\n", gray("unavailable (set ANTHROPIC_API_KEY)"))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
