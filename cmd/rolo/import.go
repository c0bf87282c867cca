package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/importer"
	"github.com/rolotools/rolo/internal/types"
)

var (
	importSource      string
	importAINormalize bool
	importAIMerge     bool
	importReview      bool
	importDryRun      bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import contacts from a CSV export",
	Long: `Import contacts from a CSV export.

Each row is matched against existing contacts by name, email, phone,
and LinkedIn URL. New records are inserted; duplicates are merged into
the existing contact (or queued with --review).

Example:
  rolo import contacts.csv --source google
  rolo import connections.csv --source linkedin --review
  rolo import contacts.csv --source google --ai-normalize --dry-run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		source := types.Source(importSource)
		if !source.IsValid() {
			fmt.Fprintf(os.Stderr, "Error: invalid source %q (google, linkedin, manual)\n", importSource)
			os.Exit(1)
		}

		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		client := newAIClient()
		if importAINormalize && client == nil {
			fmt.Fprintf(os.Stderr, "Error: --ai-normalize requires an API key (set ANTHROPIC_API_KEY)\n")
			os.Exit(1)
		}

		im := importer.NewImporter(store, mergeStrategy(importAIMerge || cfg.AIMerge), client)
		result, err := im.Run(ctx, f, importer.Options{
			Source:      source,
			AINormalize: importAINormalize || cfg.AINormalize,
			BatchSize:   cfg.ImportBatchSize,
			Review:      importReview,
			DryRun:      importDryRun,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		label := "Import complete"
		if importDryRun {
			label = "Dry run complete (nothing written)"
		}
		fmt.Printf("\n%s %s\n\n", green("✓"), label)
		fmt.Printf("  Inserted: %d\n", result.Inserted)
		fmt.Printf("  Merged:   %d\n", result.Merged)
		if result.Queued > 0 {
			fmt.Printf("  Queued:   %d %s\n", result.Queued, gray("(run 'rolo review')"))
		}
		if result.Skipped > 0 {
			fmt.Printf("  Skipped:  %d\n", result.Skipped)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importSource, "source", "manual", "Record source: google, linkedin, manual")
	importCmd.Flags().BoolVar(&importAINormalize, "ai-normalize", false, "Normalize rows with the model instead of header heuristics")
	importCmd.Flags().BoolVar(&importAIMerge, "ai-merge", false, "Merge duplicates with the model instead of the fixed field policy")
	importCmd.Flags().BoolVar(&importReview, "review", false, "Queue duplicates for interactive review instead of merging")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would happen without writing")
}
