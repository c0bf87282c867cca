package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/importer"
	"github.com/rolotools/rolo/internal/types"
)

var reviewAI bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively resolve queued duplicate matches",
	Long: `Interactively resolve duplicate matches queued by 'rolo import --review'.

For each queued pair you can:
  m / merge      fold the incoming record into the existing contact
  k / keep-both  insert the incoming record as a separate contact
  s / skip       drop the incoming record
  q / quit       stop; unresolved items stay queued`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		queue, err := importer.LoadReviewQueue(ctx, store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(queue) == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Review queue is empty\n", green("✓"))
			return
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "review> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create readline: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()

		remaining, err := runReview(ctx, rl, queue)
		if saveErr := importer.SaveReviewQueue(ctx, store, remaining); saveErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", saveErr)
			os.Exit(1)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// runReview walks the queue one item at a time. It returns the items
// that were not resolved, so quitting mid-queue loses nothing.
func runReview(ctx context.Context, rl *readline.Instance, queue []importer.ReviewItem) ([]importer.ReviewItem, error) {
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s %d item(s) queued for review\n", yellow("⚠"), len(queue))

	for i := 0; i < len(queue); i++ {
		item := queue[i]

		existing, err := store.GetContact(ctx, item.ExistingID)
		if err != nil {
			return queue[i:], err
		}
		if existing == nil {
			// Contact was deleted since the import; nothing to merge into
			fmt.Printf("%s Existing contact %s no longer exists, skipping\n", gray("·"), item.ExistingID)
			continue
		}

		fmt.Printf("\n%s %s matches %s (on %s %q)\n",
			yellow(fmt.Sprintf("[%d/%d]", i+1, len(queue))),
			cyan(item.Incoming.GetName()), cyan(existing.Name),
			item.MatchType, item.MatchValue)
		printContact(existing)

		action, err := promptAction(rl)
		if err != nil {
			return queue[i:], err
		}

		switch action {
		case "m", "merge":
			strategy := mergeStrategy(reviewAI || cfg.AIMerge)
			merged, err := strategy.Merge(ctx, existing, item.Incoming)
			if err != nil {
				return queue[i:], fmt.Errorf("merge failed: %w", err)
			}
			if err := store.UpdateContact(ctx, merged); err != nil {
				return queue[i:], err
			}
			fmt.Printf("%s Merged into %s\n", green("✓"), merged.Name)
		case "k", "keep-both", "keep":
			source := types.SourceManual
			if item.Incoming.Source != nil && item.Incoming.Source.IsValid() {
				source = *item.Incoming.Source
			}
			contact := importer.Materialize(item.Incoming, source)
			if err := store.CreateContact(ctx, contact); err != nil {
				return queue[i:], err
			}
			fmt.Printf("%s Added %s (%s)\n", green("✓"), contact.Name, contact.ID)
		case "s", "skip":
			fmt.Printf("%s Skipped\n", gray("·"))
		case "q", "quit":
			return queue[i:], nil
		}
	}

	fmt.Printf("\n%s Review complete\n", green("✓"))
	return nil, nil
}

// promptAction reads one action from the user, re-prompting on anything
// unrecognized. Ctrl+D quits, Ctrl+C re-prompts.
func promptAction(rl *readline.Instance) (string, error) {
	for {
		fmt.Println("  [m]erge  [k]eep-both  [s]kip  [q]uit")
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return "q", nil
			}
			return "", err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "m", "merge":
			return "m", nil
		case "k", "keep", "keep-both":
			return "k", nil
		case "s", "skip":
			return "s", nil
		case "q", "quit", "exit":
			return "q", nil
		}
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().BoolVar(&reviewAI, "ai", false, "Merge with the model instead of the fixed field policy")
}
