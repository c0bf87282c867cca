package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/types"
)

var (
	listSource  string
	listCompany string
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts",
	Long: `List contacts, oldest first.

Example:
  rolo list
  rolo list --source linkedin --limit 20
  rolo list --company Acme`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		filter := types.ContactFilter{Limit: listLimit}
		if listSource != "" {
			src := types.Source(listSource)
			if !src.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: invalid source %q (google, linkedin, manual)\n", listSource)
				os.Exit(1)
			}
			filter.Source = &src
		}
		if listCompany != "" {
			filter.Company = &listCompany
		}

		contacts, err := store.ListContacts(ctx, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printContactList(contacts)
	},
}

// printContactList renders a one-line-per-contact summary
func printContactList(contacts []*types.Contact) {
	if len(contacts) == 0 {
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s\n", gray("No contacts found"))
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, c := range contacts {
		line := cyan(c.Name)
		if c.Company != "" {
			line += fmt.Sprintf(" · %s", c.Company)
		}
		if c.Role != "" {
			line += fmt.Sprintf(" (%s)", c.Role)
		}
		fmt.Printf("%s\n", line)
		if len(c.ContactInfo.Emails) > 0 {
			fmt.Printf("  %s\n", c.ContactInfo.Emails[0])
		}
		fmt.Printf("  %s\n", gray(fmt.Sprintf("%s · %s", c.ID, c.Source)))
	}
	fmt.Printf("\n%d contact(s)\n", len(contacts))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listSource, "source", "", "Filter by source: google, linkedin, manual")
	listCmd.Flags().StringVar(&listCompany, "company", "", "Filter by exact company")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of contacts to show")
}
