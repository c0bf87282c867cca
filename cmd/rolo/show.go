package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/types"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a contact in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		contact, err := store.GetContact(ctx, args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if contact == nil {
			fmt.Fprintf(os.Stderr, "Error: contact not found: %s\n", args[0])
			os.Exit(1)
		}

		printContact(contact)
	},
}

// printContact renders every stored field of a contact
func printContact(c *types.Contact) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n", cyan(c.Name))
	if c.Company != "" {
		fmt.Printf("  Company:  %s\n", c.Company)
	}
	if c.Role != "" {
		fmt.Printf("  Role:     %s\n", c.Role)
	}
	if c.Location != "" {
		fmt.Printf("  Location: %s\n", c.Location)
	}
	for _, e := range c.ContactInfo.Emails {
		fmt.Printf("  Email:    %s\n", e)
	}
	for _, p := range c.ContactInfo.Phones {
		fmt.Printf("  Phone:    %s\n", p)
	}
	for _, u := range c.ContactInfo.LinkedInURLs {
		fmt.Printf("  LinkedIn: %s\n", u)
	}
	for _, u := range c.ContactInfo.OtherURLs {
		fmt.Printf("  %s: %s\n", u.Platform, u.URL)
	}
	if c.Notes != "" {
		fmt.Printf("\n%s\n%s\n", gray("Notes:"), c.Notes)
	}
	fmt.Printf("\n%s\n", gray(fmt.Sprintf("%s · %s · created %s · updated %s",
		c.ID, c.Source,
		c.CreatedAt.Format("2006-01-02"),
		c.UpdatedAt.Format("2006-01-02"))))
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(showCmd)
}
