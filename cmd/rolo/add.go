package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/dedupe"
	"github.com/rolotools/rolo/internal/types"
)

var (
	addName     string
	addCompany  string
	addRole     string
	addLocation string
	addEmails   []string
	addPhones   []string
	addLinkedIn []string
	addNotes    string
	addForce    bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact manually",
	Long: `Add a contact manually.

The new record is checked against existing contacts first; if it looks
like a duplicate the command refuses unless --force is given.

Example:
  rolo add --name "Jane Doe" --email jane@example.com --company Acme`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if addName == "" {
			fmt.Fprintf(os.Stderr, "Error: --name is required\n")
			os.Exit(1)
		}

		partial := &types.PartialContact{Name: types.StringPtr(addName)}
		info := types.ContactInfo{
			Emails:       addEmails,
			Phones:       addPhones,
			LinkedInURLs: addLinkedIn,
		}
		if len(addEmails)+len(addPhones)+len(addLinkedIn) > 0 {
			partial.ContactInfo = &info
		}

		existing, err := store.ListContacts(ctx, types.ContactFilter{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		matches := dedupe.FindDuplicates(existing, partial)
		if len(matches) > 0 && !addForce {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(os.Stderr, "%s Looks like a duplicate of:\n", yellow("⚠"))
			for _, m := range matches {
				fmt.Fprintf(os.Stderr, "  %s (%s, matched on %s %q)\n",
					m.Existing.Name, m.Existing.ID, m.MatchType, m.MatchValue)
			}
			fmt.Fprintf(os.Stderr, "Use --force to add anyway, or merge with: rolo merge %s\n", matches[0].Existing.ID)
			os.Exit(1)
		}

		now := time.Now().UTC()
		contact := &types.Contact{
			ID:          uuid.New().String(),
			Name:        addName,
			Company:     addCompany,
			Role:        addRole,
			Location:    addLocation,
			ContactInfo: info,
			Notes:       addNotes,
			Source:      types.SourceManual,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.CreateContact(ctx, contact); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Added %s (%s)\n", green("✓"), contact.Name, contact.ID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addName, "name", "", "Contact name (required)")
	addCmd.Flags().StringVar(&addCompany, "company", "", "Company")
	addCmd.Flags().StringVar(&addRole, "role", "", "Role or job title")
	addCmd.Flags().StringVar(&addLocation, "location", "", "Location")
	addCmd.Flags().StringSliceVar(&addEmails, "email", nil, "Email address (repeatable)")
	addCmd.Flags().StringSliceVar(&addPhones, "phone", nil, "Phone number (repeatable)")
	addCmd.Flags().StringSliceVar(&addLinkedIn, "linkedin", nil, "LinkedIn URL (repeatable)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-form notes")
	addCmd.Flags().BoolVar(&addForce, "force", false, "Add even if it looks like a duplicate")
}
