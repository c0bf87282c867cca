package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a contact",
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

		if err := store.DeleteContact(ctx, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Deleted %s (%s)\n", green("✓"), contact.Name, contact.ID)
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
