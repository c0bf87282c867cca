package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the rolo database",
	Long: `Initialize the rolo database.

This creates the database directory and file (default ~/.rolo/rolo.db)
and sets up the schema. Safe to run on an existing database.

Example:
  rolo init
  ROLO_DB=./contacts.db rolo init`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// PersistentPreRunE already opened (and therefore created) the
		// database. Nothing left to do but report where it lives.
		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized rolo\n\n", green("✓"))
		if cfg.Backend == "postgres" {
			fmt.Printf("  Backend:  %s\n", cyan("postgres"))
		} else {
			fmt.Printf("  Database: %s\n", cyan(cfg.DBPath))
		}
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("rolo add --name \"Jane Doe\" --email jane@example.com"))
		fmt.Printf("  %s\n", gray("rolo import contacts.csv --source google"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
