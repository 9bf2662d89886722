package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the graphdesk application
var rootCmd = &cobra.Command{
	Use:   "graphdesk",
	Short: "MCP server for Microsoft 365 mail, calendar, contacts and files",
	Long: `graphdesk exposes Microsoft 365 accounts to AI assistants through the
Model Context Protocol (MCP). It talks to the Microsoft Graph API and
provides tools for Outlook mail, calendars, contacts and OneDrive files.

It can run as:
  - An MCP server over stdio (default)
  - An MCP server over streamable HTTP`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "graphdesk version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the graphdesk version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphdesk version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
