package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphdesk/graphdesk/internal/auth"
)

func newAuthCmd() *cobra.Command {
	var (
		account  string
		authCode string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize graphdesk to access a Microsoft account",
		Long: `Run the OAuth authorization flow for a Microsoft account.

Without --code, prints the authorization URL to visit in a browser.
After granting access, run the command again with --code to save the token.

Requires GRAPH_TENANT_ID, GRAPH_CLIENT_ID and GRAPH_CLIENT_SECRET to be set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if authCode == "" {
				fmt.Printf("Visit this URL to authorize account %q:\n\n  %s\n\n", account, auth.GetAuthURL())
				fmt.Println("Then run: graphdesk auth --code <authorization code>")
				return nil
			}

			if err := auth.SaveToken(context.Background(), account, authCode); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}
			fmt.Printf("Token saved for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Microsoft account name to use (default: 'default')")
	cmd.Flags().StringVar(&authCode, "code", "", "Authorization code from the OAuth redirect")
	return cmd
}
