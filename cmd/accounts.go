package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// newAccountsCmd creates the accounts command
func newAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List authenticated Google accounts",
		Long: `Lists the Google accounts with stored credentials, most recently
authenticated first. The first entry is the one tools use when no
account parameter is given. Run 'workspace-mcp auth' to add an account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts()
		},
	}
}

func runAccounts() error {
	store := google.DefaultCredentialStore()
	accounts, err := store.ListAccounts()
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		fmt.Printf("No authenticated accounts in %s.\nRun 'workspace-mcp auth' to sign in.\n", store.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tACCESS TOKEN\tAUTHENTICATED")
	for i, account := range accounts {
		name := account.Account
		if i == 0 {
			name += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, tokenStatus(account.Expiry), account.Modified.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// tokenStatus renders the access-token expiry. An expired access token is
// normal; it is refreshed on next use as long as the refresh token holds.
func tokenStatus(expiry time.Time) string {
	switch {
	case expiry.IsZero():
		return "unknown"
	case time.Now().After(expiry):
		return "expired " + expiry.Format("2006-01-02 15:04")
	default:
		return "valid until " + expiry.Format("2006-01-02 15:04")
	}
}
