package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/mcp/oauth"
)

// consentTimeout bounds how long the auth command waits for the user to
// finish the consent screen before giving up.
const consentTimeout = 5 * time.Minute

// manualRedirectURL is the redirect target for --manual mode. Nothing
// listens there; the browser fails to load the page and the authorization
// code stays visible in the address bar for the user to copy.
const manualRedirectURL = "http://localhost:8080/callback"

type authOptions struct {
	account string
	manual  bool
	silent  bool
}

func newAuthCmd() *cobra.Command {
	opts := &authOptions{}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to a Google Workspace account",
		Long: `Runs the Google OAuth consent flow and stores the resulting credentials
for the MCP server to use.

The OAuth client is read from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET,
or from the client secret file downloaded from the Google Cloud console
(~/google-workspace-mcp/client_secret.json). A browser window opens for
the consent screen; after approval the authorization code is exchanged
and the credentials are written to ~/.google_workspace_mcp/credentials/,
named after the signed-in e-mail address. Authenticate once per account;
tools address a specific account through their account parameter.

Use --manual on machines without a local browser, and --silent together
with --account to refresh credentials without any consent UI while a
Google session is still active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(opts)
		},
	}

	cmd.Flags().StringVar(&opts.account, "account", "", "e-mail address to pre-select on the consent screen")
	cmd.Flags().BoolVar(&opts.manual, "manual", false, "print the consent URL and paste the code back instead of running a local listener")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "try silent re-authentication against an active Google session first (requires --account)")

	return cmd
}

func runAuth(opts *authOptions) error {
	if opts.silent && opts.account == "" {
		return fmt.Errorf("--silent requires --account to know which Google session to reuse")
	}
	if opts.silent && opts.manual {
		return fmt.Errorf("--silent cannot be combined with --manual")
	}

	conf, err := google.LoadOAuthConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req, err := newAuthRequest()
	if err != nil {
		return err
	}

	var tok *oauth2.Token
	if opts.manual {
		tok, err = runManualFlow(ctx, conf, req, opts.account)
	} else {
		tok, err = runBrowserFlow(ctx, conf, req, opts)
	}
	if err != nil {
		return err
	}

	account := resolveAuthenticatedAccount(ctx, conf, tok, opts.account)
	store := google.DefaultCredentialStore()

	// Re-authorizing an existing grant (silent mode in particular) may not
	// return a refresh token. Keep the stored one so the credential can
	// still refresh once this access token expires.
	if tok.RefreshToken == "" && store.HasCredentials(account) {
		if prev, err := store.Resolve(ctx, account); err == nil {
			tok.RefreshToken = prev.RefreshToken
		}
	}

	if err := store.SaveAuthorizedToken(account, conf, tok); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	fmt.Printf("\nAuthenticated as %s\n", account)
	fmt.Printf("Credentials saved to %s\n", filepath.Join(store.Dir(), account+".json"))
	return nil
}

// authRequest carries the PKCE material and CSRF state for one consent
// flow. The same request may issue several authorization URLs (a silent
// attempt, then the interactive fallback) but is exchanged at most once.
type authRequest struct {
	verifier  string
	challenge string
	state     string
}

func newAuthRequest() (*authRequest, error) {
	verifier, err := oauth.GenerateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}
	state, err := oauth.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state parameter: %w", err)
	}
	return &authRequest{
		verifier:  verifier,
		challenge: oauth.GenerateCodeChallenge(verifier),
		state:     state,
	}, nil
}

// authCodeURL builds the authorization URL. Offline access is always
// requested so Google issues a refresh token, and the PKCE challenge binds
// the eventual exchange to this process.
func (r *authRequest) authCodeURL(conf *oauth2.Config, prompt, loginHint string) string {
	params := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("code_challenge", r.challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("prompt", prompt),
	}
	if loginHint != "" {
		params = append(params, oauth2.SetAuthURLParam("login_hint", loginHint))
	}
	return conf.AuthCodeURL(r.state, params...)
}

func (r *authRequest) exchange(ctx context.Context, conf *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := conf.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", r.verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

// runBrowserFlow drives the regular consent flow: a short-lived listener on
// an ephemeral localhost port receives the redirect and the authorization
// code is exchanged immediately.
func runBrowserFlow(ctx context.Context, conf *oauth2.Config, req *authRequest, opts *authOptions) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return nil, fmt.Errorf("failed to start callback listener: %w", err)
	}
	defer ln.Close()

	conf.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", ln.Addr().(*net.TCPAddr).Port)

	results := make(chan *oauth.CallbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		result := oauth.ParseCallbackQuery(q.Get("code"), q.Get("state"),
			q.Get("error"), q.Get("error_description"), q.Get("error_uri"))
		if result.IsError() {
			fmt.Fprintln(w, "Authorization failed. You can close this window; details are in the terminal.")
		} else {
			fmt.Fprintln(w, "Authentication complete. You can close this window and return to the terminal.")
		}
		select {
		case results <- result:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go server.Serve(ln)
	defer server.Close()

	prompt := oauth.PromptConsent
	if opts.silent {
		prompt = oauth.PromptNone
	}
	printConsentURL(req.authCodeURL(conf, prompt, opts.account))

	result, err := waitForCallback(ctx, results)
	if err != nil {
		return nil, err
	}

	if cbErr := result.Err(); cbErr != nil {
		if !opts.silent || !oauth.IsSilentAuthError(cbErr) {
			return nil, fmt.Errorf("authorization failed: %w", cbErr)
		}

		// No usable Google session for silent re-authentication; run the
		// interactive consent on the same listener.
		fmt.Println("Silent re-authentication not possible, falling back to interactive consent.")
		printConsentURL(req.authCodeURL(conf, oauth.PromptConsent, opts.account))

		if result, err = waitForCallback(ctx, results); err != nil {
			return nil, err
		}
		if cbErr := result.Err(); cbErr != nil {
			return nil, fmt.Errorf("authorization failed: %w", cbErr)
		}
	}

	if result.State != req.state {
		return nil, fmt.Errorf("OAuth callback state mismatch")
	}
	if result.Code == "" {
		return nil, fmt.Errorf("OAuth callback carried no authorization code")
	}

	return req.exchange(ctx, conf, result.Code)
}

// runManualFlow prints the consent URL and reads the authorization code
// from stdin, for machines where the browser cannot reach a local listener.
func runManualFlow(ctx context.Context, conf *oauth2.Config, req *authRequest, account string) (*oauth2.Token, error) {
	conf.RedirectURL = manualRedirectURL

	fmt.Printf(`Visit the URL below and approve access. The final redirect goes to a
page that does not load; copy the "code" query parameter from the
browser address bar and paste it here.

  %s

`, req.authCodeURL(conf, oauth.PromptConsent, account))
	fmt.Print("Authorization code: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read authorization code: %w", err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, fmt.Errorf("no authorization code provided")
	}

	// Codes copied out of the address bar are still percent-encoded.
	if decoded, err := url.QueryUnescape(code); err == nil {
		code = decoded
	}

	return req.exchange(ctx, conf, code)
}

func waitForCallback(ctx context.Context, results <-chan *oauth.CallbackResult) (*oauth.CallbackResult, error) {
	select {
	case result := <-results:
		return result, nil
	case <-time.After(consentTimeout):
		return nil, fmt.Errorf("timed out after %s waiting for the consent to finish", consentTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// resolveAuthenticatedAccount names the credential file after the e-mail
// address that actually completed the consent flow. The userinfo lookup may
// fail without sinking the whole flow; the login hint or the default
// account name is used instead.
func resolveAuthenticatedAccount(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token, hint string) string {
	email, err := fetchAuthenticatedEmail(ctx, conf, tok)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not look up the signed-in account: %v\n", err)
	}
	if email != "" {
		return email
	}
	if hint != "" {
		return hint
	}
	return google.DefaultAccount
}

func fetchAuthenticatedEmail(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (string, error) {
	svc, err := goauth2.NewService(ctx, option.WithHTTPClient(conf.Client(ctx, tok)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("userinfo request failed: %w", err)
	}
	return info.Email, nil
}

// printConsentURL opens the consent URL in the default browser when
// possible; the URL is printed regardless so the flow also works over SSH.
func printConsentURL(url string) {
	openBrowser(url)
	fmt.Printf("Complete the Google consent in your browser. If it did not open, visit:\n\n  %s\n\n", url)
}

func openBrowser(url string) {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		name = "xdg-open"
	}
	_ = exec.Command(name, append(args, url)...).Start()
}
