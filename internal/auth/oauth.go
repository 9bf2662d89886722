package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// HasTokenForAccount checks if a token file exists for the specified account
func HasTokenForAccount(account string) bool {
	if err := validateAccountName(account); err != nil {
		return false
	}
	_, err := os.ReadFile(getTokenFilePath(account))
	return err == nil
}

// validateAccountName ensures an account name is safe to use as part of a
// file name. Accounts are short labels like "default" or "work", not email
// addresses.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	for _, r := range account {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("account name %q contains invalid character %q", account, r)
		}
	}
	return nil
}

// GetAuthURL returns the authorization URL for user consent for the default tenant
func GetAuthURL() string {
	return GetOAuthConfig().AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// SaveToken exchanges an authorization code for tokens and saves them for the
// specified account. The interactive authorization flow that produces the code
// is handled by the MCP client; only the exchange happens here.
func SaveToken(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	conf := GetOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return writeToken(account, t)
}

// GetOAuthConfig returns the OAuth2 configuration for the Microsoft identity
// platform. Client ID and tenant can be overridden via GRAPH_CLIENT_ID and
// GRAPH_TENANT_ID; the tenant defaults to "common" (multi-tenant + personal
// accounts).
func GetOAuthConfig() *oauth2.Config {
	tenant := os.Getenv("GRAPH_TENANT_ID")
	if tenant == "" {
		tenant = "common"
	}

	clientID := os.Getenv("GRAPH_CLIENT_ID")
	if clientID == "" {
		// Public client registration used for local/STDIO usage.
		clientID = "14d82eec-204b-4c2f-b7e8-296a70dab67e"
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: os.Getenv("GRAPH_CLIENT_SECRET"),
		Endpoint:     microsoft.AzureADEndpoint(tenant),
		RedirectURL:  "http://localhost",
		Scopes:       DefaultScopes,
	}
}

// GetTokenSourceForAccount returns an OAuth2 token source backed by the token
// file for the specified account. The source refreshes expired access tokens
// through the Microsoft identity platform and is safe for concurrent reads.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	tok, err := readToken(account)
	if err != nil {
		return nil, fmt.Errorf("no valid Microsoft OAuth token found for account %s: %w", account, err)
	}

	conf := GetOAuthConfig()
	return oauth2.ReuseTokenSource(tok, &persistingTokenSource{
		account: account,
		base:    conf.TokenSource(ctx, tok),
	}), nil
}

// persistingTokenSource writes refreshed tokens back to disk so a rotated
// refresh token is not lost between processes.
type persistingTokenSource struct {
	account string
	base    oauth2.TokenSource
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if err := writeToken(s.account, t); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	return t, nil
}

func readToken(account string) (*oauth2.Token, error) {
	data, err := os.ReadFile(getTokenFilePath(account))
	if err != nil {
		return nil, err
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file format: %w", err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, fmt.Errorf("token file contains no usable token")
	}
	return &tok, nil
}

func writeToken(account string, t *oauth2.Token) error {
	cacheDir := filepath.Join(userCacheDir(), "graphdesk")
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(getTokenFilePath(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// getTokenFilePath returns the token file path for an account
func getTokenFilePath(account string) string {
	return filepath.Join(userCacheDir(), "graphdesk", "graph-"+account+".token")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
