// Package schwab fetches account balances, positions and transactions from
// the Schwab trader API. Authentication is out of scope here: the user runs
// the OAuth dance elsewhere and leaves a bearer token behind, either in the
// SCHWAB_ACCESS_TOKEN environment variable or in a session file.
package schwab

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	sessionFile = "rfo-schwab-session"
	tokenEnv    = "SCHWAB_ACCESS_TOKEN"
)

// Session carries the headers of an authenticated Schwab API session.
type Session struct {
	header http.Header
}

// LoadSession builds a session from the access token in the environment, or
// failing that from the session file left by a previous login.
func LoadSession() (*Session, error) {
	token := strings.TrimSpace(os.Getenv(tokenEnv))
	if token == "" {
		sessionPath := filepath.Join(os.TempDir(), sessionFile)
		data, err := os.ReadFile(sessionPath)
		if err != nil {
			return nil, fmt.Errorf("schwab session not found. Set %s or run 'rfo login' first: %w", tokenEnv, err)
		}
		token = strings.TrimSpace(string(data))
	}
	if token == "" {
		return nil, fmt.Errorf("schwab access token is empty")
	}

	header := make(http.Header)
	header.Set("Authorization", "Bearer "+token)
	header.Set("Accept", "application/json")
	return &Session{header: header}, nil
}

// SaveToken writes the access token to the session file for later runs.
func SaveToken(token string) error {
	sessionPath := filepath.Join(os.TempDir(), sessionFile)
	if err := os.WriteFile(sessionPath, []byte(strings.TrimSpace(token)+"\n"), 0o600); err != nil {
		return fmt.Errorf("cannot write schwab session: %w", err)
	}
	return nil
}
