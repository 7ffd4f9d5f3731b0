package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
)

// ErrNoCredential means no usable bearer token is stored.
var ErrNoCredential = errors.New("no stored credential; run `sitelog login`")

// TokenPath returns the path of the stored token below dataDir.
func TokenPath(dataDir string) string {
	return filepath.Join(dataDir, "auth", "token.json")
}

// LoadToken loads a previously saved token. It returns ErrNoCredential when
// none is stored or the stored one has expired.
func LoadToken(dataDir string) (*oauth2.Token, error) {
	path := TokenPath(dataDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to log in again): %w", path, err)
	}
	if !tok.Valid() {
		return nil, ErrNoCredential
	}
	return &tok, nil
}

// TokenFromString wraps a raw bearer token as issued by the backend login.
func TokenFromString(raw string) (*oauth2.Token, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil, ErrNoCredential
	}
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
}

// SaveToken persists a token atomically with owner-only permissions.
func SaveToken(dataDir string, tok *oauth2.Token) error {
	path := TokenPath(dataDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. A missing token is not an error.
func DeleteToken(dataDir string) error {
	if err := os.Remove(TokenPath(dataDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
