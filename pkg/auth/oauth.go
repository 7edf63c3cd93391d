package auth

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/sheets/v4"
)

// SheetsScopes are the scopes requested for spreadsheet reads and appends.
var SheetsScopes = []string{sheets.SpreadsheetsScope}

// JWTConfig builds the two-legged JWT flow config for a service account.
func JWTConfig(sa *ServiceAccount, scopes ...string) *jwt.Config {
	tokenURL := sa.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	return &jwt.Config{
		Email:        sa.ClientEmail,
		PrivateKey:   []byte(sa.PrivateKey),
		PrivateKeyID: sa.PrivateKeyID,
		Scopes:       scopes,
		TokenURL:     tokenURL,
	}
}

// NewHTTPClient returns an *http.Client that signs and refreshes access tokens
// for the service account. The private key must decode before a client is
// returned.
func NewHTTPClient(ctx context.Context, sa *ServiceAccount, scopes ...string) (*http.Client, error) {
	if err := checkPrivateKey(sa.PrivateKey); err != nil {
		return nil, err
	}
	return JWTConfig(sa, scopes...).Client(ctx), nil
}

func checkPrivateKey(key string) error {
	block, _ := pem.Decode([]byte(key))
	if block == nil {
		return fmt.Errorf("private key is not PEM encoded (check for escaped newlines)")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err != nil {
		if _, err1 := x509.ParsePKCS1PrivateKey(block.Bytes); err1 != nil {
			return fmt.Errorf("unable to parse private key: %w", err)
		}
	}
	return nil
}
