package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingConfig is returned when no credentials JSON is configured.
	ErrMissingConfig = errors.New("service account credentials not configured")

	// ErrInvalidFormat is returned when the credentials JSON does not parse or lacks a required field.
	ErrInvalidFormat = errors.New("invalid service account credentials")
)

// ServiceAccount holds the fields of a Google service-account key that are
// needed to sign JWT token requests.
type ServiceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id,omitempty"`
	TokenURI     string `json:"token_uri,omitempty"`
}

// ParseServiceAccount parses the service-account JSON held in configuration.
//
// Keys pasted into environment files usually carry literal `\n` sequences
// instead of line breaks. Those are converted back, since the PEM decoder
// needs real newlines.
func ParseServiceAccount(raw string) (*ServiceAccount, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingConfig
	}

	var sa ServiceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("%w: missing client_email or private_key", ErrInvalidFormat)
	}

	sa.PrivateKey = strings.ReplaceAll(sa.PrivateKey, `\n`, "\n")
	return &sa, nil
}
