package google

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/harrisonrobin/tasklog/pkg/apperr"
	"github.com/harrisonrobin/tasklog/pkg/auth"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig identifies the target sheet and the credentials used to reach it.
type SheetsConfig struct {
	SheetID         string
	SheetName       string
	CredentialsJSON string
}

// SheetsClient appends task rows to, and reads them back from, one sheet tab.
type SheetsClient struct {
	cfg    SheetsConfig
	opts   []option.ClientOption
	logger *slog.Logger

	mu  sync.Mutex
	srv *sheets.Service
}

// NewSheetsClient creates a client. No remote call is made until the first
// append or list. Extra client options are applied after the authenticated
// HTTP client, so tests can point the service at a fake endpoint.
func NewSheetsClient(cfg SheetsConfig, logger *slog.Logger, opts ...option.ClientOption) *SheetsClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetsClient{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With("component", "GoogleSheets"),
	}
}

func (c *SheetsClient) configured() error {
	if c.cfg.SheetID == "" || c.cfg.SheetName == "" {
		return fmt.Errorf("%w: GOOGLE_SHEET_ID or GOOGLE_SHEET_NAME not defined", apperr.ErrNotConfigured)
	}
	return nil
}

// service returns the cached Sheets service, building it on first use.
// Build failures are not cached.
func (c *SheetsClient) service(ctx context.Context) (*sheets.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.srv != nil {
		return c.srv, nil
	}

	sa, err := auth.ParseServiceAccount(c.cfg.CredentialsJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrAuthFailed, err)
	}

	// The service outlives the request that happened to build it.
	base := context.WithoutCancel(ctx)
	client, err := auth.NewHTTPClient(base, sa, auth.SheetsScopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrAuthFailed, err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, c.opts...)
	srv, err := sheets.NewService(base, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create Sheets service: %w", apperr.ErrAuthFailed, err)
	}
	c.srv = srv
	return srv, nil
}

// Check verifies configuration and credentials without touching the sheet.
func (c *SheetsClient) Check(ctx context.Context) error {
	if err := c.configured(); err != nil {
		return err
	}
	_, err := c.service(ctx)
	return err
}
