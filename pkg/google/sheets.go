package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/harrisonrobin/tasklog/pkg/apperr"
	"github.com/harrisonrobin/tasklog/pkg/model"
	"github.com/harrisonrobin/tasklog/pkg/util"
	"google.golang.org/api/sheets/v4"
)

const (
	// Read range for listing: the ten mapped columns A..J.
	readColumns = "A:J"
	// Reference column used to find the last written row.
	appendColumn = "A:A"

	valueInputUserEntered = "USER_ENTERED"
	insertDataInsertRows  = "INSERT_ROWS"
)

// A1Range prefixes an A1 range with a quoted sheet name.
func A1Range(sheetName, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheetName, "'", "''"), cells)
}

// AppendRow writes row on the first row after the last non-empty cell in
// column A.
func (c *SheetsClient) AppendRow(ctx context.Context, row []interface{}) error {
	if err := c.configured(); err != nil {
		c.logger.Error("append skipped", "error", err)
		return err
	}

	srv, err := c.service(ctx)
	if err != nil {
		c.logger.Error("failed to get authenticated client", "error", err)
		return err
	}

	last, err := srv.Spreadsheets.Values.Get(c.cfg.SheetID, A1Range(c.cfg.SheetName, appendColumn)).Context(ctx).Do()
	if err != nil {
		c.logger.Error("error reading last row", "error", err)
		return fmt.Errorf("%w: reading last row: %w", apperr.ErrWriteFailed, err)
	}
	next := len(last.Values) + 1

	target := A1Range(c.cfg.SheetName, fmt.Sprintf("A%d", next))
	resp, err := srv.Spreadsheets.Values.Append(c.cfg.SheetID, target, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).
		ValueInputOption(valueInputUserEntered).
		InsertDataOption(insertDataInsertRows).
		Context(ctx).
		Do()
	if err != nil {
		c.logger.Error("error appending row", "range", target, "error", err)
		return fmt.Errorf("%w: %w", apperr.ErrWriteFailed, err)
	}
	if resp.HTTPStatusCode != http.StatusOK {
		c.logger.Error("unexpected append status", "range", target, "status", resp.HTTPStatusCode)
		return fmt.Errorf("%w: status %d", apperr.ErrWriteFailed, resp.HTTPStatusCode)
	}

	updated := ""
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	c.logger.Info("data appended", "range", updated)
	return nil
}

// ListRows reads every data row of the sheet. Failures of any kind are logged
// and produce an empty list: the listing page treats "no data" and "sheet
// unreachable" the same way.
func (c *SheetsClient) ListRows(ctx context.Context) []model.SheetTask {
	if err := c.configured(); err != nil {
		c.logger.Error("read skipped", "error", err)
		return []model.SheetTask{}
	}

	srv, err := c.service(ctx)
	if err != nil {
		c.logger.Error("failed to get authenticated client for reading", "error", err)
		return []model.SheetTask{}
	}

	resp, err := srv.Spreadsheets.Values.Get(c.cfg.SheetID, A1Range(c.cfg.SheetName, readColumns)).Context(ctx).Do()
	if err != nil {
		c.logger.Error("error reading rows", "error", err)
		return []model.SheetTask{}
	}

	if len(resp.Values) < 2 {
		c.logger.Info("sheet data is empty or has no header row", "rows", len(resp.Values))
		return []model.SheetTask{}
	}

	tasks := util.RowsToSheetTasks(resp.Values)
	c.logger.Info("fetched tasks", "count", len(tasks))
	return tasks
}
