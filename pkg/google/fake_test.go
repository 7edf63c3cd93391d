package google

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/harrisonrobin/tasklog/internal/testutil"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const testSheetID = "sheet-123"

type appendCall struct {
	Range      string
	ValueInput string
	InsertData string
}

// fakeSheets emulates the two values endpoints the client uses. Rows are kept
// the way the API returns them: no trailing empty cells.
type fakeSheets struct {
	mu           sync.Mutex
	rows         [][]interface{}
	appends      []appendCall
	appendStatus int
	getStatus    int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	prefix := "/v4/spreadsheets/" + testSheetID + "/values/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	rng := strings.TrimPrefix(r.URL.Path, prefix)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet:
		if f.getStatus != 0 {
			writeAPIError(w, f.getStatus)
			return
		}
		width := 10
		if strings.HasSuffix(rng, "!A:A") {
			width = 1
		}
		writeJSONBody(w, map[string]interface{}{
			"range":          rng,
			"majorDimension": "ROWS",
			"values":         f.window(width),
		})

	case r.Method == http.MethodPost && strings.HasSuffix(rng, ":append"):
		if f.appendStatus != 0 {
			writeAPIError(w, f.appendStatus)
			return
		}
		rng = strings.TrimSuffix(rng, ":append")
		f.appends = append(f.appends, appendCall{
			Range:      rng,
			ValueInput: r.URL.Query().Get("valueInputOption"),
			InsertData: r.URL.Query().Get("insertDataOption"),
		})

		var body sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeAPIError(w, http.StatusBadRequest)
			return
		}
		at, err := strconv.Atoi(rng[strings.LastIndex(rng, "!A")+2:])
		if err != nil {
			writeAPIError(w, http.StatusBadRequest)
			return
		}
		for len(f.rows) < at-1 {
			f.rows = append(f.rows, []interface{}{})
		}
		tail := append([][]interface{}{}, f.rows[at-1:]...)
		f.rows = append(append(f.rows[:at-1], body.Values...), tail...)

		writeJSONBody(w, map[string]interface{}{
			"spreadsheetId": testSheetID,
			"updates": map[string]interface{}{
				"updatedRange": rng,
				"updatedRows":  len(body.Values),
			},
		})

	default:
		http.NotFound(w, r)
	}
}

// window returns the first width columns of every row, dropping trailing rows
// that are empty within the window.
func (f *fakeSheets) window(width int) [][]interface{} {
	out := make([][]interface{}, 0, len(f.rows))
	for _, row := range f.rows {
		n := len(row)
		if n > width {
			n = width
		}
		cut := make([]interface{}, 0, n)
		cut = append(cut, row[:n]...)
		out = append(out, cut)
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func writeJSONBody(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": http.StatusText(status)},
	})
}

func headerRow() []interface{} {
	return []interface{}{
		"Submit Timestamp", "Day", "Date", "Start Time", "End Time",
		"Planned Tasks/ Notes", "Type", "Status", "Issues", "Project/ Product", "Submitted By",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, f *fakeSheets, cfg SheetsConfig) *SheetsClient {
	t.Helper()
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	return NewSheetsClient(cfg, discardLogger(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
}

func validConfig(t *testing.T) SheetsConfig {
	return SheetsConfig{
		SheetID:         testSheetID,
		SheetName:       "Daily Log",
		CredentialsJSON: testutil.CredentialsJSON(t),
	}
}
