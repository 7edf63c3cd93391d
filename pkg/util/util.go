package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/tasklog/pkg/model"
)

const (
	// DateLayout is the form and sheet representation of a calendar day.
	DateLayout = "2006-01-02"

	// TimestampLayout matches the millisecond ISO 8601 stamps already in the sheet.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

	// NotAvailable stands in for fields the sheet does not persist.
	NotAvailable = "N/A"
)

// SheetHeaders is header row 1 of the sheet, one entry per column written by
// SubmissionToRow. The two must change together.
var SheetHeaders = []string{
	"Submit Timestamp",
	"Day",
	"Date",
	"Start Time",
	"End Time",
	"Planned Tasks/ Notes",
	"Type",
	"Status",
	"Issues",
	"Project/ Product",
	"Submitted By",
}

// headerFields maps a trimmed header to the SheetTask field it fills.
// Headers not listed here are ignored on read.
var headerFields = map[string]func(t *model.SheetTask, v string){
	"Submit Timestamp":     func(t *model.SheetTask, v string) { t.SubmissionTimestamp = v },
	"Day":                  func(t *model.SheetTask, v string) { t.Day = v },
	"Date":                 func(t *model.SheetTask, v string) { t.Date = v },
	"Start Time":           func(t *model.SheetTask, v string) { t.StartTime = v },
	"End Time":             func(t *model.SheetTask, v string) { t.EndTime = v },
	"Planned Tasks/ Notes": func(t *model.SheetTask, v string) { t.PlannedTasksNotes = v },
	"Type":                 func(t *model.SheetTask, v string) { t.Type = v },
	"Status":               func(t *model.SheetTask, v string) { t.Status = v },
	"Issues":               func(t *model.SheetTask, v string) { t.Issues = v },
	"Project/ Product":     func(t *model.SheetTask, v string) { t.ProjectProd = v },
}

// SubmissionToRow converts a validated submission into the ordered sheet row.
func SubmissionToRow(sub *model.TaskSubmission) []interface{} {
	return []interface{}{
		sub.SubmissionTimestamp,
		Weekday(sub.Date),
		sub.Date,
		sub.StartTime,
		sub.EndTime,
		sub.Description,
		sub.Type,
		sub.Status,
		sub.Comments,
		sub.Project,
		sub.SubmittedBy,
	}
}

// Weekday returns the long weekday name for a YYYY-MM-DD date, or "" if the
// date does not parse.
func Weekday(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()
}

// RowsToSheetTasks turns a raw values range into tasks. rows[0] is a spacer,
// rows[1] holds the headers and data starts at rows[2].
func RowsToSheetTasks(rows [][]interface{}) []model.SheetTask {
	if len(rows) < 2 {
		return []model.SheetTask{}
	}

	headers := rows[1]
	data := rows[2:]
	tasks := make([]model.SheetTask, 0, len(data))

	for i, row := range data {
		task := model.SheetTask{ID: i + 1}
		for col, h := range headers {
			set, ok := headerFields[strings.TrimSpace(CellString(h))]
			if !ok {
				continue
			}
			// Rows are ragged: the API drops trailing empty cells.
			value := ""
			if col < len(row) {
				value = CellString(row[col])
			}
			set(&task, value)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// ToDisplayTask remaps a sheet task to the listing shape.
func ToDisplayTask(t model.SheetTask) model.DisplayTask {
	return model.DisplayTask{
		ID:              t.ID,
		TaskDate:        t.Date,
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		TaskDescription: t.PlannedTasksNotes,
		Project:         t.ProjectProd,
		TaskType:        t.Type,
		TaskStatus:      t.Status,
		SubmittedBy:     NotAvailable,
		TaskComments:    t.Issues,
	}
}

// CellString renders a cell value from the Sheets API as a string.
func CellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
