package tasklog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/harrisonrobin/tasklog/pkg/apperr"
	"github.com/harrisonrobin/tasklog/pkg/model"
)

// MinDescriptionLength is the minimum task description length in characters.
const MinDescriptionLength = 10

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// ValidationError carries every failing field of a submission.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return apperr.ErrValidation
}

// Validate checks every field and returns all failures together. A nil map
// means the submission is valid.
func Validate(sub *model.TaskSubmission) FieldErrors {
	errs := FieldErrors{}

	switch {
	case blank(sub.Date):
		errs["taskDate"] = "Date is required."
	case !dateRe.MatchString(sub.Date):
		errs["taskDate"] = "Date must be in YYYY-MM-DD format."
	}

	startOK := sub.StartTime != "" && timeRe.MatchString(sub.StartTime)
	endOK := sub.EndTime != "" && timeRe.MatchString(sub.EndTime)
	if sub.StartTime != "" && !startOK {
		errs["startTime"] = "Start time must be in HH:MM format."
	}
	if sub.EndTime != "" && !endOK {
		errs["endTime"] = "End time must be in HH:MM format."
	}
	// Zero-padded HH:MM compares correctly as a string.
	if startOK && endOK && sub.StartTime >= sub.EndTime {
		errs["endTime"] = "End time must be after start time."
	}

	switch {
	case blank(sub.Description):
		errs["taskDescription"] = "Task description is required."
	case utf8.RuneCountInString(sub.Description) < MinDescriptionLength:
		errs["taskDescription"] = fmt.Sprintf("Task description must be at least %d characters long.", MinDescriptionLength)
	}

	if blank(sub.Type) {
		errs["taskType"] = "Task type is required."
	}
	if blank(sub.Status) {
		errs["taskStatus"] = "Status is required."
	}
	if blank(sub.SubmittedBy) {
		errs["submittedBy"] = "Submitted by is required."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
