package model

// TaskSubmission is a task as entered in the logging form. It lives for one
// request only. JSON names match the form field names so the same value can be
// echoed back for form repopulation.
type TaskSubmission struct {
	Date        string `json:"taskDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"taskDescription"`
	Type        string `json:"taskType"`
	Status      string `json:"taskStatus"`
	Comments    string `json:"taskComments"`
	SubmittedBy string `json:"submittedBy"`
	Project     string `json:"project"`
	// Set by the server when the submission is accepted.
	SubmissionTimestamp string `json:"submissionTimestamp"`
}

// SheetTask is one data row of the sheet, keyed by the header it was found under.
type SheetTask struct {
	ID                  int
	SubmissionTimestamp string
	Day                 string
	Date                string
	StartTime           string
	EndTime             string
	PlannedTasksNotes   string
	Type                string
	Status              string
	Issues              string
	ProjectProd         string
}

// DisplayTask is the shape returned by the listing endpoint.
type DisplayTask struct {
	ID              int    `json:"id"`
	TaskDate        string `json:"taskDate"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	TaskDescription string `json:"taskDescription"`
	Project         string `json:"project"`
	TaskType        string `json:"taskType"`
	TaskStatus      string `json:"taskStatus"`
	SubmittedBy     string `json:"submittedBy"`
	TaskComments    string `json:"taskComments"`
}
