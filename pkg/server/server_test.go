package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/harrisonrobin/tasklog/pkg/apperr"
	"github.com/harrisonrobin/tasklog/pkg/model"
	"github.com/harrisonrobin/tasklog/pkg/tasklog"
)

type fakeService struct {
	got   model.TaskSubmission
	err   error
	tasks []model.DisplayTask
}

func (f *fakeService) Submit(ctx context.Context, sub model.TaskSubmission) (*tasklog.SubmitResult, error) {
	f.got = sub
	if f.err != nil {
		return nil, f.err
	}
	data := sub
	data.StartTime, data.EndTime = "", ""
	return &tasklog.SubmitResult{Message: "Task 'x...' logged by " + sub.SubmittedBy + " for " + sub.Date + "!", Data: data}, nil
}

func (f *fakeService) List(ctx context.Context) []model.DisplayTask {
	return f.tasks
}

func newTestHandler(svc TaskService) http.Handler {
	return New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Handler()
}

func formBody() url.Values {
	return url.Values{
		"taskDate":        {"2025-05-16"},
		"startTime":       {"13:00"},
		"endTime":         {"14:00"},
		"taskDescription": {"Reviewed onboarding flow"},
		"taskType":        {"Development"},
		"taskStatus":      {"Done"},
		"submittedBy":     {"Meera"},
		"project":         {"Atlas"},
	}
}

func postForm(h http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestSubmit_Success(t *testing.T) {
	svc := &fakeService{}
	rr := postForm(newTestHandler(svc), formBody())

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.got.Project != "Atlas" || svc.got.StartTime != "13:00" {
		t.Errorf("Form fields not passed through: %+v", svc.got)
	}

	body := decode(t, rr)
	if body["success"] != true {
		t.Errorf("Expected success=true, got %v", body["success"])
	}
	if errs, ok := body["errors"].(map[string]any); !ok || len(errs) != 0 {
		t.Errorf("Expected empty errors object, got %v", body["errors"])
	}
	data := body["data"].(map[string]any)
	if data["startTime"] != "" || data["taskDate"] != "2025-05-16" {
		t.Errorf("Unexpected echoed data %v", data)
	}
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

func TestSubmit_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range formBody() {
		_ = mw.WriteField(k, v[0])
	}
	_ = mw.Close()

	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodPost, "/tasks", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.got.SubmittedBy != "Meera" {
		t.Errorf("Expected multipart fields to be read, got %+v", svc.got)
	}
}

func TestSubmit_Invalid(t *testing.T) {
	svc := &fakeService{err: &tasklog.ValidationError{Fields: tasklog.FieldErrors{"endTime": "End time must be after start time."}}}
	rr := postForm(newTestHandler(svc), formBody())

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
	body := decode(t, rr)
	if body["errorMessage"] != "Please correct the errors in the form." {
		t.Errorf("Unexpected errorMessage %v", body["errorMessage"])
	}
	errs := body["errors"].(map[string]any)
	if errs["endTime"] != "End time must be after start time." {
		t.Errorf("Unexpected errors %v", errs)
	}
	if body["data"].(map[string]any)["startTime"] != "13:00" {
		t.Errorf("Expected submitted data to be echoed unchanged")
	}
}

func TestSubmit_SaveFailureHidesDetail(t *testing.T) {
	svc := &fakeService{err: errors.Join(tasklog.ErrSaveFailed, apperr.ErrAuthFailed, errors.New("private key rejected"))}
	rr := postForm(newTestHandler(svc), formBody())

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "private key") {
		t.Errorf("Internal error leaked to client: %s", rr.Body.String())
	}
	body := decode(t, rr)
	want := "Server error: Could not save task to Google Sheets. Please try again later."
	if body["errorMessage"] != want {
		t.Errorf("Expected %q, got %v", want, body["errorMessage"])
	}
	if _, ok := body["success"]; ok {
		t.Error("Expected no success field on failure")
	}
}

func TestSubmit_TooLarge(t *testing.T) {
	form := formBody()
	form.Set("taskComments", strings.Repeat("x", maxBodyBytes))
	rr := postForm(newTestHandler(&fakeService{}), form)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rr.Code)
	}
}

func TestList(t *testing.T) {
	svc := &fakeService{tasks: []model.DisplayTask{{ID: 1, TaskDate: "2025-05-16", SubmittedBy: "N/A"}}}
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rr := httptest.NewRecorder()
	newTestHandler(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	tasks := decode(t, rr)["tasks"].([]any)
	if len(tasks) != 1 || tasks[0].(map[string]any)["submittedBy"] != "N/A" {
		t.Errorf("Unexpected tasks %v", tasks)
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rr := httptest.NewRecorder()
	newTestHandler(&fakeService{}).ServeHTTP(rr, req)

	if !strings.Contains(rr.Body.String(), `"tasks":[]`) {
		t.Errorf("Expected an empty array, got %s", rr.Body.String())
	}
}

func TestRequestIDIsKept(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	newTestHandler(&fakeService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("Expected incoming request id to be kept, got %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/tasks", nil)
	rr := httptest.NewRecorder()
	newTestHandler(&fakeService{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rr.Code)
	}
}
