// Package server exposes the task log over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/harrisonrobin/tasklog/pkg/model"
	"github.com/harrisonrobin/tasklog/pkg/tasklog"
)

const maxBodyBytes = 1 << 20 // 1 MiB

const (
	msgInvalid   = "Please correct the errors in the form."
	msgSaveError = "Server error: Could not save task to Google Sheets. Please try again later."
)

// TaskService is the task log as seen by the HTTP layer.
type TaskService interface {
	Submit(ctx context.Context, sub model.TaskSubmission) (*tasklog.SubmitResult, error)
	List(ctx context.Context) []model.DisplayTask
}

type Server struct {
	svc    TaskService
	logger *slog.Logger
}

func New(svc TaskService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger.With("component", "http")}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tasks", s.handleSubmit)
	mux.HandleFunc("GET /tasks", s.handleList)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return WithRequestID(Logging(s.logger)(Tracing(mux)))
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type submitSuccess struct {
	Success        bool                 `json:"success"`
	SuccessMessage string               `json:"successMessage"`
	Errors         tasklog.FieldErrors  `json:"errors"`
	Data           model.TaskSubmission `json:"data"`
}

type submitInvalid struct {
	Data         model.TaskSubmission `json:"data"`
	Errors       tasklog.FieldErrors  `json:"errors"`
	ErrorMessage string               `json:"errorMessage"`
}

type submitFailed struct {
	Data         model.TaskSubmission `json:"data"`
	ErrorMessage string               `json:"errorMessage"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	sub := model.TaskSubmission{
		Date:        r.PostFormValue("taskDate"),
		StartTime:   r.PostFormValue("startTime"),
		EndTime:     r.PostFormValue("endTime"),
		Description: r.PostFormValue("taskDescription"),
		Type:        r.PostFormValue("taskType"),
		Status:      r.PostFormValue("taskStatus"),
		Comments:    r.PostFormValue("taskComments"),
		SubmittedBy: r.PostFormValue("submittedBy"),
		Project:     r.PostFormValue("project"),
	}

	res, err := s.svc.Submit(r.Context(), sub)
	if err != nil {
		var verr *tasklog.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, submitInvalid{Data: sub, Errors: verr.Fields, ErrorMessage: msgInvalid})
			return
		}
		s.logger.Error("submit failed", "rid", RequestIDFromContext(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, submitFailed{Data: sub, ErrorMessage: msgSaveError})
		return
	}

	writeJSON(w, http.StatusOK, submitSuccess{
		Success:        true,
		SuccessMessage: res.Message,
		Errors:         tasklog.FieldErrors{},
		Data:           res.Data,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	tasks := s.svc.List(r.Context())
	if tasks == nil {
		tasks = []model.DisplayTask{}
	}
	writeJSON(w, http.StatusOK, map[string][]model.DisplayTask{"tasks": tasks})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseForm(r *http.Request) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(maxBodyBytes)
	}
	return r.ParseForm()
}
