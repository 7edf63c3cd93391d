package tasklog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harrisonrobin/tasklog/pkg/dispatch"
	"github.com/harrisonrobin/tasklog/pkg/model"
	"github.com/harrisonrobin/tasklog/pkg/util"
)

// ErrSaveFailed is returned when the validated task could not be persisted.
var ErrSaveFailed = errors.New("could not save task")

// RowStore persists and reads task rows.
type RowStore interface {
	AppendRow(ctx context.Context, row []interface{}) error
	ListRows(ctx context.Context) []model.SheetTask
}

// Notifier announces a logged task.
type Notifier interface {
	Notify(ctx context.Context, task model.TaskSubmission) error
}

// Runner runs detached work. *dispatch.Dispatcher satisfies it.
type Runner interface {
	Go(name string, job dispatch.Job) bool
}

// SubmitResult is returned for an accepted submission.
type SubmitResult struct {
	Message string
	// Data echoes the submission with the time fields cleared for form reset.
	Data model.TaskSubmission
}

// Service validates, stores and announces task submissions.
type Service struct {
	store    RowStore
	notifier Notifier
	runner   Runner
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the service. now may be nil.
func NewService(store RowStore, notifier Notifier, runner Runner, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    store,
		notifier: notifier,
		runner:   runner,
		logger:   logger.With("component", "FormAction"),
		now:      now,
	}
}

// Submit validates sub, appends it to the sheet and queues the notification.
// A *ValidationError is returned for bad input and ErrSaveFailed when the
// append fails; in that case no notification is sent.
func (s *Service) Submit(ctx context.Context, sub model.TaskSubmission) (*SubmitResult, error) {
	sub.SubmissionTimestamp = s.now().UTC().Format(util.TimestampLayout)

	if fields := Validate(&sub); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.store.AppendRow(ctx, util.SubmissionToRow(&sub)); err != nil {
		s.logger.Error("failed to append data to Google Sheet", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	s.logger.Info("task data appended to Google Sheet", "date", sub.Date, "submitted_by", sub.SubmittedBy)

	s.announce(sub)

	data := sub
	data.StartTime = ""
	data.EndTime = ""
	return &SubmitResult{
		Message: fmt.Sprintf("Task '%s...' logged by %s for %s!", util.Truncate(sub.Description, 30), sub.SubmittedBy, sub.Date),
		Data:    data,
	}, nil
}

// announce hands the notification to the runner. Its outcome is only logged.
func (s *Service) announce(sub model.TaskSubmission) {
	if s.notifier == nil || s.runner == nil {
		return
	}
	queued := s.runner.Go("slack-notify", func(ctx context.Context) error {
		if err := s.notifier.Notify(ctx, sub); err != nil {
			s.logger.Warn("failed to send Slack notification, but task was logged to Sheets", "error", err)
			return err
		}
		s.logger.Info("Slack notification sent")
		return nil
	})
	if !queued {
		s.logger.Warn("Slack notification dropped, but task was logged to Sheets")
	}
}

// List returns every logged task in display form.
func (s *Service) List(ctx context.Context) []model.DisplayTask {
	rows := s.store.ListRows(ctx)
	tasks := make([]model.DisplayTask, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, util.ToDisplayTask(r))
	}
	return tasks
}
