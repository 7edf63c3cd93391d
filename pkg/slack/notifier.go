package slack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/harrisonrobin/tasklog/pkg/apperr"
	"github.com/harrisonrobin/tasklog/pkg/model"
	"github.com/harrisonrobin/tasklog/pkg/util"
	slackapi "github.com/slack-go/slack"
)

const (
	longDateLayout  = "January 2, 2006"
	submittedLayout = "Jan 2, 2006, 3:04 PM"
)

// NotifierConfig holds the bot token and destination channel.
type NotifierConfig struct {
	BotToken  string
	ChannelID string
	// Location used to render the submission time. Defaults to time.Local.
	Location *time.Location
}

// Notifier posts logged tasks to a Slack channel.
type Notifier struct {
	cfg    NotifierConfig
	opts   []slackapi.Option
	logger *slog.Logger

	once   sync.Once
	client *slackapi.Client
}

// NewNotifier creates a notifier. The Slack client is built on first use and
// reused for the notifier's lifetime.
func NewNotifier(cfg NotifierConfig, logger *slog.Logger, opts ...slackapi.Option) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Notifier{
		cfg:    cfg,
		opts:   opts,
		logger: logger.With("component", "SlackNotifier"),
	}
}

func (n *Notifier) slackClient() *slackapi.Client {
	n.once.Do(func() {
		n.client = slackapi.New(n.cfg.BotToken, n.opts...)
	})
	return n.client
}

// Notify posts a formatted summary of task. Failures are logged and returned;
// callers treat them as advisory.
func (n *Notifier) Notify(ctx context.Context, task model.TaskSubmission) error {
	if n.cfg.ChannelID == "" {
		err := fmt.Errorf("%w: SLACK_CHANNEL_ID is not configured", apperr.ErrNotConfigured)
		n.logger.Error("notify skipped", "error", err)
		return err
	}
	if n.cfg.BotToken == "" {
		err := fmt.Errorf("%w: SLACK_BOT_TOKEN is not configured", apperr.ErrNotConfigured)
		n.logger.Error("notify skipped", "error", err)
		return err
	}

	// Text is sent unescaped so Slack renders the *bold* and _italic_ markup.
	channel, ts, err := n.slackClient().PostMessageContext(ctx, n.cfg.ChannelID,
		slackapi.MsgOptionText(FormatMessage(task, n.cfg.Location), false),
	)
	if err != nil {
		n.logger.Error("failed to send Slack message", "channel", n.cfg.ChannelID, "error", err)
		return fmt.Errorf("%w: %w", apperr.ErrSendFailed, err)
	}

	n.logger.Info("message sent", "channel", channel, "ts", ts)
	return nil
}

// FormatMessage renders task as Slack mrkdwn.
func FormatMessage(task model.TaskSubmission, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*New Task Logged by %s*\n", task.SubmittedBy)
	fmt.Fprintf(&b, "*Date:* %s\n", formatDate(task.Date))
	fmt.Fprintf(&b, "*Task:* %s\n", task.Description)
	fmt.Fprintf(&b, "*Type:* %s\n", task.Type)
	fmt.Fprintf(&b, "*Status:* %s\n", task.Status)
	if task.StartTime != "" && task.EndTime != "" {
		fmt.Fprintf(&b, "*Time:* %s–%s\n", task.StartTime, task.EndTime)
	}
	if strings.TrimSpace(task.Project) != "" {
		fmt.Fprintf(&b, "*Project:* %s\n", task.Project)
	}
	if strings.TrimSpace(task.Comments) != "" {
		fmt.Fprintf(&b, "*Comments:* %s\n", task.Comments)
	}
	fmt.Fprintf(&b, "_Submitted at: %s_", formatSubmitted(task.SubmissionTimestamp, loc))
	return b.String()
}

func formatDate(date string) string {
	d, err := time.Parse(util.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format(longDateLayout)
}

func formatSubmitted(stamp string, loc *time.Location) string {
	ts, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}
	return ts.In(loc).Format(submittedLayout)
}
