package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"feedback-analytics/internal/metrics"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// EmailSender is the part of the Resend client the notifier uses.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier mails each event to a fixed recipient through Resend.
type EmailNotifier struct {
	sender EmailSender
	from   string
	to     string
	logger *zap.Logger
}

func NewEmailNotifier(apiKey, from, to string, logger *zap.Logger) *EmailNotifier {
	client := resend.NewClient(apiKey)
	return NewEmailNotifierWithSender(client.Emails, from, to, logger)
}

func NewEmailNotifierWithSender(sender EmailSender, from, to string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to, logger: logger}
}

func (n *EmailNotifier) Publish(ctx context.Context, event Event) error {
	sent, err := n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject(event),
		Html:    body(event),
	})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(event.Type, "failed").Inc()
		return fmt.Errorf("send notification email: %w", err)
	}

	metrics.NotificationsTotal.WithLabelValues(event.Type, "sent").Inc()
	n.logger.Debug("notification email sent",
		zap.String("email_id", sent.Id),
		zap.String("event_id", event.ID),
	)
	return nil
}

func subject(event Event) string {
	switch event.Type {
	case EventFeedbackCreated:
		return "New course feedback received"
	case EventFeedbackCleared:
		return "All course feedback was cleared"
	default:
		return "Feedback event: " + event.Type
	}
}

func body(event Event) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">`)
	fmt.Fprintf(&b, "<p><strong>By:</strong> %s</p>", html.EscapeString(event.Actor))

	if f := event.Feedback; f != nil {
		fmt.Fprintf(&b, "<p><strong>Course:</strong> %s</p>", html.EscapeString(f.Course))
		fmt.Fprintf(&b, "<p><strong>Instructor:</strong> %s</p>", html.EscapeString(f.Instructor))
		fmt.Fprintf(&b, "<p>Course %s<br>Instructor %s<br>Services %s</p>",
			stars(f.CourseRating), stars(f.InstructorRating), stars(f.ServicesRating))
		if f.Comments != "" {
			fmt.Fprintf(&b, "<blockquote>%s</blockquote>", html.EscapeString(f.Comments))
		}
	}

	fmt.Fprintf(&b, `<p style="color: #aaa; font-size: 12px;">%s</p></div>`, event.OccurredAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

// stars draws 1..5 as icons; anything outside that range is shown as a number only.
func stars(rating int) string {
	if rating < 1 || rating > 5 {
		return fmt.Sprintf("(%d)", rating)
	}
	return strings.Repeat("⭐", rating) + fmt.Sprintf(" (%d)", rating)
}
