package notify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"feedback-analytics/internal/models"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func createdEvent() Event {
	return Event{
		ID:    "evt-1",
		Type:  EventFeedbackCreated,
		Actor: "alice",
		Feedback: &models.Feedback{
			ID:               42,
			Author:           "alice",
			Course:           "Data Science",
			Instructor:       "Prof. Johnson",
			CourseRating:     5,
			InstructorRating: 4,
			ServicesRating:   3,
			Comments:         "<b>great</b>",
		},
		OccurredAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Publish(context.Background(), createdEvent()))

	entries := logs.FilterMessage("feedback event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, EventFeedbackCreated, fields["type"])
	assert.Equal(t, int64(42), fields["feedback_id"])
}

func TestLogNotifier_ClearedEventHasNoFeedbackFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Publish(context.Background(), Event{ID: "e", Type: EventFeedbackCleared, Actor: "root"}))

	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "feedback_id")
	assert.Equal(t, "root", fields["actor"])
}

func TestEmailNotifier_Created(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifierWithSender(sender, "noreply@example.com", "admin@example.com", zap.NewNop())

	require.NoError(t, n.Publish(context.Background(), createdEvent()))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, []string{"admin@example.com"}, msg.To)
	assert.Equal(t, "New course feedback received", msg.Subject)
	assert.Contains(t, msg.Html, "Data Science")
	assert.Contains(t, msg.Html, "Prof. Johnson")
	assert.Contains(t, msg.Html, "&lt;b&gt;great&lt;/b&gt;")
	assert.NotContains(t, msg.Html, "<b>great</b>")
}

func TestEmailNotifier_Cleared(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifierWithSender(sender, "from", "to", zap.NewNop())

	require.NoError(t, n.Publish(context.Background(), Event{Type: EventFeedbackCleared, Actor: "Admin: root"}))

	assert.Equal(t, "All course feedback was cleared", sender.sent[0].Subject)
	assert.NotContains(t, sender.sent[0].Html, "Course:")
}

func TestEmailNotifier_SendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("rate limited")}
	n := NewEmailNotifierWithSender(sender, "from", "to", zap.NewNop())

	err := n.Publish(context.Background(), createdEvent())

	assert.ErrorContains(t, err, "rate limited")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐ (3)", stars(3))
	assert.Equal(t, "⭐⭐⭐⭐⭐ (5)", stars(5))
	assert.Equal(t, "(0)", stars(0))
	assert.Equal(t, "(-4)", stars(-4))
	assert.Equal(t, "(6)", stars(6))
	assert.Equal(t, "(10000000)", stars(10_000_000))
	assert.Equal(t, fmt.Sprintf("(%d)", math.MaxInt), stars(math.MaxInt))
}

func TestEmailNotifier_HugeRatingKeepsBodySmall(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifierWithSender(sender, "from@example.com", "to@example.com", zap.NewNop())

	err := n.Publish(context.Background(), Event{
		Type:     EventFeedbackCreated,
		Feedback: &models.Feedback{CourseRating: math.MaxInt, InstructorRating: 10_000_000},
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Less(t, len(sender.sent[0].Html), 2048)
	assert.Contains(t, sender.sent[0].Html, fmt.Sprintf("(%d)", math.MaxInt))
}
