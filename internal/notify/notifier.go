package notify

import (
	"context"
	"time"

	"feedback-analytics/internal/models"
)

const (
	EventFeedbackCreated = "feedback.created"
	EventFeedbackCleared = "feedback.cleared"
)

// Event describes a mutation of the feedback collection. Feedback is set
// for EventFeedbackCreated only.
type Event struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Actor      string           `json:"actor"`
	Feedback   *models.Feedback `json:"feedback,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Notifier publishes collection events to an observer channel. Swapping
// the log notifier for e-mail delivery needs no caller changes.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}
