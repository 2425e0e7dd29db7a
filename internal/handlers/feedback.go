package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"feedback-analytics/internal/middleware"
	"feedback-analytics/internal/models"
	"feedback-analytics/internal/notify"
	"feedback-analytics/internal/repository"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const sampleAuthor = "Sample Student"

var sampleFeedback = []models.FeedbackInput{
	{Course: "Intro to Programming", Instructor: "Dr. Smith", CourseRating: 4, InstructorRating: 4, ServicesRating: 3, Comments: "Great course content"},
	{Course: "Data Science", Instructor: "Prof. Johnson", CourseRating: 5, InstructorRating: 5, ServicesRating: 5, Comments: "Excellent teaching"},
	{Course: "Web Development", Instructor: "Dr. Williams", CourseRating: 3, InstructorRating: 4, ServicesRating: 3, Comments: "Could improve labs"},
}

type FeedbackHandler struct {
	feedbackRepo *repository.FeedbackRepo
	notifier     notify.Notifier
	clock        clockwork.Clock
	logger       *zap.Logger
}

func NewFeedbackHandler(feedbackRepo *repository.FeedbackRepo, notifier notify.Notifier, clock clockwork.Clock, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		notifier:     notifier,
		clock:        clock,
		logger:       logger,
	}
}

// SubmitFeedbackRequest carries no author; it comes from the session.
type SubmitFeedbackRequest struct {
	Course           string `json:"course"`
	Instructor       string `json:"instructor"`
	CourseRating     int    `json:"courseRating"`
	InstructorRating int    `json:"instructorRating"`
	ServicesRating   int    `json:"servicesRating"`
	Comments         string `json:"comments"`
}

// --- POST /feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	feedback, err := h.feedbackRepo.Append(r.Context(), models.FeedbackInput{
		Author:           user.AuthorName(),
		Course:           req.Course,
		Instructor:       req.Instructor,
		CourseRating:     req.CourseRating,
		InstructorRating: req.InstructorRating,
		ServicesRating:   req.ServicesRating,
		Comments:         req.Comments,
	})
	resp := map[string]interface{}{
		"message":  "feedback submitted successfully",
		"feedback": feedback,
	}
	if err != nil {
		if !errors.Is(err, repository.ErrStorageUnavailable) {
			h.logger.Error("append feedback", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit feedback"})
			return
		}
		resp["warning"] = "feedback saved in memory only; it will not survive a restart"
	}

	h.publish(notify.EventFeedbackCreated, user.AuthorName(), &feedback)
	writeJSON(w, http.StatusCreated, resp)
}

// --- GET /feedback/mine ---

func (h *FeedbackHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": h.feedbackRepo.ByAuthor(user.AuthorName()),
	})
}

// --- GET /admin/feedback ---

func (h *FeedbackHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": h.feedbackRepo.All(),
	})
}

// --- GET /admin/analytics ---

func (h *FeedbackHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.feedbackRepo.Snapshot())
}

// --- DELETE /admin/feedback?confirm=true ---

func (h *FeedbackHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "clearing all feedback requires confirm=true"})
		return
	}

	resp := map[string]string{"message": "all feedback cleared"}
	if err := h.feedbackRepo.Clear(r.Context()); err != nil {
		if !errors.Is(err, repository.ErrStorageUnavailable) {
			h.logger.Error("clear feedback", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear feedback"})
			return
		}
		resp["warning"] = "persisted feedback could not be removed; it will reappear after a restart"
	}

	actor := ""
	if user := middleware.GetUser(r.Context()); user != nil {
		actor = user.AuthorName()
	}
	h.publish(notify.EventFeedbackCleared, actor, nil)
	writeJSON(w, http.StatusOK, resp)
}

// --- POST /admin/feedback/sample ---

func (h *FeedbackHandler) AddSampleData(w http.ResponseWriter, r *http.Request) {
	added := make([]models.Feedback, 0, len(sampleFeedback))
	degraded := false

	for _, in := range sampleFeedback {
		in.Author = sampleAuthor
		feedback, err := h.feedbackRepo.Append(r.Context(), in)
		if err != nil {
			if !errors.Is(err, repository.ErrStorageUnavailable) {
				h.logger.Error("append sample feedback", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add sample data"})
				return
			}
			degraded = true
		}
		added = append(added, feedback)
		h.publish(notify.EventFeedbackCreated, sampleAuthor, &feedback)
	}

	resp := map[string]interface{}{
		"message":  "sample data added successfully",
		"feedback": added,
	}
	if degraded {
		resp["warning"] = "sample data saved in memory only; it will not survive a restart"
	}
	writeJSON(w, http.StatusCreated, resp)
}

// --- GET /admin/export ---

// ExportJSON serves the full collection verbatim as a downloadable file.
func (h *FeedbackHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := json.MarshalIndent(h.feedbackRepo.All(), "", "  ")
	if err != nil {
		h.logger.Error("encode export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export feedback"})
		return
	}

	filename := fmt.Sprintf("feedback-data-%s.json", h.clock.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// publish notifies observers in the background; failures are only logged.
func (h *FeedbackHandler) publish(eventType, actor string, feedback *models.Feedback) {
	event := notify.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Actor:      actor,
		Feedback:   feedback,
		OccurredAt: h.clock.Now().UTC(),
	}
	go func() {
		if err := h.notifier.Publish(context.Background(), event); err != nil {
			h.logger.Warn("publish feedback event",
				zap.String("type", event.Type),
				zap.Error(err),
			)
		}
	}()
}
