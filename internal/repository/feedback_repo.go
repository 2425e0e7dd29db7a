package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"feedback-analytics/internal/analytics"
	"feedback-analytics/internal/metrics"
	"feedback-analytics/internal/models"
	"feedback-analytics/internal/storage"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const DefaultKey = "feedbacks"

var (
	// ErrStorageUnavailable wraps a durable storage failure. The in-memory
	// collection has already been updated when it is returned.
	ErrStorageUnavailable = errors.New("feedback storage unavailable")

	// ErrCorruptData marks a persisted blob that could not be decoded.
	ErrCorruptData = errors.New("corrupt persisted feedback data")
)

// FeedbackRepo owns the feedback collection. Every mutation re-serializes
// the whole collection and overwrites the single blob under key; there is
// no merge with writes from other processes sharing the same storage.
type FeedbackRepo struct {
	storage storage.Storage
	key     string
	clock   clockwork.Clock
	logger  *zap.Logger

	mu      sync.RWMutex
	records []models.Feedback
	lastID  int64
	version uint64
}

type Option func(*FeedbackRepo)

func WithClock(clock clockwork.Clock) Option {
	return func(r *FeedbackRepo) { r.clock = clock }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *FeedbackRepo) { r.logger = logger }
}

// NewFeedbackRepo rehydrates the collection from store. A missing,
// unreadable or corrupt blob yields an empty collection; construction never
// fails.
func NewFeedbackRepo(ctx context.Context, store storage.Storage, key string, opts ...Option) *FeedbackRepo {
	if key == "" {
		key = DefaultKey
	}
	r := &FeedbackRepo{
		storage: store,
		key:     key,
		clock:   clockwork.NewRealClock(),
		logger:  zap.NewNop(),
		records: []models.Feedback{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.rehydrate(ctx)
	return r
}

func (r *FeedbackRepo) rehydrate(ctx context.Context) {
	records, err := r.load(ctx)
	switch {
	case err == nil:
		r.records = records
		for _, f := range records {
			if f.ID > r.lastID {
				r.lastID = f.ID
			}
		}
		metrics.RehydrationsTotal.WithLabelValues("loaded").Inc()
		r.logger.Info("feedback collection loaded", zap.Int("records", len(records)))
	case errors.Is(err, storage.ErrNotFound):
		metrics.RehydrationsTotal.WithLabelValues("empty").Inc()
		r.logger.Info("no persisted feedback, starting empty")
	case errors.Is(err, ErrCorruptData):
		metrics.RehydrationsTotal.WithLabelValues("corrupt").Inc()
		r.logger.Warn("persisted feedback is corrupt, starting empty", zap.Error(err))
	default:
		metrics.RehydrationsTotal.WithLabelValues("unavailable").Inc()
		metrics.StorageErrorsTotal.WithLabelValues("read").Inc()
		r.logger.Warn("feedback storage unreadable, starting empty", zap.Error(err))
	}
	metrics.FeedbackRecords.Set(float64(len(r.records)))
}

func (r *FeedbackRepo) load(ctx context.Context) ([]models.Feedback, error) {
	data, err := r.storage.Read(ctx, r.key)
	if err != nil {
		return nil, err
	}

	var records []models.Feedback
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if records == nil {
		// a persisted "null" is treated as an empty collection
		records = []models.Feedback{}
	}
	return records, nil
}

// Append stamps input with a fresh ID and timestamp and adds it to the
// collection. Ratings are stored as given. If persisting fails the record
// is kept in memory and returned along with an ErrStorageUnavailable error.
func (r *FeedbackRepo) Append(ctx context.Context, input models.FeedbackInput) (models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now().UTC()
	if n := len(r.records); n > 0 && now.Before(r.records[n-1].Timestamp) {
		now = r.records[n-1].Timestamp
	}

	feedback := models.Feedback{
		ID:               r.nextID(now.UnixMilli()),
		Author:           input.Author,
		Course:           input.Course,
		Instructor:       input.Instructor,
		CourseRating:     input.CourseRating,
		InstructorRating: input.InstructorRating,
		ServicesRating:   input.ServicesRating,
		Comments:         input.Comments,
		Timestamp:        now,
	}
	r.records = append(r.records, feedback)
	r.version++
	metrics.FeedbackAppendsTotal.Inc()
	metrics.FeedbackRecords.Set(float64(len(r.records)))

	if err := r.persist(ctx); err != nil {
		return feedback, err
	}
	return feedback, nil
}

// nextID derives the ID from the creation time in milliseconds, bumping
// past the previous ID when two records share a tick.
func (r *FeedbackRepo) nextID(millis int64) int64 {
	id := millis
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

func (r *FeedbackRepo) persist(ctx context.Context) error {
	data, err := json.Marshal(r.records)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}
	if err := r.storage.Write(ctx, r.key, data); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("write").Inc()
		r.logger.Warn("feedback persisted in memory only", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// All returns a copy of the collection in submission order.
func (r *FeedbackRepo) All() []models.Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Feedback, len(r.records))
	copy(out, r.records)
	return out
}

// ByAuthor returns records whose Author equals author exactly, in
// submission order. No match yields an empty slice.
func (r *FeedbackRepo) ByAuthor(author string) []models.Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Feedback{}
	for _, f := range r.records {
		if f.Author == author {
			out = append(out, f)
		}
	}
	return out
}

// Clear empties the collection and removes the persisted blob. The
// in-memory collection is emptied even when the delete fails.
func (r *FeedbackRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = []models.Feedback{}
	r.version++
	metrics.FeedbackClearsTotal.Inc()
	metrics.FeedbackRecords.Set(0)

	if err := r.storage.Delete(ctx, r.key); err != nil {
		metrics.StorageErrorsTotal.WithLabelValues("delete").Inc()
		r.logger.Warn("feedback cleared in memory only", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Snapshot recomputes analytics over the current collection.
func (r *FeedbackRepo) Snapshot() models.Analytics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return analytics.Compute(r.records)
}

// Version increases by one on every Append and Clear.
func (r *FeedbackRepo) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.version
}

// Count returns the number of records held.
func (r *FeedbackRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}
