// Package audit records the outcome of every dispatched remediation action.
// Records are write-only: nothing in the bridge reads them back.
package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is one audit record
type Event struct {
	ID         string
	Time       time.Time
	RequestID  string
	Action     string
	Namespace  string
	Deployment string
	Status     string // "success" or "failure"
	Code       int
	Message    string
}

// Recorder persists audit events
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Nop discards every event. Used when no Redis URL is configured.
type Nop struct{}

// Record implements Recorder
func (Nop) Record(context.Context, Event) error { return nil }

// StreamRecorder appends events to a capped Redis stream
type StreamRecorder struct {
	redis  *redis.Client
	stream string
	maxLen int64
	now    func() time.Time
}

// NewStreamRecorder creates a recorder that XADDs to stream, trimming to roughly maxLen entries
func NewStreamRecorder(client *redis.Client, stream string, maxLen int64) *StreamRecorder {
	return &StreamRecorder{
		redis:  client,
		stream: stream,
		maxLen: maxLen,
		now:    time.Now,
	}
}

// Record implements Recorder
func (r *StreamRecorder) Record(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = r.now()
	}

	args := &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]interface{}{
			"id":         e.ID,
			"time":       e.Time.UTC().Format(time.RFC3339Nano),
			"request_id": e.RequestID,
			"action":     e.Action,
			"namespace":  e.Namespace,
			"deployment": e.Deployment,
			"status":     e.Status,
			"code":       strconv.Itoa(e.Code),
			"message":    e.Message,
		},
	}
	if r.maxLen > 0 {
		args.MaxLen = r.maxLen
		args.Approx = true
	}

	if err := r.redis.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append audit event to %s: %w", r.stream, err)
	}
	return nil
}
