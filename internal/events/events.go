// Package events publishes domain events for downstream consumers such as
// analytics and parent notifications.
package events

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	QuizSubmitted      = "quiz.submitted"
	CourseGenerated    = "course.generated"
	GameStarted        = "game.started"
	GameCompleted      = "game.completed"
	GameFailed         = "game.failed"
	AchievementAwarded = "achievement.awarded"
)

// Event is one published domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// New stamps a payload with an id and the current time.
func New(eventType string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes an event and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, eventType string, payload any) {
	if p == nil {
		return
	}
	e := New(eventType, payload)
	if err := p.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.Printf("publish %s event %s: %v", e.Type, e.ID, err)
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in publish order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
