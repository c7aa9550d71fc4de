package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
)

// NotificationStore holds transient user-facing messages in insertion
// order. It schedules no timers; auto-dismiss is driven by whoever renders
// a notification, using its Duration.
type NotificationStore struct {
	mu    sync.Mutex
	items []models.AppNotification
	notifier
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsub := s.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsub()
	}
}

// Add appends a notification and returns its generated id.
func (s *NotificationStore) Add(severity models.Severity, message string, duration time.Duration) string {
	n := models.AppNotification{
		ID:       uuid.NewString(),
		Severity: severity,
		Message:  message,
		Duration: duration,
	}
	s.mu.Lock()
	s.items = append(s.items, n)
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
	return n.ID
}

// Remove filters the notification out; removing an absent id is a no-op.
func (s *NotificationStore) Remove(id string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, n := range s.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.items = kept
	fns := s.snapshot()
	s.mu.Unlock()
	run(fns)
}

func (s *NotificationStore) List() []models.AppNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AppNotification, len(s.items))
	copy(out, s.items)
	return out
}
