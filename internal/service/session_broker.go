package service

import (
	"sync"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

const sessionEventBuffer = 4

// SessionBroker fans session events out to open admin event streams.
type SessionBroker struct {
	mu      sync.RWMutex
	subs    map[string]map[*SessionSubscription]struct{}
	metrics *MetricsService
}

// SessionSubscription receives events for one user session until closed.
type SessionSubscription struct {
	C <-chan models.SessionEvent

	ch        chan models.SessionEvent
	userID    string
	sessionID string
	broker    *SessionBroker
	once      sync.Once
}

// NewSessionBroker constructs an empty broker.
func NewSessionBroker(metrics *MetricsService) *SessionBroker {
	return &SessionBroker{subs: make(map[string]map[*SessionSubscription]struct{}), metrics: metrics}
}

// Subscribe registers a listener for events addressed to userID. Events that
// name a session are delivered only when sessionID matches.
func (b *SessionBroker) Subscribe(userID, sessionID string) *SessionSubscription {
	ch := make(chan models.SessionEvent, sessionEventBuffer)
	sub := &SessionSubscription{C: ch, ch: ch, userID: userID, sessionID: sessionID, broker: b}

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*SessionSubscription]struct{})
	}
	b.subs[userID][sub] = struct{}{}
	b.mu.Unlock()

	b.metrics.SessionListenerOpened()
	return sub
}

// Publish delivers evt without blocking; a listener with a full buffer misses it.
func (b *SessionBroker) Publish(evt models.SessionEvent) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[evt.UserID] {
		if evt.SessionID != "" && sub.sessionID != "" && sub.sessionID != evt.SessionID {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

// Listeners reports the number of open subscriptions.
func (b *SessionBroker) Listeners() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, set := range b.subs {
		total += len(set)
	}
	return total
}

// Close unregisters the subscription and closes C. It is safe to call twice.
func (s *SessionSubscription) Close() {
	s.once.Do(func() {
		b := s.broker
		b.mu.Lock()
		if set, ok := b.subs[s.userID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(b.subs, s.userID)
			}
		}
		close(s.ch)
		b.mu.Unlock()
		b.metrics.SessionListenerClosed()
	})
}
