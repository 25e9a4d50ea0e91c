package session

import (
	"encoding/json"
	"sync"
	"sync/atomic"
)

// NotificationType distinguishes routine feed entries from warnings.
// Warnings always reach the player; gain/sell entries respect the
// showNotifications setting.
type NotificationType string

const (
	NotifyGain    NotificationType = "gain"
	NotifySell    NotificationType = "sell"
	NotifyWarning NotificationType = "warning"
)

// Notification is one entry in a player's event feed.
type Notification struct {
	ID      int64            `json:"id"`
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

var notificationSeq atomic.Int64

func newNotification(kind NotificationType, message string) Notification {
	return Notification{
		ID:      notificationSeq.Add(1),
		Type:    kind,
		Message: message,
	}
}

// Broker is an in-process pub/sub for notification events, keyed by user ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel receiving JSON-encoded notifications for the
// given user.
func (b *Broker) Subscribe(userID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan []byte]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the user's subscribers.
func (b *Broker) Unsubscribe(userID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[userID], ch)
	if len(b.subs[userID]) == 0 {
		delete(b.subs, userID)
	}
	b.mu.Unlock()
}

// Publish sends a notification to all subscribers of the given user.
func (b *Broker) Publish(userID string, n Notification) {
	data, _ := json.Marshal(n)
	b.mu.RLock()
	for ch := range b.subs[userID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
