package ws

import (
	"context"
	"sync"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// ApplicationHub คือศูนย์กลางของ change subscription ในโปรเซส
// subscriber ผูกกับ userID เจ้าของใบสมัคร (เทียบ filter user_id=eq.<id>)
type ApplicationHub struct {
	mu      sync.RWMutex
	clients map[string]map[uint64]func(updated, previous entity.CourierApplication) // userID -> subscribers
	nextID  uint64
	log     *logrus.Entry
}

func NewApplicationHub(log *logrus.Logger) *ApplicationHub {
	return &ApplicationHub{
		clients: make(map[string]map[uint64]func(updated, previous entity.CourierApplication)),
		log:     log.WithField("component", "hub"),
	}
}

// Subscribe คืน dispose; เรียกซ้ำได้ไม่เป็นไร
func (h *ApplicationHub) Subscribe(userID string, fn func(updated, previous entity.CourierApplication)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[uint64]func(updated, previous entity.CourierApplication))
	}
	h.clients[userID][id] = fn
	h.mu.Unlock()
	metrics.Subscriptions.Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients[userID], id)
			if len(h.clients[userID]) == 0 {
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			metrics.Subscriptions.Dec()
		})
	}
}

func (h *ApplicationHub) Publish(_ context.Context, change entity.ApplicationChange) error {
	h.Dispatch(change)
	return nil
}

// Dispatch เรียก handler นอก lock เพื่อให้ handler subscribe/dispose ได้
func (h *ApplicationHub) Dispatch(change entity.ApplicationChange) {
	userID := change.New.UserID
	h.mu.RLock()
	handlers := make([]func(updated, previous entity.CourierApplication), 0, len(h.clients[userID]))
	for _, fn := range h.clients[userID] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		h.invoke(fn, change)
	}
}

func (h *ApplicationHub) invoke(fn func(updated, previous entity.CourierApplication), change entity.ApplicationChange) {
	defer func() {
		if r := recover(); r != nil {
			h.log.WithField("panic", r).Error("change handler panicked")
		}
	}()
	fn(change.New, change.Old)
}

func (h *ApplicationHub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
