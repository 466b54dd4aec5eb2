package notify

import (
	"sync"
	"time"

	"tender-analysis-service/internal/domain/model"
	"tender-analysis-service/internal/domain/ports/notifier"

	"github.com/rs/zerolog"
)

// Conn is the transport side of one subscriber connection. The
// websocket layer adapts *websocket.Conn to it; tests plug in fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// QueueUpdate tells one owner where their job sits in the queue.
type QueueUpdate struct {
	Type          string `json:"type"`
	QueuePosition int    `json:"queue_position"`
	TotalInQueue  int    `json:"total_in_queue"`
	Timestamp     int64  `json:"timestamp"`
}

// AnalysisUpdate reports job status and progress to every subscriber.
type AnalysisUpdate struct {
	Type       string  `json:"type"`
	AnalysisID int64   `json:"analysis_id"`
	Status     string  `json:"status"`
	Progress   *int    `json:"progress"`
	Error      *string `json:"error"`
	Timestamp  int64   `json:"timestamp"`
}

const sendBuffer = 16

// TextMessage is delivered as a raw text frame instead of JSON.
type TextMessage string

// Subscription is one live connection registered with the Hub. Each
// subscription has a single writer goroutine, so per-connection message
// order follows submission order.
type Subscription struct {
	OwnerID int64

	hub  *Hub
	conn Conn
	send chan any
	done chan struct{}
	once sync.Once
}

// enqueue hands a message to the subscription's writer without ever
// blocking the caller. A full buffer counts as a send failure.
func (s *Subscription) enqueue(msg any) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

// Send queues a message for this subscriber. All writes, including
// direct replies, go through the single writer goroutine.
func (s *Subscription) Send(msg any) bool { return s.enqueue(msg) }

func (s *Subscription) writeLoop() {
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.conn.WriteJSON(msg); err != nil {
				s.hub.log.Debug().Err(err).Int64("user_id", s.OwnerID).Msg("dropping subscriber, write failed")
				s.hub.Unsubscribe(s)
				return
			}
		}
	}
}

// Hub is the in-process notification bus. It keeps the registry of
// live subscriber connections keyed by owner and delivers queue and
// analysis events best effort: a dead connection is dropped, never
// retried, and never blocks delivery to the others.
type Hub struct {
	mu   sync.RWMutex
	subs map[int64]map[*Subscription]struct{}
	log  *zerolog.Logger

	now func() time.Time
}

var _ notifier.AnalysisNotifier = (*Hub)(nil)

func NewHub(logger *zerolog.Logger) *Hub {
	compLog := logger.With().Str("component", "NotifyHub").Logger()
	return &Hub{
		subs: make(map[int64]map[*Subscription]struct{}),
		log:  &compLog,
		now:  time.Now,
	}
}

// Subscribe registers a connection for an owner and starts its writer.
func (h *Hub) Subscribe(ownerID int64, conn Conn) *Subscription {
	s := &Subscription{
		OwnerID: ownerID,
		hub:     h,
		conn:    conn,
		send:    make(chan any, sendBuffer),
		done:    make(chan struct{}),
	}
	h.mu.Lock()
	set := h.subs[ownerID]
	if set == nil {
		set = make(map[*Subscription]struct{})
		h.subs[ownerID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	go s.writeLoop()
	h.log.Info().Int64("user_id", ownerID).Msg("subscriber connected")
	return s
}

// Unsubscribe removes a connection from the registry and closes it.
// Safe to call more than once and from any goroutine.
func (h *Hub) Unsubscribe(s *Subscription) {
	s.once.Do(func() {
		close(s.done)
		h.mu.Lock()
		if set := h.subs[s.OwnerID]; set != nil {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.OwnerID)
			}
		}
		h.mu.Unlock()
		_ = s.conn.Close()
		h.log.Info().Int64("user_id", s.OwnerID).Msg("subscriber disconnected")
	})
}

// SendToOwner delivers a message to every connection of one owner.
func (h *Hub) SendToOwner(ownerID int64, msg any) {
	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.subs[ownerID]))
	for s := range h.subs[ownerID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if !s.enqueue(msg) {
			h.Unsubscribe(s)
		}
	}
}

// Broadcast delivers a message to every connected subscriber.
func (h *Hub) Broadcast(msg any) {
	h.mu.RLock()
	targets := make([]*Subscription, 0, len(h.subs))
	for _, set := range h.subs {
		for s := range set {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if !s.enqueue(msg) {
			h.Unsubscribe(s)
		}
	}
}

// SendQueueUpdate implements notifier.AnalysisNotifier.
func (h *Hub) SendQueueUpdate(ownerID int64, position, total int) {
	h.SendToOwner(ownerID, QueueUpdate{
		Type:          "queue_update",
		QueuePosition: position,
		TotalInQueue:  total,
		Timestamp:     h.now().Unix(),
	})
}

// SendAnalysisUpdate implements notifier.AnalysisNotifier. Updates go
// to every connected subscriber, matching the product's live dashboard
// behavior, not only to the job's owner.
func (h *Hub) SendAnalysisUpdate(analysisID int64, status model.AnalysisStatus, progress *int, errMsg string) {
	var errPtr *string
	if errMsg != "" {
		errPtr = &errMsg
	}
	h.Broadcast(AnalysisUpdate{
		Type:       "analysis_update",
		AnalysisID: analysisID,
		Status:     string(status),
		Progress:   progress,
		Error:      errPtr,
		Timestamp:  h.now().Unix(),
	})
}

// Connections reports the number of live subscriptions.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}
