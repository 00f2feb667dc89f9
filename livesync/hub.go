package livesync

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Subscriber receives the events of one challan. The buffer keeps slow
// consumers from stalling the feed; a full buffer drops the event for that
// subscriber only (they re-read state on reconnect).
type Subscriber struct {
	ID        string
	ChallanNo string
	Events    chan Event
}

// RateChangeFunc is invoked for transport_hub_rate changes so rate caches
// can invalidate the affected city.
type RateChangeFunc func(cityID int64)

// RefetchFunc loads the current row for a table/key pair. The trigger drops
// the row body from notifications that would exceed the pg_notify payload
// cap, so the hub refetches those rows before folding the event.
type RefetchFunc func(table, key string) (json.RawMessage, error)

// Hub consumes one Feed, folds kaat/settlement events into per-challan state
// via the reducer, and fans the events out to subscribers of that challan.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
	states      map[string]*State
	onRate      RateChangeFunc
	refetch     RefetchFunc
	log         *logrus.Entry
}

func NewHub(onRate RateChangeFunc, refetch RefetchFunc) *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		states:      make(map[string]*State),
		onRate:      onRate,
		refetch:     refetch,
		log:         logrus.WithField("component", "livesync_hub"),
	}
}

// Run consumes the feed until it closes. Call in its own goroutine.
func (h *Hub) Run(feed Feed) {
	for e := range feed.Events() {
		h.dispatch(e)
	}
	h.log.Info("live feed closed")
}

func (h *Hub) dispatch(e Event) {
	if e.Table == TableRate {
		if h.onRate != nil {
			h.onRate(e.CityID)
		}
		return
	}
	if e.ChallanNo == "" {
		return
	}
	if e.Op != OpDelete && len(e.Record) == 0 && h.refetch != nil {
		record, err := h.refetch(e.Table, e.Key)
		if err != nil {
			// the reducer evicts the key, so state stays consistent
			h.log.WithFields(logrus.Fields{
				"table": e.Table,
				"key":   e.Key,
			}).WithError(err).Warn("refetch failed for oversized notification")
		} else {
			e.Record = record
		}
	}

	h.mu.Lock()
	state, ok := h.states[e.ChallanNo]
	if !ok {
		state = NewState()
	}
	h.states[e.ChallanNo] = Apply(state, e)
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		if sub.ChallanNo != e.ChallanNo {
			continue
		}
		select {
		case sub.Events <- e:
		default:
			h.log.WithFields(logrus.Fields{
				"subscriber": sub.ID,
				"challan_no": e.ChallanNo,
			}).Warn("subscriber buffer full, dropping event")
		}
	}
}

// StateFor returns the current folded state of a challan, never nil.
func (h *Hub) StateFor(challanNo string) *State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if state, ok := h.states[challanNo]; ok {
		return state
	}
	return NewState()
}

func (h *Hub) Subscribe(id, challanNo string) *Subscriber {
	sub := &Subscriber{
		ID:        id,
		ChallanNo: challanNo,
		Events:    make(chan Event, 32),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[id] = sub
	h.log.WithFields(logrus.Fields{
		"subscriber": id,
		"challan_no": challanNo,
		"total":      len(h.subscribers),
	}).Info("subscriber registered")
	return sub
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subscribers[id]; ok {
		close(sub.Events)
		delete(h.subscribers, id)
		h.log.WithFields(logrus.Fields{
			"subscriber": id,
			"total":      len(h.subscribers),
		}).Info("subscriber unregistered")
	}
}
