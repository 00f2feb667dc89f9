package livesync

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type stubFeed struct {
	ch chan Event
}

func (f *stubFeed) Events() <-chan Event { return f.ch }
func (f *stubFeed) Close() error         { close(f.ch); return nil }

func TestHubFansOutPerChallan(t *testing.T) {
	hub := NewHub(nil, nil)
	feed := &stubFeed{ch: make(chan Event)}

	done := make(chan struct{})
	go func() {
		hub.Run(feed)
		close(done)
	}()

	subA := hub.Subscribe("sub-a", "CH-1")
	subB := hub.Subscribe("sub-b", "CH-2")

	e := kaatEvent(t, OpInsert, "GR-1", "A1")
	feed.ch <- e

	select {
	case got := <-subA.Events:
		if got.Key != "GR-1" {
			t.Fatalf("key = %q, want GR-1", got.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber of CH-1 never received the event")
	}

	select {
	case got := <-subB.Events:
		t.Fatalf("CH-2 subscriber received foreign event %+v", got)
	default:
	}

	if got := len(hub.StateFor("CH-1").Kaats); got != 1 {
		t.Fatalf("folded kaats = %d, want 1", got)
	}
	if got := len(hub.StateFor("CH-2").Kaats); got != 0 {
		t.Fatalf("CH-2 state has %d kaats, want 0", got)
	}

	hub.Unsubscribe("sub-a")
	hub.Unsubscribe("sub-b")
	feed.Close()
	<-done
}

func TestHubRateChangeCallback(t *testing.T) {
	invalidated := make(chan int64, 1)
	hub := NewHub(func(cityID int64) { invalidated <- cityID }, nil)

	hub.dispatch(Event{Table: TableRate, Op: OpUpdate, Key: "10", CityID: 42})

	select {
	case got := <-invalidated:
		if got != 42 {
			t.Fatalf("city = %d, want 42", got)
		}
	default:
		t.Fatal("rate change never reached the callback")
	}
}

func TestHubRefetchFillsOversizedEvent(t *testing.T) {
	var askedTable, askedKey string
	hub := NewHub(nil, func(table, key string) (json.RawMessage, error) {
		askedTable, askedKey = table, key
		return json.RawMessage(`{"gr_no":"GR-1","challan_no":"CH-1","aaa_no":"A9"}`), nil
	})

	sub := hub.Subscribe("sub-a", "CH-1")
	defer hub.Unsubscribe("sub-a")

	// the trigger drops the record from payloads over the notify cap
	hub.dispatch(Event{Table: TableKaat, Op: OpUpdate, Key: "GR-1", ChallanNo: "CH-1"})

	if askedTable != TableKaat || askedKey != "GR-1" {
		t.Fatalf("refetch asked for %s/%s, want %s/GR-1", askedTable, askedKey, TableKaat)
	}
	state := hub.StateFor("CH-1")
	k, ok := state.Kaats["GR-1"]
	if !ok {
		t.Fatal("refetched row never reached the state")
	}
	if k.AAANo == nil || *k.AAANo != "A9" {
		t.Fatalf("aaa_no = %v, want A9", k.AAANo)
	}

	select {
	case got := <-sub.Events:
		if len(got.Record) == 0 {
			t.Fatal("fanned-out event still has an empty record")
		}
	default:
		t.Fatal("subscriber never received the refetched event")
	}
}

func TestHubRefetchFailureEvictsKey(t *testing.T) {
	hub := NewHub(nil, func(table, key string) (json.RawMessage, error) {
		return nil, errors.New("db down")
	})

	hub.dispatch(kaatEvent(t, OpInsert, "GR-1", "A1"))
	if len(hub.StateFor("CH-1").Kaats) != 1 {
		t.Fatal("seed event never reached the state")
	}

	hub.dispatch(Event{Table: TableKaat, Op: OpUpdate, Key: "GR-1", ChallanNo: "CH-1"})

	if _, ok := hub.StateFor("CH-1").Kaats["GR-1"]; ok {
		t.Fatal("stale row kept after refetch failure, want eviction")
	}
}

func TestHubStateForUnknownChallan(t *testing.T) {
	hub := NewHub(nil, nil)
	state := hub.StateFor("CH-404")
	if state == nil || len(state.Kaats) != 0 || len(state.Settlements) != 0 {
		t.Fatalf("state = %+v, want empty non-nil", state)
	}
}
