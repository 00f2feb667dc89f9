package livesync

import (
	"encoding/json"

	"github.com/move-sure/ss-transport-sub002/models"
)

// State is the per-challan in-memory view kept consistent across operators:
// the kaat cells keyed by gr_no and the settlements keyed by id.
type State struct {
	Kaats       map[string]*models.ConsignmentKaat
	Settlements map[string]*models.Settlement
}

func NewState() *State {
	return &State{
		Kaats:       make(map[string]*models.ConsignmentKaat),
		Settlements: make(map[string]*models.Settlement),
	}
}

func (s *State) clone() *State {
	next := &State{
		Kaats:       make(map[string]*models.ConsignmentKaat, len(s.Kaats)),
		Settlements: make(map[string]*models.Settlement, len(s.Settlements)),
	}
	for k, v := range s.Kaats {
		next.Kaats[k] = v
	}
	for k, v := range s.Settlements {
		next.Settlements[k] = v
	}
	return next
}

// Apply folds one event into the state and returns the new state. Insert and
// update both upsert, delete removes; rapid successive events for the same
// key resolve last-write-wins. An upsert whose Record is empty (oversized
// notifications ship without the row body) evicts the key rather than
// keeping the stale row; the hub refetches the record upstream whenever it
// can. The input state is never mutated, so event ordering is testable
// without a live subscription. Events for tables the state does not track
// pass through unchanged.
func Apply(s *State, e Event) *State {
	switch e.Table {
	case TableKaat:
		next := s.clone()
		switch e.Op {
		case OpDelete:
			delete(next.Kaats, e.Key)
		default:
			if len(e.Record) == 0 {
				delete(next.Kaats, e.Key)
				return next
			}
			var k models.ConsignmentKaat
			if err := json.Unmarshal(e.Record, &k); err != nil {
				return s
			}
			next.Kaats[k.GRNo] = &k
		}
		return next

	case TableSettlement:
		next := s.clone()
		switch e.Op {
		case OpDelete:
			delete(next.Settlements, e.Key)
		default:
			if len(e.Record) == 0 {
				delete(next.Settlements, e.Key)
				return next
			}
			var st models.Settlement
			if err := json.Unmarshal(e.Record, &st); err != nil {
				return s
			}
			next.Settlements[st.ID] = &st
		}
		return next
	}
	return s
}
