package livesync

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// NotifyChannel is the Postgres channel the migration-installed triggers
// publish row changes on.
const NotifyChannel = "row_change"

// PostgresFeed turns LISTEN/NOTIFY payloads into Events. The triggers send
// one JSON document per row change: {"table","op","key","challan_no",
// "city_id","record"}.
type PostgresFeed struct {
	listener *pq.Listener
	events   chan Event
	done     chan struct{}
	log      *logrus.Entry
}

func NewPostgresFeed(connURL string) (*PostgresFeed, error) {
	log := logrus.WithField("component", "livesync_postgres")

	listener := pq.NewListener(connURL, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.WithError(err).Warn("listener connection event")
			}
		})
	if err := listener.Listen(NotifyChannel); err != nil {
		listener.Close()
		return nil, err
	}

	f := &PostgresFeed{
		listener: listener,
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
		log:      log,
	}
	go f.run()
	return f, nil
}

func (f *PostgresFeed) run() {
	defer close(f.events)
	for {
		select {
		case n := <-f.listener.Notify:
			if n == nil {
				// connection reset; the listener reconnects on its own
				continue
			}
			var e Event
			if err := json.Unmarshal([]byte(n.Extra), &e); err != nil {
				f.log.WithError(err).Warn("dropping malformed notification payload")
				continue
			}
			select {
			case f.events <- e:
			case <-f.done:
				return
			}
		case <-time.After(90 * time.Second):
			go f.listener.Ping()
		case <-f.done:
			return
		}
	}
}

func (f *PostgresFeed) Events() <-chan Event { return f.events }

func (f *PostgresFeed) Close() error {
	close(f.done)
	return f.listener.Close()
}
