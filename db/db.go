package db

import "context"

// DBType selects the settlement store backend. Postgres drives the live
// feed through LISTEN/NOTIFY triggers, Mongo through change streams.
type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
)

type DB interface {
	Connect() error
	Disconnect() error
	GetContext() context.Context
}
