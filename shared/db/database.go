// Package db holds the database lifecycle interface and context-carried
// transaction plumbing shared by all repositories.
package db

import (
	"database/sql"
)

// Database is the scoped-acquisition lifecycle for a storage backend: opened
// once at startup, handed to repositories, closed at shutdown.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
