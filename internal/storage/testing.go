package storage

import (
	"database/sql"
)

// NewTestDB wraps an existing connection in a DB for tests.
// This helper is exported for use in other package tests.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{conn: sqlDB}
}

// OpenMemory opens an in-memory database with the full schema applied.
func OpenMemory() (*DB, error) {
	config := DefaultConfig(MemoryPath)
	config.AutoMigrate = true
	return Open(config)
}
