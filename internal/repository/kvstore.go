package repository

import (
	"database/sql"
	"sort"
	"sync"
)

// KVStore is the namespaced key-value storage the session and export
// layers are built on. It is always passed in explicitly, never
// reached as ambient global state, so the logic stays testable.
type KVStore interface {
	// Get returns the value for key; ok is false when the key is absent
	Get(key string) (value string, ok bool, err error)
	// Set writes or overwrites the value for key
	Set(key, value string) error
	// Delete removes key; deleting an absent key is not an error
	Delete(key string) error
	// Keys returns all keys currently held, sorted
	Keys() ([]string, error)
	// Entries returns a snapshot of all key/value pairs
	Entries() (map[string]string, error)
}

// SQLiteStore implements KVStore on the storage table
type SQLiteStore struct {
	db *DB
}

// NewSQLiteStore creates a KV store backed by the database
func NewSQLiteStore(db *DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the value for a key
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes or overwrites the value for a key
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Delete removes a key
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM storage WHERE key = ?`, key)
	return err
}

// Keys returns all keys, sorted
func (s *SQLiteStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM storage ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Entries returns all key/value pairs
func (s *SQLiteStore) Entries() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM storage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		entries[key] = value
	}
	return entries, rows.Err()
}

// MemoryStore is an in-memory KVStore used in tests
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get retrieves the value for a key
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok, nil
}

// Set writes or overwrites the value for a key
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Delete removes a key
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Keys returns all keys, sorted
func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Entries returns all key/value pairs
func (s *MemoryStore) Entries() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make(map[string]string, len(s.entries))
	for key, value := range s.entries {
		entries[key] = value
	}
	return entries, nil
}
