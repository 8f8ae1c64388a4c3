package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the independent documents kept in the blobs table
const (
	KeyWorkTasks  = "workTasks"
	KeyBreakTasks = "breakTasks"
	KeyTemplates  = "templates"
	KeyTheme      = "theme"
)

// GetRaw returns the stored value for key, or ErrNotFound
func (s *Store) GetRaw(key string) (string, error) {
	var v string
	err := s.conn.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

// PutRaw stores value under key
func (s *Store) PutRaw(key, value string) error {
	return s.withWriteLock(func() error {
		return putRaw(s.conn, key, value)
	})
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func putRaw(db execer, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// getJSON decodes the document under key into v
func (s *Store) getJSON(key string, v any) error {
	raw, err := s.GetRaw(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.PutRaw(key, string(data))
}
