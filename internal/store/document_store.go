package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/salonbook/internal/db"
)

// MaxStatusCollections caps the collection names reported by Status.
const MaxStatusCollections = 10

var (
	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")
	// ErrDisabled is the cause when the store never connected.
	ErrDisabled = errors.New("store not initialized")
)

// StorageError reports a failed store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Record is a raw stored document.
type Record map[string]any

// Status describes the store for diagnostics.
type Status struct {
	Enabled     bool
	Collections []string
	Err         error
}

// DocumentStore keeps JSON documents grouped by collection inside one
// namespace. A DocumentStore without a database is disabled: writes and reads
// fail with ErrDisabled instead of panicking.
type DocumentStore struct {
	db        *db.DB
	namespace string
	now       func() time.Time
}

func NewDocumentStore(d *db.DB, namespace string) *DocumentStore {
	return &DocumentStore{db: d, namespace: namespace, now: time.Now}
}

// Disabled returns a store that has no connection.
func Disabled() *DocumentStore {
	return &DocumentStore{now: time.Now}
}

// Connect opens databaseURL and returns a ready store. Connection problems
// are logged and produce a disabled store; Connect never fails.
func Connect(databaseURL, namespace string, logger *slog.Logger) *DocumentStore {
	if databaseURL == "" {
		logger.Warn("DATABASE_URL not set, document store disabled")
		return Disabled()
	}

	d, err := db.Open(databaseURL)
	if err != nil {
		logger.Error("failed to connect document store, continuing without it", "dialect", db.DialectFor(databaseURL), "error", err)
		return Disabled()
	}

	logger.Info("document store connected", "dialect", d.Dialect, "namespace", namespace)
	return NewDocumentStore(d, namespace)
}

func (s *DocumentStore) Enabled() bool {
	return s.db != nil
}

// Close releases the connection. It is a no-op on a disabled store.
func (s *DocumentStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert stores doc under collection and returns its generated id. The
// document is stamped with created_at and updated_at.
func (s *DocumentStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if s.db == nil {
		return "", &StorageError{Op: "insert " + collection, Err: ErrDisabled}
	}

	body, err := s.encode(doc)
	if err != nil {
		return "", &StorageError{Op: "insert " + collection, Err: err}
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO documents (id, namespace, collection, body) VALUES (?, ?, ?, ?)
	`), id, s.namespace, collection, string(body))
	if err != nil {
		return "", &StorageError{Op: "insert " + collection, Err: fmt.Errorf("failed to insert document: %w", err)}
	}

	return id, nil
}

func (s *DocumentStore) encode(doc any) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}

	ts := s.now().UTC().Format(time.RFC3339Nano)
	fields["created_at"] = ts
	fields["updated_at"] = ts

	return json.Marshal(fields)
}

// ListAll returns every document in collection in unspecified order. A
// missing or empty collection yields an empty slice.
func (s *DocumentStore) ListAll(ctx context.Context, collection string) ([]Record, error) {
	if s.db == nil {
		return nil, &StorageError{Op: "list " + collection, Err: ErrDisabled}
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT id, body FROM documents WHERE namespace = ? AND collection = ?
	`), s.namespace, collection)
	if err != nil {
		return nil, &StorageError{Op: "list " + collection, Err: fmt.Errorf("failed to query documents: %w", err)}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	records := []Record{}
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, &StorageError{Op: "list " + collection, Err: fmt.Errorf("failed to scan document: %w", err)}
		}

		rec := Record{}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			return nil, &StorageError{Op: "list " + collection, Err: fmt.Errorf("failed to decode document %s: %w", id, err)}
		}
		rec["_id"] = id
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list " + collection, Err: fmt.Errorf("error iterating documents: %w", err)}
	}

	return records, nil
}

// Status reports whether the store is connected and up to
// MaxStatusCollections collection names.
func (s *DocumentStore) Status(ctx context.Context) Status {
	if s.db == nil {
		return Status{}
	}

	st := Status{Enabled: true}
	names, err := s.collectionNames(ctx)
	if err != nil {
		st.Err = err
		return st
	}
	st.Collections = names
	return st
}

func (s *DocumentStore) collectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT DISTINCT collection FROM documents WHERE namespace = ? ORDER BY collection LIMIT ?
	`), s.namespace, MaxStatusCollections)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collections: %w", err)
	}
	return names, nil
}
