// Package recorder persists scheduler updates in a SQLite database. Each
// update is stored twice: as CBOR, the wire encoding, for exact decoding
// and as JSON for ad hoc queries with the sqlite3 shell.
package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/msto63/schedclients/api/scheduling"
	"github.com/msto63/schedclients/pkg/clients"
	"github.com/msto63/schedclients/pkg/core/logging"
)

// queueSize is the number of updates buffered between the streams and the database
const queueSize = 256

// Source delivers updates to record. *clients.Fleet implements it.
type Source interface {
	Observe(fn func(clients.Update), kinds ...string) (remove func())
}

// Entry is one recorded update
type Entry struct {
	ID         int64
	Session    string
	Kind       string
	ReceivedAt time.Time
	CBOR       []byte
	JSON       string
}

// Decode decodes the CBOR payload of the entry into v
func (e Entry) Decode(v any) error {
	return scheduling.Unmarshal(e.CBOR, v)
}

// Config holds recorder configuration
type Config struct {
	Path string
}

// DefaultConfig returns default recorder configuration
func DefaultConfig() Config {
	return Config{
		Path: "schedclients.db",
	}
}

// Recorder writes updates to SQLite
type Recorder struct {
	db      *sql.DB
	mu      sync.Mutex
	session string
	logger  *logging.Logger
}

// New opens or creates the database at cfg.Path
func New(cfg Config) (*Recorder, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	r := &Recorder{
		db:      db,
		session: uuid.NewString(),
		logger:  logging.New("recorder"),
	}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	r.logger.Info("Recorder opened", "path", cfg.Path, "session", r.session)
	return r, nil
}

func (r *Recorder) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS updates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		kind TEXT NOT NULL,
		received_at INTEGER NOT NULL,
		payload BLOB NOT NULL,
		json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_updates_kind ON updates(kind);
	CREATE INDEX IF NOT EXISTS idx_updates_received_at ON updates(received_at DESC);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Session returns the identifier written with every update of this recorder
func (r *Recorder) Session() string {
	return r.session
}

// Record stores one update
func (r *Recorder) Record(ctx context.Context, u clients.Update) error {
	payload, err := scheduling.Marshal(u.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", u.Kind, err)
	}
	text, err := json.Marshal(u.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload as json: %w", u.Kind, err)
	}

	received := u.Received
	if received.IsZero() {
		received = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO updates (session, kind, received_at, payload, json)
		VALUES (?, ?, ?, ?, ?)
	`, r.session, u.Kind, received.UnixNano(), payload, string(text))
	if err != nil {
		return fmt.Errorf("failed to insert update: %w", err)
	}
	return nil
}

// Recent returns the newest updates first. An empty kind matches every kind.
func (r *Recorder) Recent(ctx context.Context, kind string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, session, kind, received_at, payload, json FROM updates`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query updates: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var received int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Kind, &received, &e.CBOR, &e.JSON); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		e.ReceivedAt = time.Unix(0, received)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored updates. An empty kind counts all.
func (r *Recorder) Count(ctx context.Context, kind string) (int64, error) {
	query := `SELECT COUNT(*) FROM updates`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count updates: %w", err)
	}
	return n, nil
}

// Prune deletes updates received before now minus olderThan
func (r *Recorder) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM updates WHERE received_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune updates: %w", err)
	}
	return res.RowsAffected()
}

// Attach records every update of src until detach is called. Updates are
// queued so that slow disks do not stall the streams; when the queue is
// full the update is dropped and logged.
func (r *Recorder) Attach(src Source, kinds ...string) (detach func()) {
	queue := make(chan clients.Update, queueSize)
	done := make(chan struct{})

	var mu sync.Mutex
	closed := false

	go func() {
		defer close(done)
		for u := range queue {
			if err := r.Record(context.Background(), u); err != nil {
				r.logger.Error("Failed to record update", "kind", u.Kind, "error", err)
			}
		}
	}()

	remove := src.Observe(func(u clients.Update) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case queue <- u:
		default:
			r.logger.Warn("Recorder queue full, update dropped", "kind", u.Kind)
		}
	}, kinds...)

	var once sync.Once
	return func() {
		once.Do(func() {
			remove()
			mu.Lock()
			closed = true
			close(queue)
			mu.Unlock()
			<-done
		})
	}
}

// Close closes the database
func (r *Recorder) Close() error {
	return r.db.Close()
}
