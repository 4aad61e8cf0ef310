// Package store caches analysis results in a SQLite database, keyed by a
// generated UUID: a single blob column holding a REZI-encoded payload,
// base64'd for safe storage in a TEXT column.
package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/arnelund/tfa/internal/zone"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// ErrNotFound is returned when no cached record exists for a given ID.
var ErrNotFound = errors.New("no cached analysis with that ID")

// Record is a REZI-serializable snapshot of an analysis run: the input's
// bound sets plus the resulting zone automaton's states, events, edges and
// initial states, each held as a plain slice.
type Record struct {
	Bounds      map[string][]float64
	ZoneStates  []zone.State
	ZoneEvents  []string
	ZoneEdges   []zone.Edge
	ZoneInitial []zone.State
}

// ToZoneAutomaton reassembles the cached zone automaton.
func (r Record) ToZoneAutomaton() zone.Automaton {
	return zone.Automaton{
		States:  r.ZoneStates,
		Events:  r.ZoneEvents,
		Edges:   r.ZoneEdges,
		Initial: r.ZoneInitial,
	}
}

// FromZoneAutomaton builds a cacheable Record from bounds and a zone
// automaton.
func FromZoneAutomaton(boundsByState map[string][]float64, za zone.Automaton) Record {
	return Record{
		Bounds:      boundsByState,
		ZoneStates:  za.States,
		ZoneEvents:  za.Events,
		ZoneEdges:   za.Edges,
		ZoneInitial: za.Initial,
	}
}

// Store is a SQLite-backed cache of analysis Records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		id TEXT NOT NULL PRIMARY KEY,
		payload TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves rec under a freshly generated ID and returns it.
func (s *Store) Put(ctx context.Context, rec Record) (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("generating cache ID: %w", err)
	}

	payload := rezi.EncBinary(rec)
	encoded := base64.StdEncoding.EncodeToString(payload)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, payload, created) VALUES (?, ?, ?)`,
		id.String(), encoded, time.Now().Unix(),
	)
	if err != nil {
		return uuid.UUID{}, wrapDBError(err)
	}

	return id, nil
}

// Get retrieves the Record stored under id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	var encoded string
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM analyses WHERE id = ?;`, id.String())
	if err := row.Scan(&encoded); err != nil {
		return Record{}, wrapDBError(err)
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Record{}, fmt.Errorf("stored payload for %s is corrupt: %w", id, err)
	}

	var rec Record
	n, err := rezi.DecBinary(payload, &rec)
	if err != nil {
		return Record{}, fmt.Errorf("decoding cached analysis %s: %w", id, err)
	}
	if n != len(payload) {
		return Record{}, fmt.Errorf("decoding cached analysis %s: consumed %d/%d bytes", id, n, len(payload))
	}

	return rec, nil
}

// Delete removes the record stored under id, if any.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?;`, id.String())
	if err != nil {
		return wrapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
