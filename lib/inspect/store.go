package inspect

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound indicates the requested snapshot doesn't exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store handles SQLite storage for snapshots.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates a snapshot store backed by the database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		taken_at TEXT NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists a snapshot and returns its generated ID.
func (s *Store) Save(snap *Snapshot) (string, error) {
	data, err := Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.Exec(
		"INSERT INTO snapshots (id, taken_at, data) VALUES (?, ?, ?)",
		id, snap.TakenAt.Format(time.RFC3339Nano), data,
	)
	if err != nil {
		return "", fmt.Errorf("saving snapshot: %w", err)
	}

	return id, nil
}

// Load retrieves a snapshot by ID.
func (s *Store) Load(id string) (*Snapshot, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM snapshots WHERE id = ?", id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	return Unmarshal(data)
}

// Info describes one stored snapshot.
type Info struct {
	ID      string
	TakenAt time.Time
}

// List returns the stored snapshots, newest first.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query("SELECT id, taken_at FROM snapshots ORDER BY taken_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var takenAt string
		if err := rows.Scan(&info.ID, &takenAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		info.TakenAt, err = time.Parse(time.RFC3339Nano, takenAt)
		if err != nil {
			return nil, fmt.Errorf("parsing snapshot timestamp: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes a snapshot from the database.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}
