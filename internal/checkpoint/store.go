package checkpoint

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jactl-lang/jactl/internal/jerr"
	_ "modernc.org/sqlite"
)

// Store persists encoded continuations keyed by a generated uuid, the
// optional durable half of §6.5: "a checkpoint id the host can hand
// back across a process restart to resume a suspended script". Backed
// by modernc.org/sqlite (a cgo-free driver, matching the rest of this
// module's avoidance of cgo toolchain dependencies) through the
// standard database/sql interface.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) a sqlite database at path and
// ensures the checkpoints table exists.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint.OpenStore: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS checkpoints (
		id TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpoint.OpenStore: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save encodes cont and stores it under a freshly generated id.
func (s *Store) Save(cont *jerr.Continuation) (string, error) {
	data, err := Encode(cont)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := s.db.Exec(`INSERT INTO checkpoints (id, data) VALUES (?, ?)`, id, data); err != nil {
		return "", fmt.Errorf("checkpoint.Store.Save: %w", err)
	}
	return id, nil
}

// Load retrieves and decodes the continuation stored under id.
func (s *Store) Load(id string) (*jerr.Continuation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("checkpoint.Store.Load: invalid id %q: %w", id, err)
	}
	var data []byte
	row := s.db.QueryRow(`SELECT data FROM checkpoints WHERE id = ?`, id)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("checkpoint.Store.Load: no checkpoint %q", id)
		}
		return nil, fmt.Errorf("checkpoint.Store.Load: %w", err)
	}
	return Decode(data)
}

// Delete removes a checkpoint once it has been successfully resumed.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM checkpoints WHERE id = ?`, id)
	return err
}
