package cache

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"fitscout-base/pkg/models"
)

// Directory is the durable snapshot store for the gym list. One row per
// namespaced key holds the whole directory wrapped in a timestamped
// envelope; a stale or unreadable row is treated as a miss and removed.
type Directory struct {
	db  *sql.DB
	ttl time.Duration
}

type envelope struct {
	Timestamp time.Time            `json:"timestamp"`
	Data      []models.GymLocation `json:"data"`
}

func NewDirectory(dbPath string, ttl time.Duration) (*Directory, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT NOT NULL PRIMARY KEY,
			data TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Directory{db: db, ttl: ttl}, nil
}

func (d *Directory) Get(key string) ([]models.GymLocation, bool) {
	var data string
	err := d.db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err != nil {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		log.Printf("directory cache: unreadable snapshot %s: %v", key, err)
		d.drop(key)
		return nil, false
	}
	if time.Since(env.Timestamp) > d.ttl {
		d.drop(key)
		return nil, false
	}
	return env.Data, true
}

func (d *Directory) Set(key string, gyms []models.GymLocation) {
	data, err := json.Marshal(envelope{Timestamp: time.Now(), Data: gyms})
	if err != nil {
		log.Printf("directory cache: marshal snapshot %s: %v", key, err)
		return
	}

	_, err = d.db.Exec(
		`INSERT INTO snapshots (key, data) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data`,
		key, string(data),
	)
	if err != nil {
		log.Printf("directory cache: store snapshot %s: %v", key, err)
	}
}

// Prune removes every stale or unreadable snapshot.
func (d *Directory) Prune() {
	rows, err := d.db.Query(`SELECT key, data FROM snapshots`)
	if err != nil {
		return
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var key, data string
		if rows.Scan(&key, &data) != nil {
			continue
		}
		var env envelope
		if json.Unmarshal([]byte(data), &env) != nil || time.Since(env.Timestamp) > d.ttl {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		d.drop(key)
	}
}

func (d *Directory) drop(key string) {
	if _, err := d.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		log.Printf("directory cache: drop snapshot %s: %v", key, err)
	}
}

func (d *Directory) Close() error {
	return d.db.Close()
}
