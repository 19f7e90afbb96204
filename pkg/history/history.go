package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// PricePoint is one recorded price observation.
type PricePoint struct {
	ProductID  string    `json:"product_id"`
	Vendor     string    `json:"vendor"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Store reads recorded price observations. The service never writes here;
// the recorder filling the table runs elsewhere.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			product_id TEXT NOT NULL,
			vendor TEXT NOT NULL,
			price REAL NOT NULL,
			currency TEXT NOT NULL DEFAULT 'EUR',
			recorded_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Lowest returns the cheapest observation ever recorded for a product.
func (s *Store) Lowest(productID string) (PricePoint, bool) {
	var p PricePoint
	err := s.db.QueryRow(
		`SELECT product_id, vendor, price, currency, recorded_at
		 FROM price_history WHERE product_id = ?
		 ORDER BY price ASC, recorded_at ASC LIMIT 1`,
		productID,
	).Scan(&p.ProductID, &p.Vendor, &p.Price, &p.Currency, &p.RecordedAt)
	if err != nil {
		return PricePoint{}, false
	}
	return p, true
}

// Recent returns the newest observations for a product, newest first.
func (s *Store) Recent(productID string, limit int) ([]PricePoint, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.Query(
		`SELECT product_id, vendor, price, currency, recorded_at
		 FROM price_history WHERE product_id = ?
		 ORDER BY recorded_at DESC LIMIT ?`,
		productID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricePoint
	for rows.Next() {
		var p PricePoint
		if err := rows.Scan(&p.ProductID, &p.Vendor, &p.Price, &p.Currency, &p.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
