package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. seq records insertion order and is never
// reused thanks to AUTOINCREMENT.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    id             TEXT NOT NULL UNIQUE,
    category       TEXT NOT NULL CHECK (category IN ('tops', 'bottoms', 'dresses', 'outerwear', 'shoes', 'accessories')),
    colour         TEXT NOT NULL,
    user_id        TEXT NOT NULL,
    brand          TEXT NOT NULL,
    size           TEXT NOT NULL,
    image_url      TEXT NOT NULL,
    purchase_date  TEXT NOT NULL,
    purchase_price REAL NOT NULL CHECK (purchase_price >= 0),
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_user_category ON items(user_id, category);
`

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
