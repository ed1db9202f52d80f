package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so stored timestamps also sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const itemColumns = `id, category, colour, user_id, brand, size, image_url, purchase_date, purchase_price, created_at, updated_at`

// SQLiteStore keeps items in the items table created by db.EnsureSchema.
// Insertion order is the seq column.
type SQLiteStore struct {
	db      *sql.DB
	nowFunc func() time.Time
	newID   func() string
}

// NewSQLiteStore creates a new SQLiteStore on an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:      db,
		nowFunc: func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (s *SQLiteStore) Create(ctx context.Context, f Fields) (*Item, error) {
	it := newItem(s.newID(), f, s.nowFunc())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, string(it.Category), it.Colour, it.UserID, it.Brand, it.Size, it.ImageURL,
		formatTime(it.PurchaseDate), it.PurchasePrice, formatTime(it.CreatedAt), formatTime(it.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return &it, nil
}

func (s *SQLiteStore) FindAll(ctx context.Context, q Query) (Page, error) {
	var where []string
	var args []interface{}
	if q.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(q.Category))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var all []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return Page{}, err
		}
		all = append(all, *it)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("listing items: %w", err)
	}
	return ApplyQuery(all, q), nil
}

// FindOne returns an item by id, or (nil, nil) if there is none.
func (s *SQLiteStore) FindOne(ctx context.Context, id string) (*Item, error) {
	return findOne(ctx, s.db, id)
}

func (s *SQLiteStore) Update(ctx context.Context, id string, p Patch) (*Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := findOne(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &NotFoundError{ID: id}
	}

	it := p.Apply(*current)
	it.UpdatedAt = laterOf(s.nowFunc(), it.CreatedAt)
	_, err = tx.ExecContext(ctx,
		`UPDATE items SET category = ?, colour = ?, user_id = ?, brand = ?, size = ?, image_url = ?,
		 purchase_date = ?, purchase_price = ?, updated_at = ? WHERE id = ?`,
		string(it.Category), it.Colour, it.UserID, it.Brand, it.Size, it.ImageURL,
		formatTime(it.PurchaseDate), it.PurchasePrice, formatTime(it.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}
	return &it, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func findOne(ctx context.Context, q queryRower, id string) (*Item, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (*Item, error) {
	var it Item
	var category, purchaseDate, createdAt, updatedAt string
	err := row.Scan(&it.ID, &category, &it.Colour, &it.UserID, &it.Brand, &it.Size, &it.ImageURL,
		&purchaseDate, &it.PurchasePrice, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	it.Category = Category(category)

	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&it.PurchaseDate, purchaseDate},
		{&it.CreatedAt, createdAt},
		{&it.UpdatedAt, updatedAt},
	} {
		t, err := time.Parse(timeLayout, f.src)
		if err != nil {
			return nil, fmt.Errorf("parsing stored time %q: %w", f.src, err)
		}
		*f.dst = t
	}
	return &it, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
