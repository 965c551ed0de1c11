package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"recordapi/internal/repository"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Collection is a PostgreSQL implementation of repository.Collection.
// Each collection is a table of (id UUID, doc JSONB, created_at TIMESTAMPTZ);
// the document body lives in doc and the ID is merged back in on read.
type Collection[T any] struct {
	db    *sql.DB
	table string
}

// NewCollection creates a Collection over the given table.
func NewCollection[T any](db *sql.DB, table string) (*Collection[T], error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid collection name %q", table)
	}
	return &Collection[T]{db: db, table: table}, nil
}

var _ repository.Collection[map[string]any] = (*Collection[map[string]any])(nil)

// FindAll returns all rows ordered by insertion time.
func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	q := fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY created_at, id`, c.table)
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		doc, err := decode[T](id, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single row by its ID.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, c.table)
	return c.scanOne(c.db.QueryRowContext(ctx, q, id))
}

// Insert stores doc under a new UUID and returns the stored row.
func (c *Collection[T]) Insert(ctx context.Context, doc T) (*T, error) {
	body, err := encode(doc)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2) RETURNING id, doc`, c.table)
	return c.scanOne(c.db.QueryRowContext(ctx, q, uuid.NewString(), body))
}

// FindByIDAndUpdate merges changes into the stored document.
func (c *Collection[T]) FindByIDAndUpdate(ctx context.Context, id string, changes map[string]any) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	body, err := encode(changes)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1 RETURNING id, doc`, c.table)
	return c.scanOne(c.db.QueryRowContext(ctx, q, id, body))
}

// FindByIDAndDelete removes a row and returns its last state.
func (c *Collection[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING id, doc`, c.table)
	return c.scanOne(c.db.QueryRowContext(ctx, q, id))
}

func (c *Collection[T]) scanOne(row *sql.Row) (*T, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decode[T](id, raw)
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", repository.ErrInvalidID, id)
	}
	return nil
}

// encode marshals v as a JSON object without its "id" key.
func encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(fields, "id")
	return json.Marshal(fields)
}

func decode[T any](id string, raw []byte) (*T, error) {
	fields := make(map[string]any)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	fields["id"] = id

	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &out, nil
}
