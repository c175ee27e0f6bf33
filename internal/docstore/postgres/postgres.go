// Package postgres backs the docstore with a single JSONB documents table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/orlogbook/orlog-api/internal/docstore"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func NewDB(cfg Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			collection TEXT NOT NULL,
			doc JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{db: s.db, name: name}
}

type collection struct {
	db   *sqlx.DB
	name string
}

func (c *collection) Add(ctx context.Context, doc docstore.Document) (string, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	id := uuid.New().String()
	query := `INSERT INTO documents (id, collection, doc) VALUES ($1, $2, $3)`
	if _, err := c.db.ExecContext(ctx, query, id, c.name, payload); err != nil {
		return "", fmt.Errorf("failed to add document: %w", err)
	}
	return id, nil
}

func (c *collection) Get(ctx context.Context, id string) (*docstore.Snapshot, error) {
	query := `SELECT doc FROM documents WHERE collection = $1 AND id = $2`

	var payload []byte
	err := c.db.GetContext(ctx, &payload, query, c.name, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	var doc docstore.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &docstore.Snapshot{ID: id, Data: doc}, nil
}

func (c *collection) Update(ctx context.Context, id string, fields docstore.Document) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	query := `UPDATE documents SET doc = doc || $3::jsonb WHERE collection = $1 AND id = $2`
	res, err := c.db.ExecContext(ctx, query, c.name, id, payload)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *collection) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	if _, err := c.db.ExecContext(ctx, query, c.name, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (c *collection) Find(ctx context.Context, q *docstore.Query) ([]*docstore.Snapshot, error) {
	where, args, err := buildWhere(c.name, q.Predicates)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, doc FROM documents`)
	sb.WriteString(where)

	if len(q.Orders) > 0 {
		clauses := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			if err := checkField(o.Field); err != nil {
				return nil, err
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' %s", o.Field, dir))
		}
		sb.WriteString(" ORDER BY " + strings.Join(clauses, ", "))
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	rows, err := c.db.QueryxContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var snaps []*docstore.Snapshot
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		var doc docstore.Document
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}
		snaps = append(snaps, &docstore.Snapshot{ID: id, Data: doc})
	}
	return snaps, rows.Err()
}

func (c *collection) Count(ctx context.Context, preds []docstore.Predicate) (int, error) {
	where, args, err := buildWhere(c.name, preds)
	if err != nil {
		return 0, err
	}

	var total int
	query := `SELECT COUNT(*) FROM documents` + where
	if err := c.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return total, nil
}

func buildWhere(name string, preds []docstore.Predicate) (string, []interface{}, error) {
	clauses := []string{"collection = $1"}
	args := []interface{}{name}

	for _, p := range preds {
		if err := checkField(p.Field); err != nil {
			return "", nil, err
		}
		switch p.Op {
		case docstore.OpEqual:
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' = $%d", p.Field, len(args)))
		case docstore.OpGreaterOrEqual:
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' >= $%d", p.Field, len(args)))
		case docstore.OpLessOrEqual:
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' <= $%d", p.Field, len(args)))
		case docstore.OpLessThan:
			args = append(args, p.Value)
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' < $%d", p.Field, len(args)))
		case docstore.OpIn:
			values, ok := p.Value.([]string)
			if !ok {
				return "", nil, fmt.Errorf("in predicate on %q requires a string slice", p.Field)
			}
			args = append(args, pq.Array(values))
			clauses = append(clauses, fmt.Sprintf("doc->>'%s' = ANY($%d)", p.Field, len(args)))
		default:
			return "", nil, fmt.Errorf("unsupported predicate operator %q", p.Op)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

var fieldPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

func checkField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}
	return nil
}
