package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type patientRepoPG struct {
	db         queryable
	collection string
}

// NewRepoPG returns a Repository storing records as JSONB documents in the
// documents table, partitioned by collection.
func NewRepoPG(pool *pgxpool.Pool, collection string) Repository {
	return &patientRepoPG{db: pool, collection: collection}
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("generate id: %w", err)
	}
	p.ID = id
	p.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode patient: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO documents (collection, id, body, created_at)
		VALUES ($1, $2, $3, $4)`,
		r.collection, p.ID, body, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.db.Query(ctx,
		`SELECT body FROM documents WHERE collection = $1 ORDER BY id DESC`, r.collection)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	items := make([]*Patient, 0)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		var p Patient
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return items, nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, r.collection, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
