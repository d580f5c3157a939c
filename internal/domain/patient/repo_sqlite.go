package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/patientdesk/internal/platform/sqlitedb"
)

// Compile-time interface satisfaction check.
var _ Repository = (*patientRepoSQLite)(nil)

type patientRepoSQLite struct {
	db         *sqlitedb.DB
	collection string
}

// NewRepoSQLite returns a Repository backed by the embedded SQLite document
// table. IDs are stored in canonical text form, which sorts in creation
// order for time-ordered UUIDs.
func NewRepoSQLite(db *sqlitedb.DB, collection string) Repository {
	return &patientRepoSQLite{db: db, collection: collection}
}

func (r *patientRepoSQLite) Create(ctx context.Context, p *Patient) error {
	id, err := newID()
	if err != nil {
		return fmt.Errorf("generate id: %w", err)
	}
	p.ID = id
	p.CreatedAt = time.Now().UTC()

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode patient: %w", err)
	}

	const query = `INSERT INTO documents (collection, id, body, created_at) VALUES (?, ?, ?, ?)`
	_, err = r.db.Writer.ExecContext(ctx, query,
		r.collection, p.ID.String(), string(body), p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *patientRepoSQLite) List(ctx context.Context) ([]*Patient, error) {
	const query = `SELECT body FROM documents WHERE collection = ? ORDER BY id DESC`
	rows, err := r.db.Reader.QueryContext(ctx, query, r.collection)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	items := make([]*Patient, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		var p Patient
		if err := json.Unmarshal([]byte(body), &p); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return items, nil
}

func (r *patientRepoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM documents WHERE collection = ? AND id = ?`
	res, err := r.db.Writer.ExecContext(ctx, query, r.collection, id.String())
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoSQLite) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
