package contact

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/folio/internal/db"
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Record is a stored submission.
type Record struct {
	Submission
	// Forwarded is true when the configured endpoint accepted it.
	Forwarded bool `json:"forwarded"`
}

// Store keeps submissions in the local database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts a submission. Saving the same id twice updates its
// forwarded flag.
func (s *Store) Save(ctx context.Context, sub *Submission, forwarded bool) error {
	fields, err := json.Marshal(sub.Fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, fields, received_at, forwarded)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET forwarded = excluded.forwarded`,
		sub.ID,
		sub.Name,
		sub.Email,
		string(fields),
		sub.ReceivedAt.UTC().Format(timeLayout),
		forwarded,
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

// List returns up to limit submissions, newest first. A limit below one
// returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, name, email, fields, received_at, forwarded
		FROM contact_submissions ORDER BY received_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		r        Record
		fields   string
		received string
	)
	if err := rows.Scan(&r.ID, &r.Name, &r.Email, &fields, &received, &r.Forwarded); err != nil {
		return Record{}, fmt.Errorf("scanning submission: %w", err)
	}
	if err := json.Unmarshal([]byte(fields), &r.Fields); err != nil {
		return Record{}, fmt.Errorf("decoding fields of %s: %w", r.ID, err)
	}
	t, err := time.Parse(timeLayout, received)
	if err != nil {
		return Record{}, fmt.Errorf("parsing received_at of %s: %w", r.ID, err)
	}
	r.ReceivedAt = t
	return r, nil
}
