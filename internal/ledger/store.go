package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metalagman/credo/internal/contract"
)

// Store appends and reads execution records. Records are never mutated or
// deleted once committed.
type Store struct {
	db *sql.DB
}

// NewStore creates a store for execution history persistence.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// HistoryEntry is one row of the recency-ordered history listing.
type HistoryEntry struct {
	ID              int64  `json:"id"`
	Timestamp       string `json:"timestamp"`
	ExecutionStatus string `json:"execution_status"`
}

// Record is a full execution record including decoded payloads.
type Record struct {
	ID              int64          `json:"id"`
	Timestamp       string         `json:"timestamp"`
	Header          map[string]any `json:"header"`
	UserSpecs       map[string]any `json:"user_specs"`
	ExecutionStatus string         `json:"execution_status"`
	ExecutionResult map[string]any `json:"execution_result,omitempty"`
}

// RecordExecution appends one record for the contract in a single transaction
// and returns the ledger-assigned id. The status is taken from the result's
// "status" key when present, "unknown" otherwise.
func (s *Store) RecordExecution(ctx context.Context, c contract.FinalContract, result map[string]any) (int64, error) {
	headerJSON, err := json.Marshal(c.Header)
	if err != nil {
		return 0, fmt.Errorf("encode header: %w", err)
	}
	specsJSON, err := json.Marshal(c.UserSpecs)
	if err != nil {
		return 0, fmt.Errorf("encode user specs: %w", err)
	}

	status := "unknown"
	if v, ok := result["status"]; ok {
		status = fmt.Sprint(v)
	}
	var resultJSON any
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return 0, fmt.Errorf("encode execution result: %w", err)
		}
		resultJSON = string(data)
	}
	ts := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin record execution: %w", err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO executions(timestamp, header_json, user_specs_json, execution_status, execution_result_json)
		VALUES(?, ?, ?, ?, ?)`,
		ts, string(headerJSON), string(specsJSON), status, resultJSON)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert execution: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("read execution id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record execution: %w", err)
	}
	return id, nil
}

// History returns at most limit entries ordered most recent first. Each call
// queries the ledger fresh, so results always reflect the current state.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit < 0 {
		// a negative LIMIT means unbounded in SQLite
		limit = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, timestamp, execution_status
		FROM executions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ExecutionStatus); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// Fetch returns the full record for an id. ok is false when the id is absent.
func (s *Store) Fetch(ctx context.Context, id int64) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, timestamp, header_json, user_specs_json, execution_status, execution_result_json
		FROM executions WHERE id=?`, id)

	var rec Record
	var headerJSON, specsJSON string
	var resultJSON sql.NullString
	if err := row.Scan(&rec.ID, &rec.Timestamp, &headerJSON, &specsJSON, &rec.ExecutionStatus, &resultJSON); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("read execution %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(headerJSON), &rec.Header); err != nil {
		return Record{}, false, fmt.Errorf("decode header for execution %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(specsJSON), &rec.UserSpecs); err != nil {
		return Record{}, false, fmt.Errorf("decode user specs for execution %d: %w", id, err)
	}
	if resultJSON.Valid {
		if err := json.Unmarshal([]byte(resultJSON.String), &rec.ExecutionResult); err != nil {
			return Record{}, false, fmt.Errorf("decode result for execution %d: %w", id, err)
		}
	}
	return rec, true, nil
}

// Export renders the record for an id as a downloadable JSON payload.
func (s *Store) Export(ctx context.Context, id int64) (string, bool, error) {
	rec, ok, err := s.Fetch(ctx, id)
	if err != nil || !ok {
		return "", ok, err
	}
	payload := map[string]any{
		"id":               rec.ID,
		"timestamp":        rec.Timestamp,
		"execution_status": rec.ExecutionStatus,
		"contract": map[string]any{
			"header":     rec.Header,
			"user_specs": rec.UserSpecs,
		},
		"execution_result": rec.ExecutionResult,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("encode export for execution %d: %w", id, err)
	}
	return string(data), true, nil
}
