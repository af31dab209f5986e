package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/t77yq/reqsched/internal/model"
)

// RequestRecord represents one fired request and its outcome
type RequestRecord struct {
	ID          string           `json:"id"`
	TaskID      string           `json:"task_id"`
	URL         string           `json:"url"`
	Status      model.TaskStatus `json:"status"`
	StatusCode  int              `json:"status_code,omitempty"`
	Error       string           `json:"error,omitempty"`
	ScheduledAt time.Time        `json:"scheduled_at"`
	FiredAt     time.Time        `json:"fired_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Duration    time.Duration    `json:"duration,omitempty"`
}

// RequestHistoryStorage defines the interface for request history storage
type RequestHistoryStorage interface {
	// Store stores a record for a freshly fired request
	Store(ctx context.Context, record *RequestRecord) error

	// Update updates an existing record with its final outcome
	Update(ctx context.Context, record *RequestRecord) error

	// Get retrieves a record by ID
	Get(ctx context.Context, id string) (*RequestRecord, error)

	// List retrieves records with pagination and filters
	List(ctx context.Context, filters map[string]interface{}, offset, limit int) ([]*RequestRecord, error)

	// Count returns the total number of records matching the filters
	Count(ctx context.Context, filters map[string]interface{}) (int, error)

	// DeleteBefore deletes records fired before the specified time
	DeleteBefore(ctx context.Context, before time.Time) error
}

// SQLiteRequestHistory implements RequestHistoryStorage using SQLite
type SQLiteRequestHistory struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewSQLiteRequestHistory opens (or creates) a SQLite-backed request history
// at dbPath. Existing records are kept so history accumulates across runs.
func NewSQLiteRequestHistory(logger *zap.Logger, dbPath string) (*SQLiteRequestHistory, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteRequestHistory{
		logger: logger,
		db:     db,
	}

	if err := storage.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// initialize creates the necessary tables if they don't exist
func (s *SQLiteRequestHistory) initialize() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS request_history (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			url TEXT NOT NULL,
			status TEXT NOT NULL,
			status_code INTEGER,
			error TEXT,
			scheduled_at DATETIME NOT NULL,
			fired_at DATETIME NOT NULL,
			completed_at DATETIME,
			duration INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_request_history_task_id ON request_history(task_id);
		CREATE INDEX IF NOT EXISTS idx_request_history_status ON request_history(status);
		CREATE INDEX IF NOT EXISTS idx_request_history_fired_at ON request_history(fired_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}

// Store implements RequestHistoryStorage.Store
func (s *SQLiteRequestHistory) Store(ctx context.Context, record *RequestRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_history (
			id, task_id, url, status, scheduled_at, fired_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.TaskID,
		record.URL,
		record.Status,
		record.ScheduledAt,
		record.FiredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store request record: %w", err)
	}
	return nil
}

// Update implements RequestHistoryStorage.Update
func (s *SQLiteRequestHistory) Update(ctx context.Context, record *RequestRecord) error {
	var completedAt sql.NullTime
	if record.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *record.CompletedAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE request_history SET
			status = ?,
			status_code = ?,
			error = ?,
			completed_at = ?,
			duration = ?
		WHERE id = ?`,
		record.Status,
		sql.NullInt64{Int64: int64(record.StatusCode), Valid: record.StatusCode != 0},
		sql.NullString{String: record.Error, Valid: record.Error != ""},
		completedAt,
		sql.NullInt64{Int64: int64(record.Duration), Valid: record.Duration != 0},
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update request record: %w", err)
	}
	return nil
}

// Get implements RequestHistoryStorage.Get
func (s *SQLiteRequestHistory) Get(ctx context.Context, id string) (*RequestRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, url, status, status_code, error,
			scheduled_at, fired_at, completed_at, duration
		FROM request_history
		WHERE id = ?`, id)

	record, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan request record: %w", err)
	}
	return record, nil
}

// List implements RequestHistoryStorage.List
func (s *SQLiteRequestHistory) List(ctx context.Context, filters map[string]interface{}, offset, limit int) ([]*RequestRecord, error) {
	query := "SELECT id, task_id, url, status, status_code, error, scheduled_at, fired_at, completed_at, duration FROM request_history"
	query, args := applyFilters(query, filters)
	query += " ORDER BY fired_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list request history: %w", err)
	}
	defer rows.Close()

	var records []*RequestRecord
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return records, nil
}

// Count implements RequestHistoryStorage.Count
func (s *SQLiteRequestHistory) Count(ctx context.Context, filters map[string]interface{}) (int, error) {
	query := "SELECT COUNT(*) FROM request_history"
	query, args := applyFilters(query, filters)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count request history: %w", err)
	}
	return count, nil
}

// DeleteBefore implements RequestHistoryStorage.DeleteBefore
func (s *SQLiteRequestHistory) DeleteBefore(ctx context.Context, before time.Time) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM request_history WHERE fired_at < ?", before)
	if err != nil {
		return fmt.Errorf("failed to delete request history: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected > 0 {
		s.logger.Info("Deleted old request records",
			zap.Time("before", before),
			zap.Int64("deleted", affected))
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteRequestHistory) Close() error {
	return s.db.Close()
}

// applyFilters appends a WHERE clause for the given equality filters
func applyFilters(query string, filters map[string]interface{}) (string, []interface{}) {
	args := make([]interface{}, 0, len(filters)+2)
	if len(filters) > 0 {
		query += " WHERE"
		first := true
		for key, value := range filters {
			if !first {
				query += " AND"
			}
			query += fmt.Sprintf(" %s = ?", key)
			args = append(args, value)
			first = false
		}
	}
	return query, args
}

// scanRecord reads one request_history row through the given scan function
func scanRecord(scan func(dest ...interface{}) error) (*RequestRecord, error) {
	record := &RequestRecord{}
	var statusCode, durationNanos sql.NullInt64
	var errorStr sql.NullString
	var completedAt sql.NullTime

	err := scan(
		&record.ID,
		&record.TaskID,
		&record.URL,
		&record.Status,
		&statusCode,
		&errorStr,
		&record.ScheduledAt,
		&record.FiredAt,
		&completedAt,
		&durationNanos,
	)
	if err != nil {
		return nil, err
	}

	if statusCode.Valid {
		record.StatusCode = int(statusCode.Int64)
	}
	if errorStr.Valid {
		record.Error = errorStr.String
	}
	if completedAt.Valid {
		record.CompletedAt = &completedAt.Time
	}
	if durationNanos.Valid {
		record.Duration = time.Duration(durationNanos.Int64)
	}

	return record, nil
}
