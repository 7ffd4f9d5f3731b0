// Package journal is the local audit log of submitted reports. Each row
// remembers whether the daily aggregate was updated so failed merges can be
// retried later.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Tiliavir/sitelog/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("journal entry not found")

// AggregateStatus records the outcome of the daily aggregate merge.
type AggregateStatus string

const (
	AggregateMerged AggregateStatus = "merged"
	AggregateFailed AggregateStatus = "failed"
)

// Entry is one submission.
type Entry struct {
	ID         string
	ReportDate string
	Period     string
	Project    string
	ReportID   model.ID
	Aggregate  AggregateStatus
	Message    string
	Payload    model.ReportPayload
	CreatedAt  time.Time
}

// Journal is an open journal database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Path returns the journal location below dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "journal.db")
}

// Open opens (and creates) the journal at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return errors.Join(errors.New("journal schema apply failed"), err)
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e, assigning an id and timestamp when they are empty.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	if e.Aggregate == "" {
		e.Aggregate = AggregateMerged
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding journal payload: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO submissions (id, report_date, period, project, report_id, aggregate, message, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ReportDate, e.Period, e.Project, e.ReportID.String(), string(e.Aggregate), e.Message,
		string(payload), e.CreatedAt.UTC().Format(stampLayout))
	if err != nil {
		return Entry{}, fmt.Errorf("recording submission: %w", err)
	}
	return e, nil
}

// stampLayout is fixed width so that created_at sorts chronologically as text.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, report_date, period, project, report_id, aggregate, message, payload, created_at FROM submissions`

// List returns the submissions of date in the order they were made. An
// empty date lists everything.
func (j *Journal) List(ctx context.Context, date string) ([]Entry, error) {
	query := selectColumns + ` ORDER BY created_at, rowid`
	var args []any
	if date != "" {
		query = selectColumns + ` WHERE report_date = ? ORDER BY created_at, rowid`
		args = append(args, date)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns one submission.
func (j *Journal) Get(ctx context.Context, id string) (Entry, error) {
	row := j.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// MarkMerged flags the aggregate merge of id as done.
func (j *Journal) MarkMerged(ctx context.Context, id string) error {
	res, err := j.db.ExecContext(ctx, `UPDATE submissions SET aggregate = ?, message = '' WHERE id = ?`, string(AggregateMerged), id)
	if err != nil {
		return fmt.Errorf("updating submission %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e         Entry
		reportID  string
		aggregate string
		payload   string
		created   string
	)
	if err := s.Scan(&e.ID, &e.ReportDate, &e.Period, &e.Project, &reportID, &aggregate, &e.Message, &payload, &created); err != nil {
		return Entry{}, err
	}
	e.ReportID = model.ID(reportID)
	e.Aggregate = AggregateStatus(aggregate)
	if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
		return Entry{}, fmt.Errorf("decoding payload of %s: %w", e.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Entry{}, fmt.Errorf("decoding timestamp of %s: %w", e.ID, err)
	}
	e.CreatedAt = t
	return e, nil
}
