package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"go.uber.org/zap"

	"github.com/who0xac/hackfusion/pkg/plan"
	"github.com/who0xac/hackfusion/pkg/report"
)

// ErrNotFound is returned by Get for an unknown report ID
var ErrNotFound = errors.New("report not found")

// Record is one archived plan run
type Record struct {
	ID        string
	Request   string
	Category  string
	Steps     int
	Failed    int
	Findings  int
	CreatedAt time.Time
	Markdown  string
	Run       *plan.Run
}

// ReportStore archives finished reports in SQLite
type ReportStore struct {
	DB     *sql.DB
	logger *zap.Logger
}

// NewReportStore opens (creating if needed) the archive at dbPath
func NewReportStore(dbPath string, logger *zap.Logger) (*ReportStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Create tables if not exist
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			request TEXT,
			category TEXT,
			steps INTEGER,
			failed INTEGER,
			findings INTEGER,
			created_at TEXT,
			markdown TEXT,
			run_json TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize history database: %w", err)
		}
	}

	return &ReportStore{DB: db, logger: logger}, nil
}

// Close closes the database
func (s *ReportStore) Close() error {
	return s.DB.Close()
}

// Save archives a finished run with its rendered markdown
func (s *ReportStore) Save(ctx context.Context, request string, run *plan.Run, markdown string, createdAt time.Time) error {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	category := ""
	if run.Plan != nil {
		category = run.Plan.Category
	}
	steps, failed, findings := report.Summary(run)

	query := `INSERT INTO reports (id, request, category, steps, failed, findings, created_at, markdown, run_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.DB.ExecContext(ctx, query,
		run.ID, request, category, steps, failed, findings,
		createdAt.UTC().Format(time.RFC3339), markdown, string(runJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", run.ID, err)
	}

	s.logger.Info("report archived", zap.String("run_id", run.ID), zap.Int("findings", findings))
	return nil
}

// List returns the most recent reports first, without their bodies
func (s *ReportStore) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, request, category, steps, failed, findings, created_at
		FROM reports ORDER BY created_at DESC, id LIMIT ?`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.ID, &r.Request, &r.Category, &r.Steps, &r.Failed, &r.Findings, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns one report by ID or unique ID prefix
func (s *ReportStore) Get(ctx context.Context, id string) (*Record, error) {
	query := `SELECT id, request, category, steps, failed, findings, created_at, markdown, run_json
		FROM reports WHERE id = ? OR id LIKE ? ORDER BY (id = ?) DESC, created_at DESC LIMIT 2`
	rows, err := s.DB.QueryContext(ctx, query, id, id+"%", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []Record
	for rows.Next() {
		var r Record
		var created, runJSON string
		if err := rows.Scan(&r.ID, &r.Request, &r.Category, &r.Steps, &r.Failed, &r.Findings, &created, &r.Markdown, &runJSON); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		var run plan.Run
		if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
			return nil, fmt.Errorf("failed to decode archived run %s: %w", r.ID, err)
		}
		r.Run = &run
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case found[0].ID != id && len(found) > 1:
		return nil, fmt.Errorf("report ID prefix %s is ambiguous", id)
	}
	return &found[0], nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
