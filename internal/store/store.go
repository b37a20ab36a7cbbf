// Package store persists solve-run history and named solver settings
// profiles in SQLite, mirroring the teacher's internal/database schema and
// migration style (database/sql + mattn/go-sqlite3, CREATE TABLE IF NOT
// EXISTS, best-effort ALTER TABLE migrations, INSERT OR IGNORE defaults).
package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/salsa-engine/salsa/internal/model"
)

// Store wraps the SQLite connection used for run history and settings
// profiles.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the SQLite database at dbPath and ensures its
// schema exists.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createTables(db *sql.DB) error {
	schema := `
	-- Named solver settings profiles, the engine-run analogue of the
	-- teacher's key/value settings table.
	CREATE TABLE IF NOT EXISTS settings_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		admissao_proporcional TEXT DEFAULT 'floor',
		f_special_day BOOLEAN DEFAULT FALSE,
		max_continuous_working_days INTEGER DEFAULT 6,
		solver_time_limit_seconds INTEGER DEFAULT 600,
		solver_workers INTEGER DEFAULT 8,
		reproducible BOOLEAN DEFAULT FALSE,
		seed INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- One row per solve invocation: status, objective, timings, and the
	-- full JSON-encoded report for later inspection.
	CREATE TABLE IF NOT EXISTS solve_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		objective_value REAL,
		best_bound REAL,
		wall_time_ms INTEGER,
		employee_count INTEGER,
		horizon_days INTEGER,
		report_json TEXT,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO settings_profiles
		(name, admissao_proporcional, f_special_day, max_continuous_working_days, solver_time_limit_seconds, solver_workers)
	VALUES
		('default', 'floor', FALSE, 6, 600, 8);
	`

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	migrations := []string{
		`ALTER TABLE settings_profiles ADD COLUMN reproducible BOOLEAN DEFAULT FALSE;`,
		`ALTER TABLE settings_profiles ADD COLUMN seed INTEGER DEFAULT 0;`,
		`ALTER TABLE solve_runs ADD COLUMN error_message TEXT;`,
	}
	for _, migration := range migrations {
		db.Exec(migration) // ignore errors: column may already exist
	}

	return nil
}

// SettingsProfile returns the named solver settings profile, falling back
// to model.DefaultSettings() when the profile does not exist.
func (s *Store) SettingsProfile(name string) (model.Settings, error) {
	var settings model.Settings
	var reproducible, fSpecialDay bool
	err := s.db.QueryRow(`SELECT admissao_proporcional, f_special_day, max_continuous_working_days,
		solver_time_limit_seconds, solver_workers, reproducible, seed
		FROM settings_profiles WHERE name = ?`, name).
		Scan(&settings.AdmissaoProporcional, &fSpecialDay, &settings.MaxContinuousWorkingDays,
			&settings.SolverTimeLimitSeconds, &settings.SolverWorkers, &reproducible, &settings.Seed)
	if err == sql.ErrNoRows {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, err
	}
	settings.FSpecialDay = fSpecialDay
	settings.Reproducible = reproducible
	return settings, nil
}

// SaveSettingsProfile upserts a named solver settings profile.
func (s *Store) SaveSettingsProfile(name string, settings model.Settings) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings_profiles
		(name, admissao_proporcional, f_special_day, max_continuous_working_days, solver_time_limit_seconds, solver_workers, reproducible, seed, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		name, settings.AdmissaoProporcional, settings.FSpecialDay, settings.MaxContinuousWorkingDays,
		settings.SolverTimeLimitSeconds, settings.SolverWorkers, settings.Reproducible, settings.Seed)
	return err
}

// RecordRun inserts the outcome of one solve invocation. schedule may be nil
// when solveErr is non-nil.
func (s *Store) RecordRun(runID string, schedule *model.Schedule, solveErr error) error {
	if solveErr != nil {
		_, err := s.db.Exec(`INSERT INTO solve_runs (run_id, status, error_message) VALUES (?, ?, ?)`,
			runID, "error", solveErr.Error())
		return err
	}

	reportJSON, err := json.Marshal(schedule.Report)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT INTO solve_runs
		(run_id, status, objective_value, best_bound, wall_time_ms, employee_count, horizon_days, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, schedule.Report.Status, schedule.Report.ObjectiveValue, schedule.Report.BestBound,
		schedule.Report.WallTime/time.Millisecond, len(schedule.Employees), len(schedule.Horizon.Days), string(reportJSON))
	return err
}

// RunSummary is one row of solve-run history.
type RunSummary struct {
	RunID          string
	Status         string
	ObjectiveValue float64
	EmployeeCount  int
	HorizonDays    int
	CreatedAt      string
}

// RecentRuns returns the most recent solve runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(`SELECT run_id, status, COALESCE(objective_value, 0), COALESCE(employee_count, 0),
		COALESCE(horizon_days, 0), created_at FROM solve_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Status, &r.ObjectiveValue, &r.EmployeeCount, &r.HorizonDays, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
