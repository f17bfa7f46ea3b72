// Package store persists simulation runs to SQLite so they can be
// listed, re-plotted, and exported later. The core packages never
// import it; the CLI wires runs in and out.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"mudsim/internal/fluid"
)

// Store wraps a SQLite connection holding saved runs.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		preset TEXT NOT NULL,
		dt REAL NOT NULL,
		horizon REAL NOT NULL,
		ref_shear_rate REAL NOT NULL,
		stepper TEXT NOT NULL,
		coupling TEXT NOT NULL,
		metrics_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS frames (
		run_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		t REAL NOT NULL,
		alpha REAL NOT NULL,
		depth REAL NOT NULL,
		pressure REAL NOT NULL,
		temperature REAL NOT NULL,
		ph REAL NOT NULL,
		yield_stress REAL NOT NULL,
		consistency REAL NOT NULL,
		flow_index REAL NOT NULL,
		kind INTEGER NOT NULL,
		shear_rate REAL NOT NULL,
		shear_stress REAL NOT NULL,
		viscosity REAL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_frames_run ON frames(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// RunMeta describes one saved run.
type RunMeta struct {
	ID           string             `json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	Preset       string             `json:"preset"`
	Dt           float64            `json:"dt"`
	Horizon      float64            `json:"horizon"`
	RefShearRate float64            `json:"ref_shear_rate"`
	Stepper      string             `json:"stepper"`
	Coupling     string             `json:"coupling"`
	Metrics      map[string]float64 `json:"metrics"`
}

type runRow struct {
	ID           string  `db:"id"`
	CreatedAt    string  `db:"created_at"`
	Preset       string  `db:"preset"`
	Dt           float64 `db:"dt"`
	Horizon      float64 `db:"horizon"`
	RefShearRate float64 `db:"ref_shear_rate"`
	Stepper      string  `db:"stepper"`
	Coupling     string  `db:"coupling"`
	MetricsJSON  string  `db:"metrics_json"`
}

func (r runRow) meta() (RunMeta, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return RunMeta{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	metrics := make(map[string]float64)
	if err := json.Unmarshal([]byte(r.MetricsJSON), &metrics); err != nil {
		return RunMeta{}, fmt.Errorf("run %s: %w", r.ID, err)
	}
	return RunMeta{
		ID:           r.ID,
		CreatedAt:    created,
		Preset:       r.Preset,
		Dt:           r.Dt,
		Horizon:      r.Horizon,
		RefShearRate: r.RefShearRate,
		Stepper:      r.Stepper,
		Coupling:     r.Coupling,
		Metrics:      metrics,
	}, nil
}

// Save writes the run and its frames in one transaction and returns the
// generated run ID.
func (s *Store) Save(preset, stepper, coupling string, dt, horizon, refShearRate float64, result *fluid.Result) (string, error) {
	metricsJSON, err := json.Marshal(result.Metrics)
	if err != nil {
		return "", err
	}

	runID := uuid.NewString()

	tx, err := s.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, created_at, preset, dt, horizon, ref_shear_rate, stepper, coupling, metrics_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339Nano), preset, dt, horizon, refShearRate, stepper, coupling, string(metricsJSON))
	if err != nil {
		return "", err
	}

	insert, err := tx.Prepare(`INSERT INTO frames (run_id, idx, t, alpha, depth, pressure, temperature, ph,
		yield_stress, consistency, flow_index, kind, shear_rate, shear_stress, viscosity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer insert.Close()

	for i, f := range result.Frames {
		visc := sql.NullFloat64{}
		if f.Viscosity.Defined() {
			visc = sql.NullFloat64{Float64: f.Viscosity.PaS(), Valid: true}
		}
		_, err = insert.Exec(runID, i, f.Time, f.Alpha,
			f.Cond.Depth, f.Cond.Pressure, f.Cond.Temperature, f.Cond.PH,
			f.Params.YieldStress, f.Params.Consistency, f.Params.FlowIndex, int(f.Params.Kind),
			f.ShearRate, f.ShearStress, visc)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Load returns the metadata of one run.
func (s *Store) Load(runID string) (RunMeta, error) {
	var row runRow
	if err := s.conn.Get(&row, `SELECT * FROM runs WHERE id = ?`, runID); err != nil {
		return RunMeta{}, fmt.Errorf("load run %s: %w", runID, err)
	}
	return row.meta()
}

// LoadFrames rebuilds the ordered frame sequence of a saved run.
func (s *Store) LoadFrames(runID string) ([]fluid.Frame, error) {
	rows, err := s.conn.Query(`SELECT t, alpha, depth, pressure, temperature, ph,
		yield_stress, consistency, flow_index, kind, shear_rate, shear_stress, viscosity
		FROM frames WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []fluid.Frame
	for rows.Next() {
		var f fluid.Frame
		var kind int
		var visc sql.NullFloat64
		err := rows.Scan(&f.Time, &f.Alpha, &f.Cond.Depth, &f.Cond.Pressure, &f.Cond.Temperature, &f.Cond.PH,
			&f.Params.YieldStress, &f.Params.Consistency, &f.Params.FlowIndex, &kind,
			&f.ShearRate, &f.ShearStress, &visc)
		if err != nil {
			return nil, err
		}
		f.Params.Kind = fluid.ModelKind(kind)
		if visc.Valid {
			f.Viscosity = fluid.NewViscosity(visc.Float64)
		} else {
			f.Viscosity = fluid.UndefinedViscosity()
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// List returns all saved runs, most recent first.
func (s *Store) List() ([]RunMeta, error) {
	var rows []runRow
	if err := s.conn.Select(&rows, `SELECT * FROM runs ORDER BY created_at DESC`); err != nil {
		return nil, err
	}

	metas := make([]RunMeta, 0, len(rows))
	for _, row := range rows {
		meta, err := row.meta()
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// Delete removes a run and its frames.
func (s *Store) Delete(runID string) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM frames WHERE run_id = ?`, runID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return err
	}
	return tx.Commit()
}
