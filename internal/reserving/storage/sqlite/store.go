// Package sqlite persists generated datasets to a SQLite database so a run
// can be queried or reloaded without regenerating it.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/avflight/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/avflight/internal/reserving/payload"
	"github.com/louisbranch/avflight/internal/reserving/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound is returned when a run id has no stored dataset.
var ErrRunNotFound = errors.New("run not found")

// Run identifies one stored dataset.
type Run struct {
	ID          string
	Seed        int64
	LastUpdated string
	CreatedAt   time.Time
}

// Store provides SQLite-backed dataset persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a dataset SQLite store and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveDataset writes every table of p under run.ID in a single transaction.
func (s *Store) SaveDataset(ctx context.Context, run Run, p payload.Payload) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	run.ID = strings.TrimSpace(run.ID)
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	classesJSON, err := json.Marshal(p.Classes)
	if err != nil {
		return fmt.Errorf("encode classes: %w", err)
	}
	methodsJSON, err := json.Marshal(p.Methods)
	if err != nil {
		return fmt.Errorf("encode methods: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin dataset tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO runs (
	run_id,
	seed,
	title,
	subtitle,
	last_updated,
	classes_json,
	methods_json,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		run.ID,
		run.Seed,
		p.Title,
		p.Subtitle,
		p.LastUpdated,
		string(classesJSON),
		string(methodsJSON),
		run.CreatedAt.UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for class, threshold := range p.LargeLossThresholds {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO large_loss_thresholds (run_id, class, threshold) VALUES (?, ?, ?)`,
			run.ID, class, threshold,
		); err != nil {
			return fmt.Errorf("insert large loss threshold: %w", err)
		}
	}

	if err = insertRows(ctx, tx, "records",
		`INSERT INTO records (run_id, seq, class, cohort, development_period, type, value) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(p.Records), func(i int) []any {
			r := p.Records[i]
			return []any{run.ID, i, r.Class, r.Cohort, r.DevelopmentPeriod, r.Type, r.Value}
		}); err != nil {
		return err
	}
	if err = insertRows(ctx, tx, "ultimates",
		`INSERT INTO ultimates (run_id, seq, class, cohort, method, pattern, ie, approach, method_type, ultimate) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(p.Ultimates), func(i int) []any {
			u := p.Ultimates[i]
			return []any{run.ID, i, u.Class, u.Cohort, u.Method, u.Pattern, u.IE, u.Approach, u.MethodType, u.Ultimate}
		}); err != nil {
		return err
	}
	if err = insertRows(ctx, tx, "prior ultimates",
		`INSERT INTO prior_ultimates (run_id, seq, class, cohort, method, ultimate) VALUES (?, ?, ?, ?, ?, ?)`,
		len(p.PriorUltimates), func(i int) []any {
			u := p.PriorUltimates[i]
			return []any{run.ID, i, u.Class, u.Cohort, u.Method, u.Ultimate}
		}); err != nil {
		return err
	}

	shaps := make([]string, len(p.MethodScores))
	for i, score := range p.MethodScores {
		raw, marshalErr := json.Marshal(score.SHAP)
		if marshalErr != nil {
			err = fmt.Errorf("encode attribution: %w", marshalErr)
			return err
		}
		shaps[i] = string(raw)
	}
	if err = insertRows(ctx, tx, "method scores",
		`INSERT INTO method_scores (run_id, seq, class, method, pattern, ie, approach, reserve_det, prior_reserve_det, proj_quality, shap_json) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(p.MethodScores), func(i int) []any {
			m := p.MethodScores[i]
			return []any{run.ID, i, m.Class, m.Method, m.Pattern, m.IE, m.Approach, m.ReserveDet, m.PriorReserveDet, m.ProjQuality, shaps[i]}
		}); err != nil {
		return err
	}
	if err = insertRows(ctx, tx, "claims",
		`INSERT INTO claims (run_id, seq, claim_id, class, cohort, status, incurred_current, incurred_prior) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		len(p.Claims), func(i int) []any {
			c := p.Claims[i]
			return []any{run.ID, i, c.ClaimID, c.Class, c.Cohort, c.Status, c.IncurredCurrent, c.IncurredPrior}
		}); err != nil {
		return err
	}
	if err = insertRows(ctx, tx, "premiums",
		`INSERT INTO premiums (run_id, seq, class, cohort, written, earned, prior_earned) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(p.Premiums), func(i int) []any {
			pr := p.Premiums[i]
			return []any{run.ID, i, pr.Class, pr.Cohort, pr.Written, pr.Earned, pr.PriorEarned}
		}); err != nil {
		return err
	}
	if err = insertRows(ctx, tx, "claim counts",
		`INSERT INTO cohort_claim_counts (run_id, seq, class, cohort, count_current, count_prior) VALUES (?, ?, ?, ?, ?, ?)`,
		len(p.CohortClaimCounts), func(i int) []any {
			c := p.CohortClaimCounts[i]
			return []any{run.ID, i, c.Class, c.Cohort, c.CountCurrent, c.CountPrior}
		}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, table, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

// ListRuns lists stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT run_id, seed, last_updated, created_at
FROM runs
ORDER BY created_at DESC, run_id
`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt int64
		if err := rows.Scan(&run.ID, &run.Seed, &run.LastUpdated, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.CreatedAt = time.UnixMilli(createdAt).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LoadPayload rebuilds the serialized dataset stored under runID.
func (s *Store) LoadPayload(ctx context.Context, runID string) (payload.Payload, error) {
	var p payload.Payload
	if err := ctx.Err(); err != nil {
		return p, err
	}
	if s == nil || s.sqlDB == nil {
		return p, fmt.Errorf("storage is not configured")
	}

	var classesJSON, methodsJSON string
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT title, subtitle, last_updated, classes_json, methods_json
FROM runs
WHERE run_id = ?
`, runID).Scan(&p.Title, &p.Subtitle, &p.LastUpdated, &classesJSON, &methodsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("load run %q: %w", runID, ErrRunNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("load run: %w", err)
	}
	if err := json.Unmarshal([]byte(classesJSON), &p.Classes); err != nil {
		return p, fmt.Errorf("decode classes: %w", err)
	}
	if err := json.Unmarshal([]byte(methodsJSON), &p.Methods); err != nil {
		return p, fmt.Errorf("decode methods: %w", err)
	}

	p.LargeLossThresholds = map[string]float64{}
	if err := s.scanAll(ctx, "large loss thresholds",
		`SELECT class, threshold FROM large_loss_thresholds WHERE run_id = ?`, runID,
		func(rows *sql.Rows) error {
			var class string
			var threshold float64
			if err := rows.Scan(&class, &threshold); err != nil {
				return err
			}
			p.LargeLossThresholds[class] = threshold
			return nil
		}); err != nil {
		return p, err
	}

	p.Records = []payload.Record{}
	if err := s.scanAll(ctx, "records",
		`SELECT class, cohort, development_period, type, value FROM records WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var r payload.Record
			if err := rows.Scan(&r.Class, &r.Cohort, &r.DevelopmentPeriod, &r.Type, &r.Value); err != nil {
				return err
			}
			p.Records = append(p.Records, r)
			return nil
		}); err != nil {
		return p, err
	}

	p.Ultimates = []payload.Ultimate{}
	if err := s.scanAll(ctx, "ultimates",
		`SELECT class, cohort, method, pattern, ie, approach, method_type, ultimate FROM ultimates WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var u payload.Ultimate
			if err := rows.Scan(&u.Class, &u.Cohort, &u.Method, &u.Pattern, &u.IE, &u.Approach, &u.MethodType, &u.Ultimate); err != nil {
				return err
			}
			p.Ultimates = append(p.Ultimates, u)
			return nil
		}); err != nil {
		return p, err
	}

	p.PriorUltimates = []payload.PriorUltimate{}
	if err := s.scanAll(ctx, "prior ultimates",
		`SELECT class, cohort, method, ultimate FROM prior_ultimates WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var u payload.PriorUltimate
			if err := rows.Scan(&u.Class, &u.Cohort, &u.Method, &u.Ultimate); err != nil {
				return err
			}
			p.PriorUltimates = append(p.PriorUltimates, u)
			return nil
		}); err != nil {
		return p, err
	}

	p.MethodScores = []payload.MethodScore{}
	if err := s.scanAll(ctx, "method scores",
		`SELECT class, method, pattern, ie, approach, reserve_det, prior_reserve_det, proj_quality, shap_json FROM method_scores WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var m payload.MethodScore
			var shap string
			if err := rows.Scan(&m.Class, &m.Method, &m.Pattern, &m.IE, &m.Approach, &m.ReserveDet, &m.PriorReserveDet, &m.ProjQuality, &shap); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(shap), &m.SHAP); err != nil {
				return fmt.Errorf("decode attribution: %w", err)
			}
			p.MethodScores = append(p.MethodScores, m)
			return nil
		}); err != nil {
		return p, err
	}

	p.Claims = []payload.Claim{}
	if err := s.scanAll(ctx, "claims",
		`SELECT class, cohort, claim_id, status, incurred_current, incurred_prior FROM claims WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var c payload.Claim
			if err := rows.Scan(&c.Class, &c.Cohort, &c.ClaimID, &c.Status, &c.IncurredCurrent, &c.IncurredPrior); err != nil {
				return err
			}
			p.Claims = append(p.Claims, c)
			return nil
		}); err != nil {
		return p, err
	}

	p.Premiums = []payload.Premium{}
	if err := s.scanAll(ctx, "premiums",
		`SELECT class, cohort, written, earned, prior_earned FROM premiums WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var pr payload.Premium
			if err := rows.Scan(&pr.Class, &pr.Cohort, &pr.Written, &pr.Earned, &pr.PriorEarned); err != nil {
				return err
			}
			p.Premiums = append(p.Premiums, pr)
			return nil
		}); err != nil {
		return p, err
	}

	p.CohortClaimCounts = []payload.ClaimCount{}
	if err := s.scanAll(ctx, "claim counts",
		`SELECT class, cohort, count_current, count_prior FROM cohort_claim_counts WHERE run_id = ? ORDER BY seq`, runID,
		func(rows *sql.Rows) error {
			var c payload.ClaimCount
			if err := rows.Scan(&c.Class, &c.Cohort, &c.CountCurrent, &c.CountPrior); err != nil {
				return err
			}
			p.CohortClaimCounts = append(p.CohortClaimCounts, c)
			return nil
		}); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Store) scanAll(ctx context.Context, table, query, runID string, scan func(*sql.Rows) error) error {
	rows, err := s.sqlDB.QueryContext(ctx, query, runID)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", table, err)
	}
	return nil
}
