package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Step is one named, idempotent schema change. Applied step names are recorded
// in schema_migrations so new steps can be appended without re-running old ones.
type Step struct {
	Name string
	SQL  string
}

const ledgerDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Steps is the portal schema in apply order.
var Steps = []Step{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id                TEXT        PRIMARY KEY,
  email             TEXT        NOT NULL UNIQUE,
  role              TEXT        NOT NULL DEFAULT 'calon_jamaah'
                                CHECK (role IN ('calon_jamaah', 'jamaah', 'alumni', 'admin')),
  full_name         TEXT        NOT NULL DEFAULT '',
  phone             TEXT        NOT NULL DEFAULT '',
  nik               TEXT        NOT NULL DEFAULT '',
  birth_place       TEXT        NOT NULL DEFAULT '',
  birth_date        TEXT        NOT NULL DEFAULT '',
  gender            TEXT        NOT NULL DEFAULT '',
  address           TEXT        NOT NULL DEFAULT '',
  passport_number   TEXT        NOT NULL DEFAULT '',
  passport_expiry   TEXT        NOT NULL DEFAULT '',
  emergency_contact TEXT        NOT NULL DEFAULT '',
  photo_url         TEXT        NOT NULL DEFAULT '',
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_role",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_role ON users (role, created_at);`,
	},
	{
		Name: "create_table_packages",
		SQL: `CREATE TABLE IF NOT EXISTS packages (
  id             UUID        PRIMARY KEY,
  name           TEXT        NOT NULL,
  slug           TEXT        NOT NULL UNIQUE,
  category       TEXT        NOT NULL CHECK (category IN ('umrah', 'hajj')),
  description    TEXT        NOT NULL DEFAULT '',
  price          BIGINT      NOT NULL CHECK (price >= 0),
  quota          INTEGER     NOT NULL DEFAULT 0 CHECK (quota >= 0),
  departure_date TIMESTAMPTZ,
  return_date    TIMESTAMPTZ,
  duration_days  INTEGER     NOT NULL DEFAULT 0,
  hotel_makkah   TEXT        NOT NULL DEFAULT '',
  hotel_madinah  TEXT        NOT NULL DEFAULT '',
  airline        TEXT        NOT NULL DEFAULT '',
  mutawwif       TEXT        NOT NULL DEFAULT '',
  facilities     JSONB       NOT NULL DEFAULT '[]'::jsonb,
  image_url      TEXT        NOT NULL DEFAULT '',
  featured       BOOLEAN     NOT NULL DEFAULT FALSE,
  active         BOOLEAN     NOT NULL DEFAULT TRUE,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_packages_departure",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_packages_departure ON packages (departure_date);`,
	},
	{
		Name: "create_table_promos",
		SQL: `CREATE TABLE IF NOT EXISTS promos (
  id               UUID        PRIMARY KEY,
  title            TEXT        NOT NULL,
  description      TEXT        NOT NULL DEFAULT '',
  package_id       TEXT        NOT NULL DEFAULT '',
  discount_percent INTEGER     NOT NULL DEFAULT 0 CHECK (discount_percent BETWEEN 0 AND 100),
  valid_from       TIMESTAMPTZ,
  valid_until      TIMESTAMPTZ,
  image_url        TEXT        NOT NULL DEFAULT '',
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_educations",
		SQL: `CREATE TABLE IF NOT EXISTS educations (
  id          UUID        PRIMARY KEY,
  title       TEXT        NOT NULL,
  category    TEXT        NOT NULL DEFAULT '',
  content     TEXT        NOT NULL DEFAULT '',
  video_url   TEXT        NOT NULL DEFAULT '',
  order_index INTEGER     NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_articles",
		SQL: `CREATE TABLE IF NOT EXISTS articles (
  id           UUID        PRIMARY KEY,
  title        TEXT        NOT NULL,
  slug         TEXT        NOT NULL UNIQUE,
  excerpt      TEXT        NOT NULL DEFAULT '',
  content      TEXT        NOT NULL DEFAULT '',
  cover_url    TEXT        NOT NULL DEFAULT '',
  author       TEXT        NOT NULL DEFAULT '',
  published    BOOLEAN     NOT NULL DEFAULT FALSE,
  published_at TIMESTAMPTZ,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_testimonials",
		SQL: `CREATE TABLE IF NOT EXISTS testimonials (
  id         UUID        PRIMARY KEY,
  user_id    TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name       TEXT        NOT NULL,
  package_id TEXT        NOT NULL DEFAULT '',
  rating     INTEGER     NOT NULL CHECK (rating BETWEEN 1 AND 5),
  content    TEXT        NOT NULL,
  status     TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id             UUID        PRIMARY KEY,
  order_id       TEXT        NOT NULL UNIQUE,
  user_id        TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  package_id     UUID        NOT NULL REFERENCES packages (id),
  amount         BIGINT      NOT NULL CHECK (amount > 0),
  method         TEXT        NOT NULL CHECK (method IN ('transfer', 'gateway')),
  proof_path     TEXT        NOT NULL DEFAULT '',
  status         TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  gateway_status TEXT        NOT NULL DEFAULT '',
  note           TEXT        NOT NULL DEFAULT '',
  reviewed_by    TEXT        NOT NULL DEFAULT '',
  reviewed_at    TIMESTAMPTZ,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_payments_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_payments_user ON payments (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_payments_status_method",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_payments_status_method ON payments (status, method, created_at);`,
	},
	{
		Name: "create_table_itineraries",
		SQL: `CREATE TABLE IF NOT EXISTS itineraries (
  id         UUID        PRIMARY KEY,
  package_id UUID        NOT NULL REFERENCES packages (id) ON DELETE CASCADE,
  title      TEXT        NOT NULL,
  start_date TIMESTAMPTZ,
  end_date   TIMESTAMPTZ,
  status     TEXT        NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled', 'ongoing', 'completed')),
  days       JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_itineraries_package",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_itineraries_package ON itineraries (package_id);`,
	},
	{
		Name: "create_table_upgrade_requests",
		SQL: `CREATE TABLE IF NOT EXISTS upgrade_requests (
  id          UUID        PRIMARY KEY,
  user_id     TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  package_id  TEXT        NOT NULL DEFAULT '',
  from_role   TEXT        NOT NULL,
  to_role     TEXT        NOT NULL,
  status      TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
  note        TEXT        NOT NULL DEFAULT '',
  reviewed_by TEXT        NOT NULL DEFAULT '',
  reviewed_at TIMESTAMPTZ,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_upgrade_requests_pending",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_upgrade_requests_pending
  ON upgrade_requests (user_id) WHERE status = 'pending';`,
	},
}

// EnsureMigrated applies every step of Steps not yet recorded in schema_migrations.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	return Run(ctx, db, Steps, logger)
}

// Run applies steps in order. Each step runs in its own transaction together
// with its ledger row, so a failed step leaves no partial record.
func Run(ctx context.Context, db *sql.DB, steps []Step, logger zerolog.Logger) error {
	start := time.Now()
	l := logger.With().Str("component", "database").Logger()
	l.Info().Str("event", "db_migration_check").Int("steps", len(steps)).Msg("checking schema")

	if _, err := db.ExecContext(ctx, ledgerDDL); err != nil {
		l.Error().Err(err).Str("event", "db_migration_failed").Msg("create ledger")
		return fmt.Errorf("create migration ledger: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		l.Error().Err(err).Str("event", "db_migration_failed").Msg("read ledger")
		return err
	}

	ran := 0
	for _, step := range steps {
		if applied[step.Name] {
			continue
		}
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			l.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Dur("duration", time.Since(start)).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		ran++
		l.Info().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Dur("step_duration", time.Since(stepStart)).
			Msg("step applied")
	}

	if ran == 0 {
		l.Info().Str("event", "db_migration_skip").Dur("duration", time.Since(start)).Msg("schema up to date")
		return nil
	}
	l.Info().Str("event", "db_migration_success").Int("applied", ran).Dur("duration", time.Since(start)).Msg("schema migrated")
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
