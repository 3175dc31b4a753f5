// Package migration applies and authors the ledger's versioned SQL
// migrations with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Source opens a fresh reader over a migration set. It is called once for
// the migrate instance and again whenever the set has to be scanned.
type Source func() (source.Driver, error)

// Embedded reads migrations compiled into the binary.
func Embedded(fsys fs.FS) Source {
	return func() (source.Driver, error) { return iofs.New(fsys, ".") }
}

// Dir reads migrations from a directory on disk.
func Dir(path string) Source {
	return func() (source.Driver, error) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		return (&file.File{}).Open("file://" + filepath.ToSlash(abs))
	}
}

// Status is the schema version of a database against a migration set.
type Status struct {
	Version uint
	Dirty   bool
	Latest  uint
}

func (s Status) Pending() bool { return s.Version < s.Latest }

// Migrator runs migrations against postgres.
type Migrator struct {
	m   *migrate.Migrate
	src Source
	log *zap.Logger
}

func New(db *sql.DB, src Source, log *zap.Logger) (*Migrator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	drv, err := src()
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	pg, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("ledger", drv, "postgres", pg)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	m.Log = migrateLogger{log.Sugar()}
	return &Migrator{m: m, src: src, log: log}, nil
}

func (m *Migrator) Up() error {
	return m.apply("up", m.m.Up)
}

// Down rolls back every migration.
func (m *Migrator) Down() error {
	m.log.Warn("Rolling back every migration")
	return m.apply("down", m.m.Down)
}

// Steps applies n migrations, rolling back when n is negative.
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("step %d", n), func() error { return m.m.Steps(n) })
}

func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto %d", version), func() error { return m.m.Migrate(version) })
}

// Force records version as applied and clean without running anything.
// It clears the dirty flag left by a failed migration.
func (m *Migrator) Force(version int) error {
	m.log.Warn("Forcing migration version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) apply(op string, run func() error) error {
	err := run()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("Schema already up to date", zap.String("operation", op))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration %s: %w", op, err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info("Migration applied",
		zap.String("operation", op),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the applied version, zero on an empty database.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) Status() (Status, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return Status{}, err
	}
	latest, err := m.Latest()
	if err != nil {
		return Status{}, err
	}
	return Status{Version: version, Dirty: dirty, Latest: latest}, nil
}

// Latest returns the newest version in the migration set.
func (m *Migrator) Latest() (uint, error) {
	return LatestVersion(m.src)
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// LatestVersion walks src to its newest migration. An empty set is
// version zero.
func LatestVersion(src Source) (uint, error) {
	drv, err := src()
	if err != nil {
		return 0, fmt.Errorf("open migrations: %w", err)
	}
	defer drv.Close()

	version, err := drv.First()
	for err == nil {
		var next uint
		if next, err = drv.Next(version); err == nil {
			version = next
		}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("scan migrations: %w", err)
	}
	return version, nil
}

// migrateLogger routes golang-migrate's progress output to zap.
type migrateLogger struct {
	log *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return false }
