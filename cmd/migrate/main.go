// Command migrate manages the ledger's postgres schema.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/config"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/logger"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/internal/infrastructure/migration"
	"github.com/abdoulayesow/restaurant-hub-app-001-2026-sub001/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type command struct {
	usage string
	// offline commands work on a directory and never open the database
	offline func(log *zap.Logger, dir string, args []string) error
	online  func(log *zap.Logger, m *migration.Migrator, args []string) error
}

var commands = map[string]command{
	"up": {usage: "up                    Apply all pending migrations",
		online: func(_ *zap.Logger, m *migration.Migrator, _ []string) error { return m.Up() }},
	"down": {usage: "down -confirm         Roll back every migration",
		online: func(_ *zap.Logger, m *migration.Migrator, args []string) error {
			if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
				return errors.New("rolling back drops every ledger table, rerun with -confirm")
			}
			return m.Down()
		}},
	"step": {usage: "step <n>              Apply n migrations, negative rolls back",
		online: func(_ *zap.Logger, m *migration.Migrator, args []string) error {
			n, err := intArg(args, "step count")
			if err != nil {
				return err
			}
			return m.Steps(n)
		}},
	"goto": {usage: "goto <version>        Migrate up or down to a version",
		online: func(_ *zap.Logger, m *migration.Migrator, args []string) error {
			v, err := intArg(args, "version")
			if err != nil {
				return err
			}
			if v < 0 {
				return fmt.Errorf("version must not be negative, got %d", v)
			}
			return m.GoTo(uint(v))
		}},
	"force": {usage: "force <version>       Mark a version applied after a failed run",
		online: func(_ *zap.Logger, m *migration.Migrator, args []string) error {
			v, err := intArg(args, "version")
			if err != nil {
				return err
			}
			return m.Force(v)
		}},
	"status": {usage: "status                Show applied and latest versions",
		online: func(log *zap.Logger, m *migration.Migrator, _ []string) error {
			st, err := m.Status()
			if err != nil {
				return err
			}
			log.Info("Schema status",
				zap.Uint("version", st.Version),
				zap.Uint("latest", st.Latest),
				zap.Bool("dirty", st.Dirty),
				zap.Bool("pending", st.Pending()),
			)
			return nil
		}},
	"create": {usage: "create <name> [desc]  Write the next migration pair",
		offline: func(log *zap.Logger, dir string, args []string) error {
			if len(args) == 0 {
				return errors.New("migration name required")
			}
			mf, err := migration.CreateMigration(dir, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		}},
	"list": {usage: "list                  List migrations in the directory",
		offline: func(_ *zap.Logger, dir string, _ []string) error {
			found, err := migration.ListMigrations(dir)
			if err != nil {
				return err
			}
			for _, m := range found {
				down := ""
				if !m.HasDown {
					down = " (no down)"
				}
				fmt.Printf("  %s%s\n", m, down)
			}
			return nil
		}},
}

func main() {
	dir := flag.String("path", "", "read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stderr", TimeFormat: "15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()
	log = log.With(zap.String("command", args[0]))

	if err := run(log, cmd, *dir, args[1:]); err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

func run(log *zap.Logger, cmd command, dir string, args []string) error {
	if cmd.offline != nil {
		if dir == "" {
			dir = "migrations"
		}
		return cmd.offline(log, dir, args)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("driver %q: sql migrations target postgres, sqlite schemas come from auto-migrate", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	src := migration.Embedded(migrations.FS)
	if dir != "" {
		src = migration.Dir(dir)
	}
	m, err := migration.New(db, src, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd.online(log, m, args)
}

func intArg(args []string, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", what)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, args[0])
	}
	return n, nil
}

func usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(os.Stderr, "Usage: migrate [flags] <command> [arguments]\n\nCommands:")
	for _, name := range names {
		fmt.Fprintln(os.Stderr, "  "+commands[name].usage)
	}
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nConnection settings come from config.toml and RHUB_DATABASE_* variables.")
}
