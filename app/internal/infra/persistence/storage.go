package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	domcart "example.com/storefront/app/internal/domain/cart"
	"example.com/storefront/app/internal/infra/persistence/memory"
	"example.com/storefront/app/internal/infra/persistence/migrations"
	"example.com/storefront/app/internal/infra/persistence/mysql"
	"example.com/storefront/app/internal/infra/persistence/postgres"
)

const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Options struct {
	Driver  string
	DSN     string
	Migrate bool
}

// Storage is an opened cart snapshot store.
type Storage struct {
	Carts domcart.Repository
	db    *sql.DB
}

func Open(ctx context.Context, opts Options) (*Storage, error) {
	const op = "persistence.Open"
	log := slog.With("op", op, "driver", opts.Driver)

	switch opts.Driver {
	case DriverMemory, "":
		log.Info("using in-memory cart storage")
		return &Storage{Carts: memory.NewCartRepository()}, nil
	case DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownDriver, opts.Driver)
	}

	if opts.Migrate {
		if err := migrations.Up(opts.Driver, opts.DSN); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	db, err := openDB(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available")

	s := &Storage{db: db}
	if opts.Driver == DriverMySQL {
		s.Carts = mysql.NewCartRepository(db)
	} else {
		s.Carts = postgres.NewCartRepository(db)
	}
	return s, nil
}

func openDB(driver, dsn string) (*sql.DB, error) {
	if driver == DriverMySQL {
		return sql.Open("mysql", dsn)
	}
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
}

func (s *Storage) Close() {
	const op = "persistence.Storage.Close"
	log := slog.With("op", op)

	if s.db == nil {
		return
	}
	log.Info("closing sql database...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
