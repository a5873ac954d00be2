package foodcatalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresConfig configures the catalog database connection.
type PostgresConfig struct {
	ConnectionString string        `env:"CATALOG_PG_CONN_URL,required"`
	MaxOpenConns     int32         `env:"CATALOG_PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"CATALOG_PG_MAX_IDLE_CONNS" envDefault:"5"`
	MaxConnIdleTime  time.Duration `env:"CATALOG_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime  time.Duration `env:"CATALOG_PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"CATALOG_PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"CATALOG_PG_RETRY_INTERVAL" envDefault:"5s"`

	MigrationsTable string `env:"CATALOG_PG_MIGRATIONS_TABLE" envDefault:"catalog_schema_migrations"`
}

type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Connect opens a pgx pool with linear-backoff retry so a catalog import job
// survives a database that is still starting up.
func Connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	attempts := max(1, cfg.RetryAttempts)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return nil, ErrFailedToOpenDBConnection
}

// Migrate applies the embedded catalog schema migrations with goose. goose
// speaks database/sql, so the pgx pool is bridged through stdlib.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg PostgresConfig, log logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration db handle", "error", err)
		}
	}(db)

	goose.SetLogger(gooseSlogAdapter{ctx: ctx, log: log})
	goose.SetBaseFS(migrationsFS)
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// gooseSlogAdapter routes goose's Printf-style output through slog.
type gooseSlogAdapter struct {
	ctx context.Context
	log logger
}

func (a gooseSlogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(a.ctx, fmt.Sprintf(format, v...))
}

func (a gooseSlogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(a.ctx, fmt.Sprintf(format, v...))
}

// PostgresSource loads the food list from the foods table.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a source over an existing pool. Panics on nil
// pool.
func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	if pool == nil {
		panic("foodcatalog: pgxpool.Pool is required")
	}
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) Load(ctx context.Context) ([]Food, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, food_group, category, oxalate_mg, serving_size
		 FROM foods
		 ORDER BY name`)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	defer rows.Close()

	var foods []Food
	for rows.Next() {
		var food Food
		var category string
		if err := rows.Scan(&food.ID, &food.Name, &food.Group, &category,
			&food.OxalatePerServing, &food.ServingSize); err != nil {
			return nil, errors.Join(ErrFailedToLoadCatalog, err)
		}
		if food.Category, err = ParseCategory(category); err != nil {
			return nil, fmt.Errorf("food %q: %w", food.Name, err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}
	return foods, nil
}
