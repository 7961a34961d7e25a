package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// Connect opens a traced connection pool. Every query issued through the
// returned handle carries an OpenTelemetry span.
func Connect(ctx context.Context, dbURL, dbName string, queryFormatter func(string) string) (*sqlx.DB, error) {
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
	}
	if dbName != "" {
		opts = append(opts, otelsql.WithDBName(dbName))
	}
	if queryFormatter != nil {
		opts = append(opts, otelsql.WithQueryFormatter(queryFormatter))
	}

	db, err := otelsqlx.Open("postgres", dbURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
