package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Querier is what the read-side commands need. *pgxpool.Pool and pgx.Tx
// both satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// SearchPath resolves unqualified table names to schema first, then public.
func SearchPath(schema string) string {
	if schema == "" || schema == "public" {
		return "public"
	}
	return pq.QuoteIdentifier(schema) + ", public"
}

// Connect opens a small pool pinned to the course schema and checks that the
// server answers before any work starts.
func Connect(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.RuntimeParams["search_path"] = SearchPath(schema)
	config.ConnConfig.RuntimeParams["application_name"] = "edutech-seed"

	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return pool, nil
}

// InTx runs fn in its own transaction, committing only when fn succeeds.
func InTx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ApplySQL executes a DDL script statement by statement inside one transaction.
func ApplySQL(ctx context.Context, db Beginner, script string) (int, error) {
	statements := ParseSQLStatements(script)
	err := InTx(ctx, db, func(tx pgx.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute statement '%s': %w", firstLine(stmt), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(statements), nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i] + " ..."
	}
	return stmt
}

// CountRows returns the row count of each table. Missing tables are reported
// as errors, not zero.
func CountRows(ctx context.Context, db Querier, tables []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		query, args, err := qb.Select("COUNT(*)").From(pgx.Identifier{table}.Sanitize()).ToSql()
		if err != nil {
			return nil, err
		}
		var n int64
		if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

type TableData struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// ReadTable loads a whole table ordered by its first column.
func ReadTable(ctx context.Context, db Querier, table string) (*TableData, error) {
	query, args, err := qb.Select("*").From(pgx.Identifier{table}.Sanitize()).OrderBy("1", "2").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	data := &TableData{Name: table}
	for _, fd := range rows.FieldDescriptions() {
		data.Columns = append(data.Columns, fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		data.Rows = append(data.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return data, nil
}
