package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the slice of a pgx session the stages need. pgx.Tx satisfies it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TableInfo struct {
	Name         string
	Dependencies []string
}

// Tables lists the course schema with its foreign-key dependencies.
var Tables = []TableInfo{
	{Name: "categories"},
	{Name: "instructors"},
	{Name: "courses", Dependencies: []string{"categories", "instructors"}},
	{Name: "modules", Dependencies: []string{"courses"}},
	{Name: "lessons", Dependencies: []string{"modules"}},
	{Name: "students"},
	{Name: "enrollments", Dependencies: []string{"students", "courses"}},
	{Name: "lesson_progress", Dependencies: []string{"enrollments", "lessons"}},
	{Name: "evaluations", Dependencies: []string{"enrollments", "courses"}},
}

var tableGraph = mustTableGraph()

func mustTableGraph() *DependencyGraph {
	g := NewDependencyGraph()
	for _, t := range Tables {
		g.Add(t.Name, t.Dependencies...)
	}
	if _, err := g.BuildOrder(); err != nil {
		panic(err)
	}
	return g
}

// InsertionOrder returns the tables parents-first.
func InsertionOrder() []string {
	return tableGraph.Order()
}

// TruncateOrder returns the tables dependents-first.
func TruncateOrder() []string {
	return tableGraph.ReverseOrder()
}

func ResetSQL() string {
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(TruncateOrder(), ", "))
}

// Reset empties every table of the course schema and restarts the id
// sequences. It runs on the caller's transaction.
func Reset(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, ResetSQL()); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func insertReturningID(ctx context.Context, db DBTX, b squirrel.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}
	var id int64
	if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func enumValue(value, enumType string) squirrel.Sqlizer {
	return squirrel.Expr("?::"+enumType, value)
}
