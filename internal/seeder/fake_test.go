package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var testNow = time.Date(2025, time.March, 14, 15, 30, 0, 0, time.UTC)

// fakeTx records every statement and hands out sequential ids per table.
// Category names and one evaluation per enrollment are enforced the way the
// real schema does it.
type fakeTx struct {
	pgx.Tx

	ids        map[string]int64
	rows       map[string][][]any
	statements []string
	names      map[string]bool
	evaluated  map[int64]bool

	failTable  string
	failErr    error
	commitErr  error
	rollbackFn func() error

	committed  int
	rolledBack int
}

func newFakeTx() *fakeTx {
	return &fakeTx{
		ids:       make(map[string]int64),
		rows:      make(map[string][][]any),
		names:     make(map[string]bool),
		evaluated: make(map[int64]bool),
	}
}

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return fmt.Errorf("expected one scan target, got %d", len(dest))
	}
	p, ok := dest[0].(*int64)
	if !ok {
		return fmt.Errorf("unexpected scan target %T", dest[0])
	}
	*p = r.id
	return nil
}

func tableOf(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) > 2 && fields[0] == "INSERT" {
		return fields[2]
	}
	return ""
}

func (f *fakeTx) insert(sql string, args []any) (int64, error) {
	table := tableOf(sql)
	if table == "" {
		return 0, fmt.Errorf("unexpected statement: %s", sql)
	}
	if table == f.failTable {
		return 0, f.failErr
	}
	if table == "categories" {
		name := args[0].(string)
		if f.names[name] {
			return 0, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"categories_name_key\""}
		}
		f.names[name] = true
	}
	f.ids[table]++
	f.rows[table] = append(f.rows[table], args)
	return f.ids[table], nil
}

func (f *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.statements = append(f.statements, sql)
	id, err := f.insert(sql, args)
	return fakeRow{id: id, err: err}
}

func (f *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.statements = append(f.statements, sql)
	if strings.HasPrefix(sql, "TRUNCATE") {
		return pgconn.NewCommandTag("TRUNCATE TABLE"), nil
	}
	if tableOf(sql) == "evaluations" && strings.Contains(sql, "ON CONFLICT") {
		id := args[0].(int64)
		if f.evaluated[id] {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		f.evaluated[id] = true
	}
	if _, err := f.insert(sql, args); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeTx) Commit(context.Context) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.committed++
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack++
	if f.rollbackFn != nil {
		return f.rollbackFn()
	}
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func newTestGenerator(seed int64) *Generator {
	return NewGenerator(NewDataGenerator(seed, testNow), DefaultDistribution(), nil, nil)
}

var errBoom = errors.New("boom")
