package verify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeRow struct {
	n   int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.n
	return nil
}

type fakeDB struct {
	counts  map[string]int64
	queries []string
	args    [][]any
	err     error
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	for fragment, n := range f.counts {
		if strings.Contains(sql, fragment) {
			return fakeRow{n: n}
		}
	}
	return fakeRow{err: f.err}
}

func TestChecksBuild(t *testing.T) {
	for _, c := range Checks(0.2) {
		query, args, err := c.SQL()
		if err != nil {
			t.Fatalf("Check %s failed to build: %v", c.Name, err)
		}
		if !strings.HasPrefix(query, "SELECT COUNT(*) FROM") {
			t.Errorf("Check %s is not a count: %s", c.Name, query)
		}
		if c.Name == "paid_amount" {
			if len(args) != 1 || args[0].(float64) != 0.8 {
				t.Errorf("Expected the discount floor as the only argument, got %v", args)
			}
			if !strings.Contains(query, "$1::numeric") {
				t.Errorf("Expected dollar placeholders, got %s", query)
			}
		}
	}
}

func TestRunCollectsViolations(t *testing.T) {
	db := &fakeDB{counts: map[string]int64{
		"FROM lessons GROUP BY module_id": 2,
		"evaluations v":                   1,
	}}

	results, err := Run(context.Background(), db, Checks(0.2))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != len(Checks(0.2)) {
		t.Fatalf("Expected one result per check, got %d", len(results))
	}

	got := make(map[string]int64)
	for _, r := range results {
		got[r.Name] = r.Violations
	}
	if got["lesson_positions"] != 2 || got["evaluation_eligibility"] != 1 || got["module_positions"] != 0 {
		t.Errorf("Unexpected violations %v", got)
	}
	if Failed(results) != 2 {
		t.Errorf("Expected 2 failed checks, got %d", Failed(results))
	}
}

func TestRunStopsOnError(t *testing.T) {
	boom := errors.New("relation \"modules\" does not exist")
	db := &fakeDB{err: boom}

	_, err := Run(context.Background(), db, Checks(0.2))
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "module_positions") {
		t.Errorf("Expected wrapped error naming the check, got %v", err)
	}
	if len(db.queries) != 1 {
		t.Errorf("Expected to stop after the first failure, ran %d queries", len(db.queries))
	}
}
