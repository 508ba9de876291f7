package verify

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
)

type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Check counts rows that break one property of a populated schema. A healthy
// database has zero violations for every check.
type Check struct {
	Name        string
	Description string
	query       squirrel.SelectBuilder
}

type Result struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Violations  int64  `json:"violations" yaml:"violations"`
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func positionGaps(table, parent string) squirrel.SelectBuilder {
	groups := qb.Select(parent).From(table).GroupBy(parent).
		Having("MIN(position) <> 1 OR MAX(position) <> COUNT(*) OR COUNT(DISTINCT position) <> COUNT(*)")
	return qb.Select("COUNT(*)").FromSelect(groups, "gaps")
}

// Checks builds the property checks. maxDiscount bounds how far below the
// list price an enrollment may have been paid.
func Checks(maxDiscount float64) []Check {
	return []Check{
		{
			Name:        "module_positions",
			Description: "module positions run 1..n per course",
			query:       positionGaps("modules", "course_id"),
		},
		{
			Name:        "lesson_positions",
			Description: "lesson positions run 1..n per module",
			query:       positionGaps("lessons", "module_id"),
		},
		{
			Name:        "duplicate_enrollments",
			Description: "a student enrolls in a course at most once",
			query: qb.Select("COUNT(*)").FromSelect(
				qb.Select("student_id", "course_id").From("enrollments").
					GroupBy("student_id", "course_id").Having("COUNT(*) > 1"), "dups"),
		},
		{
			Name:        "completion_dates",
			Description: "completed_on is set exactly for completed enrollments and never precedes enrolled_on",
			query: qb.Select("COUNT(*)").From("enrollments").
				Where("(status = 'completed') <> (completed_on IS NOT NULL) OR completed_on < enrolled_on"),
		},
		{
			Name:        "paid_amount",
			Description: "amount paid lies between the discounted and the list price",
			query: qb.Select("COUNT(*)").From("enrollments e").
				Join("courses c ON c.id = e.course_id").
				Where(squirrel.Or{
					squirrel.Expr("e.amount_paid > c.price"),
					squirrel.Expr("e.amount_paid < ROUND(c.price * ?::numeric, 2)", 1-maxDiscount),
				}),
		},
		{
			Name:        "progress_course",
			Description: "progress only covers lessons of the enrolled course",
			query: qb.Select("COUNT(*)").From("lesson_progress p").
				Join("enrollments e ON e.id = p.enrollment_id").
				Join("lessons l ON l.id = p.lesson_id").
				Join("modules m ON m.id = l.module_id").
				Where("m.course_id <> e.course_id"),
		},
		{
			Name:        "progress_minutes",
			Description: "watched minutes never exceed the lesson duration",
			query: qb.Select("COUNT(*)").From("lesson_progress p").
				Join("lessons l ON l.id = p.lesson_id").
				Where("p.watched_minutes < 0 OR p.watched_minutes > l.duration_minutes"),
		},
		{
			Name:        "progress_completion",
			Description: "a lesson is completed only when fully watched on a non-cancelled enrollment",
			query: qb.Select("COUNT(*)").From("lesson_progress p").
				Join("lessons l ON l.id = p.lesson_id").
				Join("enrollments e ON e.id = p.enrollment_id").
				Where("p.completed AND (p.watched_minutes <> l.duration_minutes OR e.status = 'cancelled' OR p.completed_at IS NULL)"),
		},
		{
			Name:        "evaluation_eligibility",
			Description: "evaluations belong to completed enrollments of the same course",
			query: qb.Select("COUNT(*)").From("evaluations v").
				Join("enrollments e ON e.id = v.enrollment_id").
				Where("e.status <> 'completed' OR v.course_id <> e.course_id OR v.rating NOT BETWEEN 1 AND 5"),
		},
	}
}

func (c Check) SQL() (string, []any, error) {
	return c.query.ToSql()
}

// Run executes every check and returns one result per check.
func Run(ctx context.Context, db RowQuerier, checks []Check) ([]Result, error) {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		query, args, err := c.SQL()
		if err != nil {
			return nil, fmt.Errorf("failed to build check %s: %w", c.Name, err)
		}
		var n int64
		if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to run check %s: %w", c.Name, err)
		}
		results = append(results, Result{Name: c.Name, Description: c.Description, Violations: n})
	}
	return results, nil
}

func Failed(results []Result) int {
	failed := 0
	for _, r := range results {
		if r.Violations > 0 {
			failed++
		}
	}
	return failed
}

func Print(results []Result) {
	for _, r := range results {
		if r.Violations == 0 {
			color.Green("  ✅ %-24s %s", r.Name, r.Description)
			continue
		}
		color.Red("  ❌ %-24s %d violation(s): %s", r.Name, r.Violations, r.Description)
	}
}
