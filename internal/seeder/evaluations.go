package seeder

import (
	"context"
	"fmt"
)

const maxEvaluationDelayDays = 60

// Evaluations rates every completed enrollment once. A second attempt for the
// same enrollment is dropped by the database, so the returned count is the
// number of rows actually written.
func (g *Generator) Evaluations(ctx context.Context, db DBTX, enrollments []Enrollment) (int, error) {
	inserted := 0
	for _, e := range enrollments {
		if e.Status != StatusCompleted {
			continue
		}

		base := g.data.Today()
		if e.CompletedOn != nil {
			base = *e.CompletedOn
		}

		query, args, err := qb.Insert("evaluations").
			Columns("enrollment_id", "course_id", "rating", "comment", "evaluated_on").
			Values(e.ID, e.CourseID, g.data.IntBetween(1, 5), g.data.Sentence(8),
				base.AddDate(0, 0, g.data.IntBetween(0, maxEvaluationDelayDays))).
			Suffix("ON CONFLICT (enrollment_id) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("failed to build evaluation insert: %w", err)
		}

		tag, err := db.Exec(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert evaluation of enrollment %d: %w", e.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
