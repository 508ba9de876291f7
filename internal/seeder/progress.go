package seeder

import (
	"context"
	"fmt"
)

const (
	minSampledLessons    = 3
	maxSampledLessons    = 10
	maxProgressDelayDays = 90
)

// Progress records watch time for a sample of each enrollment's lessons.
// Watched minutes never exceed the lesson duration and a lesson only counts
// as completed when fully watched on a non-cancelled enrollment.
func (g *Generator) Progress(ctx context.Context, db DBTX, enrollments []Enrollment, index LessonIndex) ([]LessonProgress, error) {
	var rows []LessonProgress

	for _, e := range enrollments {
		lessons := index.Lessons(e.CourseID)
		if len(lessons) == 0 {
			continue
		}

		for _, l := range sample(g.data, lessons, g.sampleSize(len(lessons))) {
			watched := g.data.IntBetween(0, l.Minutes)
			p := LessonProgress{
				EnrollmentID:   e.ID,
				LessonID:       l.ID,
				WatchedMinutes: watched,
				Completed:      watched == l.Minutes && e.Status != StatusCancelled,
			}
			if p.Completed {
				at := e.EnrolledOn.AddDate(0, 0, g.data.IntBetween(1, maxProgressDelayDays))
				p.CompletedAt = &at
			}

			query, args, err := qb.Insert("lesson_progress").
				Columns("enrollment_id", "lesson_id", "completed", "completed_at", "watched_minutes").
				Values(p.EnrollmentID, p.LessonID, p.Completed, p.CompletedAt, p.WatchedMinutes).
				ToSql()
			if err != nil {
				return rows, fmt.Errorf("failed to build progress insert: %w", err)
			}
			if _, err := db.Exec(ctx, query, args...); err != nil {
				return rows, fmt.Errorf("failed to insert progress of enrollment %d on lesson %d: %w", e.ID, l.ID, err)
			}
			rows = append(rows, p)
		}
	}
	return rows, nil
}

// sampleSize is uniform in [3, min(10, available)]; courses with fewer than
// three lessons get all of them.
func (g *Generator) sampleSize(available int) int {
	upper := min(maxSampledLessons, available)
	if upper < minSampledLessons {
		return upper
	}
	return g.data.IntBetween(minSampledLessons, upper)
}
