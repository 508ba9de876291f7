package seeder

import (
	"context"
	"fmt"
	"math"
)

const (
	enrollmentAttemptFactor = 6
	enrollmentWindowDays    = 240
	minCompletionDays       = 7
	maxCompletionDays       = 120
)

type enrollmentPair struct {
	student int64
	course  int64
}

// Enrollments creates up to q distinct (student, course) pairs. Draws that
// repeat a pair are skipped; after 6*q draws the stage stops with whatever it
// has, which is not an error.
func (g *Generator) Enrollments(ctx context.Context, db DBTX, students []Student, courses []Course, q int) ([]Enrollment, error) {
	if q <= 0 {
		return nil, nil
	}
	if len(students) == 0 || len(courses) == 0 {
		return nil, fmt.Errorf("enrollments need students and courses: %w", ErrEmptyPool)
	}

	prices := make(map[int64]Money, len(courses))
	for _, c := range courses {
		prices[c.ID] = c.Price
	}

	pairs := NewAllocator[enrollmentPair](q * enrollmentAttemptFactor)
	today := g.data.Today()
	enrollments := make([]Enrollment, 0, q)

	for len(enrollments) < q {
		p, ok := pairs.Allocate(func() enrollmentPair {
			return enrollmentPair{student: pick(g.data, students).ID, course: pick(g.data, courses).ID}
		})
		if !ok {
			g.log.Warn("enrollment attempt budget exhausted", "requested", q, "created", len(enrollments))
			break
		}

		e := Enrollment{
			StudentID:  p.student,
			CourseID:   p.course,
			EnrolledOn: today.AddDate(0, 0, -g.data.IntBetween(0, enrollmentWindowDays)),
			Status:     g.dist.status(g.data.Float64()),
		}
		if e.Status == StatusCompleted {
			done := e.EnrolledOn.AddDate(0, 0, g.data.IntBetween(minCompletionDays, maxCompletionDays))
			e.CompletedOn = &done
		}
		e.AmountPaid = prices[p.course].Discounted(g.discountPercent())

		id, err := insertReturningID(ctx, db, qb.Insert("enrollments").
			Columns("student_id", "course_id", "enrolled_on", "completed_on", "status", "amount_paid").
			Values(e.StudentID, e.CourseID, e.EnrolledOn, e.CompletedOn,
				enumValue(string(e.Status), "enrollment_status"), e.AmountPaid.Numeric()))
		if err != nil {
			return enrollments, fmt.Errorf("failed to insert enrollment of student %d in course %d: %w", e.StudentID, e.CourseID, err)
		}
		e.ID = id
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

// discountPercent draws a whole percent in [0, MaxDiscount).
func (g *Generator) discountPercent() int {
	maxPct := int(math.Round(g.dist.MaxDiscount * 100))
	if maxPct <= 0 {
		return 0
	}
	return g.data.IntBetween(0, maxPct-1)
}
