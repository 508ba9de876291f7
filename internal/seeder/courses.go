package seeder

import (
	"context"
	"fmt"
)

var courseKinds = []string{"Course", "Program", "Track"}

const (
	minPrice      = 49.90
	priceSpan     = 450.0
	minHours      = 8
	maxHours      = 48
	courseAgeDays = 365
)

// Courses draws category and instructor independently for every course, so
// several courses may share either.
func (g *Generator) Courses(ctx context.Context, db DBTX, n int, categories []Category, instructors []Instructor) ([]Course, error) {
	if n > 0 && (len(categories) == 0 || len(instructors) == 0) {
		return nil, fmt.Errorf("courses need categories and instructors: %w", ErrEmptyPool)
	}

	courses := make([]Course, 0, n)
	for i := 1; i <= n; i++ {
		c := Course{
			Title:        fmt.Sprintf("%s %s %d", pick(g.data, courseKinds), g.data.Title(), i),
			CategoryID:   pick(g.data, categories).ID,
			InstructorID: pick(g.data, instructors).ID,
			Price:        MoneyFromFloat(minPrice + g.data.Float64()*priceSpan),
			Hours:        g.data.IntBetween(minHours, maxHours),
			Level:        pick(g.data, levels),
			CreatedAt:    g.data.DaysAgo(courseAgeDays),
		}

		id, err := insertReturningID(ctx, db, qb.Insert("courses").
			Columns("title", "description", "category_id", "instructor_id", "price", "duration_hours", "level", "created_at").
			Values(c.Title, g.data.Sentence(10), c.CategoryID, c.InstructorID, c.Price.Numeric(), c.Hours,
				enumValue(string(c.Level), "course_level"), c.CreatedAt))
		if err != nil {
			return courses, fmt.Errorf("failed to insert course %q: %w", c.Title, err)
		}
		c.ID = id
		courses = append(courses, c)
	}
	return courses, nil
}
