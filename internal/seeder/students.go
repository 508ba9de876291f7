package seeder

import (
	"context"
	"fmt"
)

const (
	minStudentAge      = 18
	maxStudentAge      = 45
	registrationWindow = 730
	daysPerYearForAges = 365
)

func (g *Generator) Students(ctx context.Context, db DBTX, n int) ([]Student, error) {
	emails := NewAllocator[string](n * emailAttemptsPerRecord)
	today := g.data.Today()
	students := make([]Student, 0, n)

	for i := 0; i < n; i++ {
		name := g.data.Name()
		email, ok := emails.Allocate(func() string { return g.data.Email(name) })
		if !ok {
			return students, fmt.Errorf("failed to allocate student email: %w", ErrAllocatorExhausted)
		}

		ageDays := g.data.IntBetween(minStudentAge*daysPerYearForAges, maxStudentAge*daysPerYearForAges)
		s := Student{
			Name:         name,
			Email:        email,
			BirthDate:    today.AddDate(0, 0, -ageDays),
			RegisteredAt: g.data.DaysAgo(registrationWindow),
		}
		id, err := insertReturningID(ctx, db, qb.Insert("students").
			Columns("name", "email", "birth_date", "registered_at").
			Values(s.Name, s.Email, s.BirthDate, s.RegisteredAt))
		if err != nil {
			return students, fmt.Errorf("failed to insert student %s: %w", s.Email, err)
		}
		s.ID = id
		students = append(students, s)
	}
	return students, nil
}
