package seeder

import (
	"context"
	"fmt"
)

var specialties = []string{
	"SQL & Data",
	"Backend",
	"DevOps",
	"Frontend",
	"PostgreSQL",
	"Python & Data",
	"Architecture",
	"Cloud",
	"Quality",
	"Security",
}

const biographyMaxChars = 180

func (g *Generator) Instructors(ctx context.Context, db DBTX, n int) ([]Instructor, error) {
	emails := NewAllocator[string](n * emailAttemptsPerRecord)
	instructors := make([]Instructor, 0, n)

	for i := 0; i < n; i++ {
		name := g.data.Name()
		email, ok := emails.Allocate(func() string { return g.data.Email(name) })
		if !ok {
			return instructors, fmt.Errorf("failed to allocate instructor email: %w", ErrAllocatorExhausted)
		}

		in := Instructor{Name: name, Email: email, Specialty: pick(g.data, specialties)}
		id, err := insertReturningID(ctx, db, qb.Insert("instructors").
			Columns("name", "email", "specialty", "biography").
			Values(in.Name, in.Email, in.Specialty, g.data.Text(biographyMaxChars)))
		if err != nil {
			return instructors, fmt.Errorf("failed to insert instructor %s: %w", in.Email, err)
		}
		in.ID = id
		instructors = append(instructors, in)
	}
	return instructors, nil
}
