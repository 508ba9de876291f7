package seeder

import (
	"context"
	"fmt"
	"slices"
)

const (
	minLessonMinutes = 5
	maxLessonMinutes = 45
)

type LessonRef struct {
	ID      int64
	Minutes int
}

// LessonIndex maps each course to its lessons in curriculum order. It is
// filled once by the curriculum stage and only read afterwards.
type LessonIndex struct {
	byCourse map[int64][]LessonRef
}

func NewLessonIndex(byCourse map[int64][]LessonRef) LessonIndex {
	m := make(map[int64][]LessonRef, len(byCourse))
	for id, refs := range byCourse {
		m[id] = slices.Clone(refs)
	}
	return LessonIndex{byCourse: m}
}

// Lessons returns a copy; callers may reorder it freely.
func (x LessonIndex) Lessons(courseID int64) []LessonRef {
	return slices.Clone(x.byCourse[courseID])
}

func (x LessonIndex) Courses() int {
	return len(x.byCourse)
}

func (x LessonIndex) Total() int {
	total := 0
	for _, refs := range x.byCourse {
		total += len(refs)
	}
	return total
}

type Curriculum struct {
	Modules []Module
	Lessons []Lesson
	Index   LessonIndex
}

// Curriculum gives every course an ordered module list and every module an
// ordered lesson list. Positions always run 1..n without gaps.
func (g *Generator) Curriculum(ctx context.Context, db DBTX, courses []Course, b Bounds) (*Curriculum, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	cur := &Curriculum{}
	byCourse := make(map[int64][]LessonRef, len(courses))

	for _, course := range courses {
		refs := []LessonRef{}
		moduleCount := g.data.IntBetween(b.MinModules, b.MaxModules)

		for mPos := 1; mPos <= moduleCount; mPos++ {
			m := Module{
				CourseID: course.ID,
				Position: mPos,
				Title:    fmt.Sprintf("Module %d - %s", mPos, g.data.Title()),
			}
			id, err := insertReturningID(ctx, db, qb.Insert("modules").
				Columns("course_id", "title", "position", "description").
				Values(m.CourseID, m.Title, m.Position, g.data.Sentence(8)))
			if err != nil {
				return cur, fmt.Errorf("failed to insert module %d of course %d: %w", mPos, course.ID, err)
			}
			m.ID = id
			cur.Modules = append(cur.Modules, m)

			lessonCount := g.data.IntBetween(b.MinLessons, b.MaxLessons)
			for lPos := 1; lPos <= lessonCount; lPos++ {
				l := Lesson{
					ModuleID: m.ID,
					Position: lPos,
					Title:    fmt.Sprintf("Lesson %d.%d - %s", mPos, lPos, g.data.Title()),
					Minutes:  g.data.IntBetween(minLessonMinutes, maxLessonMinutes),
					Type:     pick(g.data, lessonTypes),
				}
				id, err := insertReturningID(ctx, db, qb.Insert("lessons").
					Columns("module_id", "title", "position", "duration_minutes", "type").
					Values(l.ModuleID, l.Title, l.Position, l.Minutes, enumValue(string(l.Type), "lesson_type")))
				if err != nil {
					return cur, fmt.Errorf("failed to insert lesson %d.%d of course %d: %w", mPos, lPos, course.ID, err)
				}
				l.ID = id
				cur.Lessons = append(cur.Lessons, l)
				refs = append(refs, LessonRef{ID: l.ID, Minutes: l.Minutes})
			}
		}
		byCourse[course.ID] = refs
	}

	cur.Index = LessonIndex{byCourse: byCourse}
	return cur, nil
}
