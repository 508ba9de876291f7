package seeder

import (
	"context"
	"errors"
	"testing"
)

type fixture struct {
	tx          *fakeTx
	gen         *Generator
	categories  []Category
	instructors []Instructor
	courses     []Course
	curriculum  *Curriculum
	students    []Student
}

func newFixture(t *testing.T, courses, students int, b Bounds) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{tx: newFakeTx(), gen: newTestGenerator(42)}

	var err error
	if f.categories, err = f.gen.Categories(ctx, f.tx, 5); err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if f.instructors, err = f.gen.Instructors(ctx, f.tx, 3); err != nil {
		t.Fatalf("Instructors failed: %v", err)
	}
	if f.courses, err = f.gen.Courses(ctx, f.tx, courses, f.categories, f.instructors); err != nil {
		t.Fatalf("Courses failed: %v", err)
	}
	if f.curriculum, err = f.gen.Curriculum(ctx, f.tx, f.courses, b); err != nil {
		t.Fatalf("Curriculum failed: %v", err)
	}
	if f.students, err = f.gen.Students(ctx, f.tx, students); err != nil {
		t.Fatalf("Students failed: %v", err)
	}
	return f
}

func TestCategoriesMinimumAndCap(t *testing.T) {
	ctx := context.Background()

	got, err := newTestGenerator(1).Categories(ctx, newFakeTx(), 2)
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(got) != minCategories {
		t.Errorf("Expected at least %d categories, got %d", minCategories, len(got))
	}

	got, err = newTestGenerator(1).Categories(ctx, newFakeTx(), 50)
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	if len(got) != len(defaultCategoryPool) {
		t.Errorf("Expected the pool size %d to cap the result, got %d", len(defaultCategoryPool), len(got))
	}

	names := make(map[string]bool)
	for _, c := range got {
		if names[c.Name] {
			t.Errorf("Category %q inserted twice", c.Name)
		}
		names[c.Name] = true
	}
}

func TestCategoriesDoNotMutatePool(t *testing.T) {
	pool := []CategorySeed{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}}
	g := NewGenerator(NewDataGenerator(5, testNow), DefaultDistribution(), pool, nil)

	if _, err := g.Categories(context.Background(), newFakeTx(), 5); err != nil {
		t.Fatalf("Categories failed: %v", err)
	}
	for i, want := range []string{"A", "B", "C", "D", "E"} {
		if pool[i].Name != want {
			t.Fatalf("Expected pool to keep its order, got %v", pool)
		}
	}
}

func TestPeopleHaveUniqueEmails(t *testing.T) {
	f := newFixture(t, 2, 200, DefaultBounds())

	seen := make(map[string]bool)
	for _, s := range f.students {
		if seen[s.Email] {
			t.Errorf("Duplicate student email %s", s.Email)
		}
		seen[s.Email] = true

		age := testNow.Year() - s.BirthDate.Year()
		if age < 17 || age > 46 {
			t.Errorf("Student %s has implausible age %d", s.Name, age)
		}
		if s.RegisteredAt.After(testNow) {
			t.Errorf("Student %s registered in the future", s.Name)
		}
	}
	if len(f.students) != 200 {
		t.Errorf("Expected 200 students, got %d", len(f.students))
	}
}

func TestCoursesNeedPools(t *testing.T) {
	g := newTestGenerator(1)
	_, err := g.Courses(context.Background(), newFakeTx(), 3, nil, []Instructor{{ID: 1}})
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Expected ErrEmptyPool, got %v", err)
	}

	courses, err := g.Courses(context.Background(), newFakeTx(), 0, nil, nil)
	if err != nil || len(courses) != 0 {
		t.Errorf("Expected zero courses without error, got %d, %v", len(courses), err)
	}
}

func TestCoursesReferenceExistingRows(t *testing.T) {
	f := newFixture(t, 20, 1, DefaultBounds())

	categoryIDs := make(map[int64]bool)
	for _, c := range f.categories {
		categoryIDs[c.ID] = true
	}
	instructorIDs := make(map[int64]bool)
	for _, in := range f.instructors {
		instructorIDs[in.ID] = true
	}

	for _, c := range f.courses {
		if !categoryIDs[c.CategoryID] || !instructorIDs[c.InstructorID] {
			t.Errorf("Course %q references unknown rows", c.Title)
		}
		if c.Price < 4990 || c.Price > 49990 {
			t.Errorf("Course %q has price %s outside [49.90, 499.90]", c.Title, c.Price)
		}
		if c.Hours < minHours || c.Hours > maxHours {
			t.Errorf("Course %q has %d hours", c.Title, c.Hours)
		}
	}
}

func TestCurriculumPositionsAreContiguous(t *testing.T) {
	b := DefaultBounds()
	f := newFixture(t, 6, 1, b)

	modulesByCourse := make(map[int64][]Module)
	for _, m := range f.curriculum.Modules {
		modulesByCourse[m.CourseID] = append(modulesByCourse[m.CourseID], m)
	}
	lessonsByModule := make(map[int64][]Lesson)
	for _, l := range f.curriculum.Lessons {
		lessonsByModule[l.ModuleID] = append(lessonsByModule[l.ModuleID], l)
	}

	for _, c := range f.courses {
		modules := modulesByCourse[c.ID]
		if len(modules) < b.MinModules || len(modules) > b.MaxModules {
			t.Errorf("Course %d has %d modules", c.ID, len(modules))
		}
		total := 0
		for i, m := range modules {
			if m.Position != i+1 {
				t.Errorf("Course %d module %d has position %d", c.ID, i, m.Position)
			}
			lessons := lessonsByModule[m.ID]
			if len(lessons) < b.MinLessons || len(lessons) > b.MaxLessons {
				t.Errorf("Module %d has %d lessons", m.ID, len(lessons))
			}
			for j, l := range lessons {
				if l.Position != j+1 {
					t.Errorf("Module %d lesson %d has position %d", m.ID, j, l.Position)
				}
				if l.Minutes < minLessonMinutes || l.Minutes > maxLessonMinutes {
					t.Errorf("Lesson %d lasts %d minutes", l.ID, l.Minutes)
				}
			}
			total += len(lessons)
		}
		if got := len(f.curriculum.Index.Lessons(c.ID)); got != total {
			t.Errorf("Index lists %d lessons for course %d, expected %d", got, c.ID, total)
		}
	}
	if f.curriculum.Index.Courses() != len(f.courses) {
		t.Errorf("Expected every course in the index, got %d", f.curriculum.Index.Courses())
	}
}

func TestCurriculumRejectsInvalidBounds(t *testing.T) {
	_, err := newTestGenerator(1).Curriculum(context.Background(), newFakeTx(), []Course{{ID: 1}},
		Bounds{MinModules: 5, MaxModules: 2})
	if !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("Expected ErrInvalidBounds, got %v", err)
	}
}

func TestEnrollmentsAreUniquePairs(t *testing.T) {
	f := newFixture(t, 2, 3, DefaultBounds())

	enrollments, err := f.gen.Enrollments(context.Background(), f.tx, f.students, f.courses, 50)
	if err != nil {
		t.Fatalf("Enrollments failed: %v", err)
	}
	if len(enrollments) > 6 {
		t.Fatalf("Expected at most 6 distinct pairs, got %d", len(enrollments))
	}

	prices := make(map[int64]Money)
	for _, c := range f.courses {
		prices[c.ID] = c.Price
	}
	pairs := make(map[enrollmentPair]bool)
	for _, e := range enrollments {
		p := enrollmentPair{student: e.StudentID, course: e.CourseID}
		if pairs[p] {
			t.Errorf("Pair %+v enrolled twice", p)
		}
		pairs[p] = true

		price := prices[e.CourseID]
		if e.AmountPaid > price || int64(e.AmountPaid)*100 < int64(price)*80 {
			t.Errorf("Paid %s for a course priced %s", e.AmountPaid, price)
		}
		if (e.Status == StatusCompleted) != (e.CompletedOn != nil) {
			t.Errorf("Enrollment %d has status %s and completed_on %v", e.ID, e.Status, e.CompletedOn)
		}
		if e.CompletedOn != nil && !e.CompletedOn.After(e.EnrolledOn) {
			t.Errorf("Enrollment %d completed before it started", e.ID)
		}
	}
}

func TestEnrollmentsEdgeCases(t *testing.T) {
	g := newTestGenerator(1)
	ctx := context.Background()

	got, err := g.Enrollments(ctx, newFakeTx(), nil, nil, 0)
	if err != nil || got != nil {
		t.Errorf("Expected nothing for zero requested, got %v, %v", got, err)
	}

	_, err = g.Enrollments(ctx, newFakeTx(), nil, []Course{{ID: 1}}, 5)
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("Expected ErrEmptyPool, got %v", err)
	}
}

func TestProgressInvariants(t *testing.T) {
	f := newFixture(t, 5, 20, DefaultBounds())
	ctx := context.Background()

	enrollments, err := f.gen.Enrollments(ctx, f.tx, f.students, f.courses, 40)
	if err != nil {
		t.Fatalf("Enrollments failed: %v", err)
	}
	rows, err := f.gen.Progress(ctx, f.tx, enrollments, f.curriculum.Index)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}

	byEnrollment := make(map[int64]Enrollment)
	for _, e := range enrollments {
		byEnrollment[e.ID] = e
	}
	minutes := make(map[int64]int)
	for _, l := range f.curriculum.Lessons {
		minutes[l.ID] = l.Minutes
	}

	perEnrollment := make(map[int64]map[int64]bool)
	for _, p := range rows {
		e := byEnrollment[p.EnrollmentID]
		if perEnrollment[e.ID] == nil {
			perEnrollment[e.ID] = make(map[int64]bool)
		}
		if perEnrollment[e.ID][p.LessonID] {
			t.Errorf("Lesson %d recorded twice for enrollment %d", p.LessonID, e.ID)
		}
		perEnrollment[e.ID][p.LessonID] = true

		if p.WatchedMinutes < 0 || p.WatchedMinutes > minutes[p.LessonID] {
			t.Errorf("Watched %d of a %d minute lesson", p.WatchedMinutes, minutes[p.LessonID])
		}
		if p.Completed && (p.WatchedMinutes != minutes[p.LessonID] || e.Status == StatusCancelled) {
			t.Errorf("Lesson %d marked completed for enrollment %d (%s)", p.LessonID, e.ID, e.Status)
		}
		if p.Completed != (p.CompletedAt != nil) {
			t.Errorf("completed_at does not match completed flag for lesson %d", p.LessonID)
		}
	}

	for _, e := range enrollments {
		available := len(f.curriculum.Index.Lessons(e.CourseID))
		n := len(perEnrollment[e.ID])
		if n < min(minSampledLessons, available) || n > min(maxSampledLessons, available) {
			t.Errorf("Enrollment %d has %d progress rows for %d lessons", e.ID, n, available)
		}
	}
}

func TestProgressWithoutLessons(t *testing.T) {
	f := newFixture(t, 3, 5, Bounds{MinModules: 1, MaxModules: 2})

	enrollments, err := f.gen.Enrollments(context.Background(), f.tx, f.students, f.courses, 5)
	if err != nil {
		t.Fatalf("Enrollments failed: %v", err)
	}
	rows, err := f.gen.Progress(context.Background(), f.tx, enrollments, f.curriculum.Index)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no progress for lesson-less courses, got %d", len(rows))
	}
}

func TestEvaluationsOncePerCompletedEnrollment(t *testing.T) {
	tx := newFakeTx()
	g := newTestGenerator(8)
	done := testNow.AddDate(0, 0, -10)
	enrollments := []Enrollment{
		{ID: 1, CourseID: 1, Status: StatusCompleted, CompletedOn: &done},
		{ID: 2, CourseID: 1, Status: StatusActive},
		{ID: 3, CourseID: 2, Status: StatusCompleted, CompletedOn: &done},
		{ID: 4, CourseID: 2, Status: StatusCancelled},
	}

	n, err := g.Evaluations(context.Background(), tx, enrollments)
	if err != nil {
		t.Fatalf("Evaluations failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 evaluations, got %d", n)
	}
	for _, args := range tx.rows["evaluations"] {
		rating := args[2].(int)
		if rating < 1 || rating > 5 {
			t.Errorf("Rating %d outside [1, 5]", rating)
		}
	}

	n, err = g.Evaluations(context.Background(), tx, enrollments)
	if err != nil {
		t.Fatalf("Second Evaluations failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected repeated evaluations to be dropped, got %d", n)
	}
	if len(tx.rows["evaluations"]) != 2 {
		t.Errorf("Expected 2 stored evaluations, got %d", len(tx.rows["evaluations"]))
	}
}
