package seeder

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyPool          = errors.New("empty identifier pool")
	ErrAllocatorExhausted = errors.New("attempt budget exhausted before a fresh value was found")
	ErrInvalidBounds      = errors.New("invalid curriculum bounds")
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

var levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}

type LessonType string

const (
	LessonVideo LessonType = "video"
	LessonText  LessonType = "text"
	LessonQuiz  LessonType = "quiz"
)

var lessonTypes = []LessonType{LessonVideo, LessonText, LessonQuiz}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Options are the cardinality knobs of one run.
type Options struct {
	Categories   int
	Instructors  int
	Courses      int
	Students     int
	Enrollments  int
	Bounds       Bounds
	Distribution Distribution
	CategoryPool []CategorySeed // nil means the built-in pool
	Reset        bool
	Seed         int64 // 0 picks a time-based seed
}

func (o Options) Validate() error {
	counts := map[string]int{
		"categories":  o.Categories,
		"instructors": o.Instructors,
		"courses":     o.Courses,
		"students":    o.Students,
		"enrollments": o.Enrollments,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%s count cannot be negative: %d", name, n)
		}
	}
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	return o.Distribution.Validate()
}

// Bounds limit how many modules a course and lessons a module get.
type Bounds struct {
	MinModules int
	MaxModules int
	MinLessons int
	MaxLessons int
}

func DefaultBounds() Bounds {
	return Bounds{MinModules: 3, MaxModules: 5, MinLessons: 3, MaxLessons: 6}
}

func (b Bounds) Validate() error {
	if b.MinModules < 0 || b.MinLessons < 0 {
		return fmt.Errorf("%w: minimums cannot be negative", ErrInvalidBounds)
	}
	if b.MinModules > b.MaxModules {
		return fmt.Errorf("%w: min modules %d > max modules %d", ErrInvalidBounds, b.MinModules, b.MaxModules)
	}
	if b.MinLessons > b.MaxLessons {
		return fmt.Errorf("%w: min lessons %d > max lessons %d", ErrInvalidBounds, b.MinLessons, b.MaxLessons)
	}
	return nil
}

// Distribution holds the cumulative status thresholds and the discount cap.
// A draw below Completed is completed, below Active is active, the rest cancelled.
type Distribution struct {
	Completed   float64
	Active      float64
	MaxDiscount float64
}

func DefaultDistribution() Distribution {
	return Distribution{Completed: 0.45, Active: 0.80, MaxDiscount: 0.20}
}

func (d Distribution) Validate() error {
	if d.Completed < 0 || d.Active > 1 || d.Completed > d.Active {
		return fmt.Errorf("status thresholds must satisfy 0 <= completed <= active <= 1 (got %.2f, %.2f)", d.Completed, d.Active)
	}
	if d.MaxDiscount < 0 || d.MaxDiscount > 1 {
		return fmt.Errorf("max discount must be within [0, 1], got %.2f", d.MaxDiscount)
	}
	return nil
}

func (d Distribution) status(r float64) Status {
	switch {
	case r < d.Completed:
		return StatusCompleted
	case r < d.Active:
		return StatusActive
	default:
		return StatusCancelled
	}
}

type CategorySeed struct {
	Name        string
	Description string
}

type Category struct {
	ID          int64
	Name        string
	Description string
}

type Instructor struct {
	ID        int64
	Name      string
	Email     string
	Specialty string
}

type Course struct {
	ID           int64
	Title        string
	CategoryID   int64
	InstructorID int64
	Price        Money
	Hours        int
	Level        Level
	CreatedAt    time.Time
}

type Module struct {
	ID       int64
	CourseID int64
	Position int
	Title    string
}

type Lesson struct {
	ID       int64
	ModuleID int64
	Position int
	Title    string
	Minutes  int
	Type     LessonType
}

type Student struct {
	ID           int64
	Name         string
	Email        string
	BirthDate    time.Time
	RegisteredAt time.Time
}

type Enrollment struct {
	ID          int64
	StudentID   int64
	CourseID    int64
	EnrolledOn  time.Time
	CompletedOn *time.Time
	Status      Status
	AmountPaid  Money
}

type LessonProgress struct {
	EnrollmentID   int64
	LessonID       int64
	WatchedMinutes int
	Completed      bool
	CompletedAt    *time.Time
}
