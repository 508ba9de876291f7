package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/edutech-seed/internal/config"
	"github.com/Lumos-Labs-HQ/edutech-seed/internal/logger"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Beginner opens the transaction a run lives in. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseReset       Phase = "reset"
	PhaseCategories  Phase = "categories"
	PhaseInstructors Phase = "instructors"
	PhaseCourses     Phase = "courses"
	PhaseCurriculum  Phase = "curriculum"
	PhaseStudents    Phase = "students"
	PhaseEnrollments Phase = "enrollments"
	PhaseProgress    Phase = "progress"
	PhaseEvaluations Phase = "evaluations"
	PhaseCommitted   Phase = "committed"
	PhaseRolledBack  Phase = "rolled_back"
)

type runState struct {
	opts        Options
	gen         *Generator
	categories  []Category
	instructors []Instructor
	courses     []Course
	curriculum  *Curriculum
	students    []Student
	enrollments []Enrollment
	progress    []LessonProgress
	evaluations int
}

func (st *runState) counts() Counts {
	c := Counts{
		Categories:  len(st.categories),
		Instructors: len(st.instructors),
		Courses:     len(st.courses),
		Students:    len(st.students),
		Enrollments: len(st.enrollments),
		Progress:    len(st.progress),
		Evaluations: st.evaluations,
	}
	if st.curriculum != nil {
		c.Modules = len(st.curriculum.Modules)
		c.Lessons = len(st.curriculum.Lessons)
	}
	return c
}

type stage struct {
	phase Phase
	after []Phase
	unit  string
	run   func(ctx context.Context, db DBTX, st *runState) (int, error)
}

func pipeline() []stage {
	return []stage{
		{phase: PhaseCategories, unit: "categories", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.categories, err = st.gen.Categories(ctx, db, st.opts.Categories)
			return len(st.categories), err
		}},
		{phase: PhaseInstructors, unit: "instructors", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.instructors, err = st.gen.Instructors(ctx, db, st.opts.Instructors)
			return len(st.instructors), err
		}},
		{phase: PhaseCourses, after: []Phase{PhaseCategories, PhaseInstructors}, unit: "courses", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.courses, err = st.gen.Courses(ctx, db, st.opts.Courses, st.categories, st.instructors)
			return len(st.courses), err
		}},
		{phase: PhaseCurriculum, after: []Phase{PhaseCourses}, unit: "lessons", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.curriculum, err = st.gen.Curriculum(ctx, db, st.courses, st.opts.Bounds)
			if err != nil {
				return 0, err
			}
			return st.curriculum.Index.Total(), nil
		}},
		{phase: PhaseStudents, unit: "students", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.students, err = st.gen.Students(ctx, db, st.opts.Students)
			return len(st.students), err
		}},
		{phase: PhaseEnrollments, after: []Phase{PhaseStudents, PhaseCourses}, unit: "enrollments", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.enrollments, err = st.gen.Enrollments(ctx, db, st.students, st.courses, st.opts.Enrollments)
			return len(st.enrollments), err
		}},
		{phase: PhaseProgress, after: []Phase{PhaseCurriculum, PhaseEnrollments}, unit: "progress records", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.progress, err = st.gen.Progress(ctx, db, st.enrollments, st.curriculum.Index)
			return len(st.progress), err
		}},
		{phase: PhaseEvaluations, after: []Phase{PhaseEnrollments}, unit: "evaluations", run: func(ctx context.Context, db DBTX, st *runState) (int, error) {
			var err error
			st.evaluations, err = st.gen.Evaluations(ctx, db, st.enrollments)
			return st.evaluations, err
		}},
	}
}

// orderStages sorts the stages so every stage runs after the ones it reads from.
func orderStages(stages []stage) ([]stage, error) {
	graph := NewDependencyGraph()
	byPhase := make(map[Phase]stage, len(stages))
	for _, s := range stages {
		deps := make([]string, len(s.after))
		for i, p := range s.after {
			deps[i] = string(p)
		}
		graph.Add(string(s.phase), deps...)
		byPhase[s.phase] = s
	}

	order, err := graph.BuildOrder()
	if err != nil {
		return nil, fmt.Errorf("failed to order stages: %w", err)
	}
	ordered := make([]stage, len(order))
	for i, name := range order {
		ordered[i] = byPhase[Phase(name)]
	}
	return ordered, nil
}

// Runner executes one population run as a single unit of work.
type Runner struct {
	db     Beginner
	log    *logger.Logger
	now    func() time.Time
	stages []stage
}

func NewRunner(db Beginner, log *logger.Logger) (*Runner, error) {
	if log == nil {
		log = logger.Nop()
	}
	stages, err := orderStages(pipeline())
	if err != nil {
		return nil, err
	}
	return &Runner{db: db, log: log, now: time.Now, stages: stages}, nil
}

// Phases lists the stage order the runner will follow.
func (r *Runner) Phases() []Phase {
	phases := make([]Phase, len(r.stages))
	for i, s := range r.stages {
		phases[i] = s.phase
	}
	return phases
}

// Run resets (when asked) and populates every table inside one transaction.
// Any stage error rolls the whole transaction back, reset included, and is
// returned wrapped with the stage name.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	startedAt := r.now()
	seed := opts.Seed
	if seed == 0 {
		seed = startedAt.UnixNano()
	}
	report := &Report{
		RunID:     uuid.NewString(),
		Seed:      seed,
		Reset:     opts.Reset,
		Phase:     PhaseIdle,
		StartedAt: startedAt,
	}
	log := r.log.With("run_id", report.RunID, "seed", seed)

	color.Cyan("🌱 Starting course data generation (seed %d)...", seed)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		report.Error = err.Error()
		return report, fmt.Errorf("failed to begin transaction: %w", err)
	}
	color.Cyan("🔒 Transaction started")

	st := &runState{
		opts: opts,
		gen:  NewGenerator(NewDataGenerator(seed, startedAt), opts.Distribution, opts.CategoryPool, log),
	}

	runErr := r.execute(ctx, tx, st, report)
	report.Counts = st.counts()
	report.Duration = r.now().Sub(startedAt)

	if runErr != nil {
		report.FailedPhase = report.Phase
		report.Phase = PhaseRolledBack
		report.Error = runErr.Error()
		log.Error("run failed", "phase", report.FailedPhase, "error", runErr)

		color.Yellow("🔄 Rolling back transaction due to error...")
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return report, fmt.Errorf("seed failed and rollback failed: %v (original: %w)", rbErr, runErr)
		}
		color.Yellow("✅ Transaction rolled back")
		return report, runErr
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		report.FailedPhase = report.Phase
		report.Phase = PhaseRolledBack
		report.Error = err.Error()
		return report, fmt.Errorf("failed to commit transaction: %w", err)
	}
	report.Phase = PhaseCommitted
	color.Cyan("🔓 Transaction committed")
	log.Info("run committed", "duration", report.Duration, "enrollments", report.Counts.Enrollments)

	return report, nil
}

func (r *Runner) execute(ctx context.Context, db DBTX, st *runState, report *Report) error {
	if st.opts.Reset {
		report.Phase = PhaseReset
		color.Yellow("🗑️  Truncating tables...")
		if err := Reset(ctx, db); err != nil {
			return err
		}
		color.Green("✅ Tables truncated")
	}

	for _, s := range r.stages {
		report.Phase = s.phase
		color.Cyan("  📝 Generating %s...", s.phase)
		started := time.Now()

		n, err := s.run(ctx, db, st)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", s.phase, err)
		}
		r.log.Debug("stage done", "phase", s.phase, "rows", n, "elapsed", time.Since(started))
		color.Green("  ✅ %d %s", n, s.unit)
	}
	return nil
}

// OptionsFromConfig maps the loaded configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Categories:  cfg.Seed.Categories,
		Instructors: cfg.Seed.Instructors,
		Courses:     cfg.Seed.Courses,
		Students:    cfg.Seed.Students,
		Enrollments: cfg.Seed.Enrollments,
		Bounds: Bounds{
			MinModules: cfg.Seed.MinModules,
			MaxModules: cfg.Seed.MaxModules,
			MinLessons: cfg.Seed.MinLessons,
			MaxLessons: cfg.Seed.MaxLessons,
		},
		Distribution: Distribution{
			Completed:   cfg.Distribution.Completed,
			Active:      cfg.Distribution.Active,
			MaxDiscount: cfg.Distribution.MaxDiscount,
		},
		Reset: cfg.Seed.Reset,
		Seed:  cfg.Seed.RandomSeed,
	}
	for _, c := range cfg.Categories.Pool {
		opts.CategoryPool = append(opts.CategoryPool, CategorySeed{Name: c.Name, Description: c.Description})
	}
	return opts
}
