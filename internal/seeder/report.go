package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type Counts struct {
	Categories  int `json:"categories" yaml:"categories"`
	Instructors int `json:"instructors" yaml:"instructors"`
	Courses     int `json:"courses" yaml:"courses"`
	Modules     int `json:"modules" yaml:"modules"`
	Lessons     int `json:"lessons" yaml:"lessons"`
	Students    int `json:"students" yaml:"students"`
	Enrollments int `json:"enrollments" yaml:"enrollments"`
	Progress    int `json:"lesson_progress" yaml:"lesson_progress"`
	Evaluations int `json:"evaluations" yaml:"evaluations"`
}

func (c Counts) Total() int {
	return c.Categories + c.Instructors + c.Courses + c.Modules + c.Lessons +
		c.Students + c.Enrollments + c.Progress + c.Evaluations
}

// Report describes one run. Counts are rows written inside the transaction,
// so after a rollback they describe work that was discarded.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	Seed        int64         `json:"seed" yaml:"seed"`
	Phase       Phase         `json:"phase" yaml:"phase"`
	FailedPhase Phase         `json:"failed_phase,omitempty" yaml:"failed_phase,omitempty"`
	Reset       bool          `json:"reset" yaml:"reset"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"-" yaml:"-"`
	Elapsed     string        `json:"duration" yaml:"duration"`
	Counts      Counts        `json:"counts" yaml:"counts"`
	Error       string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *Report) Committed() bool {
	return r.Phase == PhaseCommitted
}

// WriteFile stores the report as YAML when the extension asks for it and as
// indented JSON otherwise.
func (r *Report) WriteFile(path string) error {
	r.Elapsed = r.Duration.Round(time.Millisecond).String()

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(r)
	default:
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *Report) Print() {
	if r.Committed() {
		color.Green("\n🎉 Seed completed in %s (run %s)", r.Duration.Round(time.Millisecond), r.RunID)
	} else {
		color.Red("\n❌ Seed rolled back during %s (run %s)", r.FailedPhase, r.RunID)
	}

	rows := []struct {
		name  string
		count int
	}{
		{"categories", r.Counts.Categories},
		{"instructors", r.Counts.Instructors},
		{"courses", r.Counts.Courses},
		{"modules", r.Counts.Modules},
		{"lessons", r.Counts.Lessons},
		{"students", r.Counts.Students},
		{"enrollments", r.Counts.Enrollments},
		{"lesson_progress", r.Counts.Progress},
		{"evaluations", r.Counts.Evaluations},
	}
	for _, row := range rows {
		fmt.Printf("   %-16s %6d\n", row.name, row.count)
	}
	fmt.Printf("   %-16s %6d\n", "total", r.Counts.Total())
	color.Cyan("   seed: %d", r.Seed)
}
