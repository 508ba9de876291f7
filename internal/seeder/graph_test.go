package seeder

import (
	"strings"
	"testing"
)

func TestBuildOrderRespectsDependencies(t *testing.T) {
	g := NewDependencyGraph()
	g.Add("lessons", "modules")
	g.Add("modules", "courses")
	g.Add("students")
	g.Add("courses")

	order, err := g.BuildOrder()
	if err != nil {
		t.Fatalf("BuildOrder failed: %v", err)
	}

	want := []string{"courses", "modules", "lessons", "students"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("Expected order %v, got %v", want, order)
	}

	reverse := g.ReverseOrder()
	if reverse[0] != "students" || reverse[len(reverse)-1] != "courses" {
		t.Errorf("Unexpected reverse order %v", reverse)
	}
}

func TestBuildOrderDetectsCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.Add("a", "b")
	g.Add("b", "c")
	g.Add("c", "a")

	_, err := g.BuildOrder()
	if err == nil || !strings.Contains(err.Error(), "circular dependency") {
		t.Errorf("Expected circular dependency error, got %v", err)
	}
}

func TestBuildOrderUnknownDependency(t *testing.T) {
	g := NewDependencyGraph()
	g.Add("enrollments", "students")

	_, err := g.BuildOrder()
	if err == nil || !strings.Contains(err.Error(), "unknown dependency: students") {
		t.Errorf("Expected unknown dependency error, got %v", err)
	}
}

func TestBuildOrderIgnoresSelfReference(t *testing.T) {
	g := NewDependencyGraph()
	g.Add("categories", "categories")

	order, err := g.BuildOrder()
	if err != nil {
		t.Fatalf("BuildOrder failed: %v", err)
	}
	if len(order) != 1 {
		t.Errorf("Expected one node, got %v", order)
	}
}

func TestTableOrders(t *testing.T) {
	position := make(map[string]int)
	for i, name := range InsertionOrder() {
		position[name] = i
	}
	if len(position) != len(Tables) {
		t.Fatalf("Expected %d tables, got %d", len(Tables), len(position))
	}
	for _, table := range Tables {
		for _, dep := range table.Dependencies {
			if position[dep] >= position[table.Name] {
				t.Errorf("%s is inserted before its dependency %s", table.Name, dep)
			}
		}
	}

	want := "TRUNCATE TABLE evaluations, lesson_progress, enrollments, students, lessons, modules, courses, instructors, categories RESTART IDENTITY CASCADE"
	if got := ResetSQL(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
