package seeder

import "fmt"

// DependencyGraph orders named nodes so that every node comes after the
// nodes it depends on. Ties keep the order in which nodes were added.
type DependencyGraph struct {
	deps  map[string][]string
	names []string
	order []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[string][]string),
	}
}

func (g *DependencyGraph) Add(name string, dependsOn ...string) {
	if _, exists := g.deps[name]; !exists {
		g.names = append(g.names, name)
	}
	g.deps[name] = dependsOn
}

func (g *DependencyGraph) BuildOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			return fmt.Errorf("circular dependency detected involving: %s", name)
		}
		if visited[name] {
			return nil
		}

		deps, known := g.deps[name]
		if !known {
			return fmt.Errorf("unknown dependency: %s", name)
		}

		temp[name] = true
		for _, dep := range deps {
			if dep == name {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		temp[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range g.names {
		if !visited[name] {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) Order() []string {
	return g.order
}

// ReverseOrder is the teardown order: dependents before their dependencies.
func (g *DependencyGraph) ReverseOrder() []string {
	out := make([]string, len(g.order))
	for i, name := range g.order {
		out[len(g.order)-1-i] = name
	}
	return out
}
