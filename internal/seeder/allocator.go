package seeder

// Allocator hands out values that were never issued before in the same run.
// Candidates come from a generator and are rejected while already taken; the
// total number of draws is capped by the attempt budget.
type Allocator[T comparable] struct {
	issued map[T]struct{}
	budget int
}

func NewAllocator[T comparable](budget int) *Allocator[T] {
	return &Allocator[T]{
		issued: make(map[T]struct{}),
		budget: budget,
	}
}

// Allocate returns false once the budget is spent without a fresh candidate.
func (a *Allocator[T]) Allocate(gen func() T) (T, bool) {
	for a.budget > 0 {
		a.budget--
		v := gen()
		if _, taken := a.issued[v]; taken {
			continue
		}
		a.issued[v] = struct{}{}
		return v, true
	}
	var zero T
	return zero, false
}

func (a *Allocator[T]) Contains(v T) bool {
	_, ok := a.issued[v]
	return ok
}

func (a *Allocator[T]) Len() int {
	return len(a.issued)
}

func (a *Allocator[T]) Remaining() int {
	return a.budget
}
