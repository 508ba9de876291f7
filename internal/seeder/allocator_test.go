package seeder

import "testing"

func TestAllocatorRejectsRepeats(t *testing.T) {
	a := NewAllocator[int](10)
	values := []int{1, 1, 2, 1, 3}
	i := 0
	gen := func() int {
		v := values[i]
		i++
		return v
	}

	var got []int
	for range 3 {
		v, ok := a.Allocate(gen)
		if !ok {
			t.Fatalf("Expected allocation to succeed after %v", got)
		}
		got = append(got, v)
	}

	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
			break
		}
	}
	if a.Len() != 3 {
		t.Errorf("Expected 3 issued values, got %d", a.Len())
	}
	if a.Remaining() != 5 {
		t.Errorf("Expected 5 attempts left, got %d", a.Remaining())
	}
	if !a.Contains(2) || a.Contains(4) {
		t.Error("Contains does not reflect issued values")
	}
}

func TestAllocatorBudgetIsShared(t *testing.T) {
	a := NewAllocator[string](4)
	constant := func() string { return "same" }

	if _, ok := a.Allocate(constant); !ok {
		t.Fatal("Expected first allocation to succeed")
	}
	if _, ok := a.Allocate(constant); ok {
		t.Fatal("Expected repeated value to exhaust the budget")
	}
	if a.Remaining() != 0 {
		t.Errorf("Expected budget to be spent, got %d", a.Remaining())
	}
	if _, ok := a.Allocate(func() string { return "fresh" }); ok {
		t.Error("Expected allocation to fail once the budget is spent")
	}
}

func TestAllocatorZeroBudget(t *testing.T) {
	a := NewAllocator[int](0)
	calls := 0
	if _, ok := a.Allocate(func() int { calls++; return 1 }); ok {
		t.Error("Expected zero budget to refuse allocation")
	}
	if calls != 0 {
		t.Errorf("Expected generator not to be called, got %d calls", calls)
	}
}
