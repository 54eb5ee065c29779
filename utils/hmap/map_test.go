package hmap

import (
	"testing"

	"github.com/ualc/ualc/utils"
)

// A hasher mapping everything to one bucket, forcing collision lists.
type degenerateHasher struct{}

func (degenerateHasher) Hash(int) uint32 { return 42 }

func (degenerateHasher) Equal(a, b int) bool { return a == b }

func TestMap(t *testing.T) {
	m := NewMap[string](utils.IntHasher{})

	if _, ok := m.GetOk(1); ok || m.Len() != 0 {
		t.Error("fresh maps are empty")
	}

	m.Set(1, "a")
	m.Set(2, "b")
	m.Set(1, "c")

	if m.Len() != 2 {
		t.Errorf("overwrites must not grow the map, got %d", m.Len())
	}
	if v := m.Get(1); v != "c" {
		t.Errorf(`got %q, want "c"`, v)
	}
	if v, ok := m.GetOk(2); !ok || v != "b" {
		t.Errorf(`got %q, want "b"`, v)
	}
}

func TestCollisions(t *testing.T) {
	m := NewMap[int](degenerateHasher{})
	for i := 0; i < 10; i++ {
		m.Set(i, i*i)
	}

	if m.Len() != 10 {
		t.Errorf("expected 10 entries behind one bucket, got %d", m.Len())
	}
	for i := 0; i < 10; i++ {
		if v, ok := m.GetOk(i); !ok || v != i*i {
			t.Errorf("lost %d in the collision list", i)
		}
	}
}

func TestForEach(t *testing.T) {
	m := NewMap[struct{}](utils.IntHasher{})
	for i := 0; i < 5; i++ {
		m.Set(i, struct{}{})
	}

	seen := make(map[int]bool)
	m.ForEach(func(key int, _ struct{}) { seen[key] = true })
	if len(seen) != 5 {
		t.Errorf("expected every key exactly once, got %v", seen)
	}
}
