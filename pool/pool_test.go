package pool

import "testing"

type resettableInt struct {
	v int
}

func (r *resettableInt) Reset() { r.v = 0 }

func TestObjectPool_RentRelease(t *testing.T) {
	p := NewObjectPool(func() *resettableInt { return &resettableInt{} })
	a := p.Rent()
	a.v = 42
	p.Release(a)
	b := p.Rent()
	if b.v != 0 {
		t.Errorf("expected reset value, got %d", b.v)
	}
}

func TestArrayPool_RentLength(t *testing.T) {
	p := NewArrayPool[int](26)
	s := p.Rent()
	if len(s) != 26 {
		t.Fatalf("expected length 26, got %d", len(s))
	}
	s[5] = 99
	p.Release(s)
	s2 := p.Rent()
	if s2[5] != 0 {
		t.Errorf("expected zeroed slice, got %d at index 5", s2[5])
	}
}

func TestSet_AddRemoveDuplicate(t *testing.T) {
	sp := NewSetPool[int]()
	s := sp.Rent()
	defer sp.Release(s)

	if !s.Add(1) {
		t.Fatal("first add should succeed")
	}
	if s.Add(1) {
		t.Fatal("duplicate add should fail")
	}
	if s.Len() != 1 {
		t.Fatalf("expected len 1, got %d", s.Len())
	}
	if !s.Remove(1) {
		t.Fatal("remove should succeed")
	}
	if s.Remove(1) {
		t.Fatal("second remove should fail")
	}
}

func TestOrderedMap_PreservesInsertionOrder(t *testing.T) {
	mp := NewOrderedMapPool[string, int]()
	m := mp.Rent()
	defer mp.Release(m)

	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("c", 3)

	var keys []string
	m.Each(func(k string, v int) {
		keys = append(keys, k)
	})
	want := []string{"b", "a", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("order[%d] = %s, want %s", i, keys[i], k)
		}
	}
}

func TestBucket_StableTickets(t *testing.T) {
	bp := NewBucketPool[string]()
	b := bp.Rent()
	defer bp.Release(b)

	t1 := b.Put("alice")
	t2 := b.Put("bob")

	if v, ok := b.Get(t1); !ok || v != "alice" {
		t.Fatalf("expected alice, got %v, %v", v, ok)
	}

	if !b.Remove(t1) {
		t.Fatal("remove t1 should succeed")
	}
	if _, ok := b.Get(t1); ok {
		t.Fatal("t1 should be gone after remove")
	}

	t3 := b.Put("carol")
	if t3 != t1 {
		t.Errorf("expected freed slot %d to be reused, got %d", t1, t3)
	}
	if v, ok := b.Get(t2); !ok || v != "bob" {
		t.Fatalf("t2 (bob) should be unaffected, got %v, %v", v, ok)
	}
}

func TestSlottedStore_InsertRemoveReuse(t *testing.T) {
	s := NewSlottedStore[string]()
	slotA := s.Insert("a")
	slotB := s.Insert("b")

	if s.Len() != 2 {
		t.Fatalf("expected len 2, got %d", s.Len())
	}

	if !s.Remove(slotA) {
		t.Fatal("remove should succeed")
	}
	if s.IsAllocated(slotA) {
		t.Fatal("slotA should be freed")
	}

	slotC := s.Insert("c")
	if slotC != slotA {
		t.Errorf("expected reused slot %d, got %d", slotA, slotC)
	}

	v, ok := s.Get(slotB)
	if !ok || v != "b" {
		t.Fatalf("slotB should still hold 'b', got %v, %v", v, ok)
	}
}
