package channelset

import (
	"reflect"
	"sync"
	"testing"
)

func TestStore_Dispatch(t *testing.T) {
	t.Run("online_then_offline_leaves_empty", func(t *testing.T) {
		s := NewStore()
		s.Dispatch(AddAction{Name: "foo"})
		s.Dispatch(RemoveAction{Name: "foo"})
		if s.Snapshot().Len() != 0 {
			t.Errorf("expected empty, got %v", s.Snapshot().Names())
		}
	})

	t.Run("replace_all_is_not_merge", func(t *testing.T) {
		s := NewStore()
		s.Dispatch(ReplaceAllAction{Names: []string{"x"}})
		s.Dispatch(ReplaceAllAction{Names: []string{"a", "b"}})
		want := []string{"a", "b"}
		if got := s.Snapshot().Names(); !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("batch_notifies_once", func(t *testing.T) {
		s := NewStore()
		var seen [][]string
		s.Subscribe(func(set Set) { seen = append(seen, set.Names()) })

		s.Dispatch(AddAction{Name: "a"}, AddAction{Name: "b"})
		if len(seen) != 2 {
			t.Fatalf("expected initial and 1 batch notification, got %d", len(seen))
		}
		if len(seen[0]) != 0 {
			t.Errorf("initial snapshot should be empty, got %v", seen[0])
		}
		if !reflect.DeepEqual(seen[1], []string{"a", "b"}) {
			t.Errorf("got %v", seen[1])
		}
	})

	t.Run("noop_does_not_notify", func(t *testing.T) {
		s := NewStore()
		s.Dispatch(AddAction{Name: "a"})
		calls := 0
		s.Subscribe(func(Set) { calls++ })
		s.Dispatch(AddAction{Name: "a"})
		s.Dispatch(RemoveAction{Name: "missing"})
		if calls != 1 {
			t.Errorf("expected only the initial notification, got %d", calls)
		}
	})

	t.Run("unsubscribe", func(t *testing.T) {
		s := NewStore()
		calls := 0
		unsubscribe := s.Subscribe(func(Set) { calls++ })
		s.Dispatch(AddAction{Name: "a"})
		unsubscribe()
		s.Dispatch(AddAction{Name: "b"})
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})
}

func TestStore_concurrent_dispatch(t *testing.T) {
	s := NewStore()
	var lens []int
	s.Subscribe(func(set Set) { lens = append(lens, set.Len()) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Dispatch(AddAction{Name: string(rune('a' + i%26))}, AddAction{Name: string(rune('A' + i%26))})
		}(i)
	}
	wg.Wait()

	if got := s.Snapshot().Len(); got != 52 {
		t.Errorf("expected 52 channels, got %d", got)
	}
	if len(lens) == 0 || lens[0] != 0 {
		t.Fatalf("expected initial empty snapshot, got %v", lens)
	}
	for i := 1; i < len(lens); i++ {
		if lens[i] <= lens[i-1] {
			t.Errorf("notifications out of order: %v", lens)
			break
		}
	}
	for _, n := range lens {
		if n%2 != 0 {
			t.Errorf("observed partial batch of size %d", n)
		}
	}
}
