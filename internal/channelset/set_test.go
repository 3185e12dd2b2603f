package channelset

import (
	"reflect"
	"testing"
)

func TestSet_Add(t *testing.T) {
	t.Run("appends_new_name", func(t *testing.T) {
		got := New("a", "b").Add("c").Names()
		want := []string{"a", "b", "c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := New("a").Add("x")
		twice := once.Add("x")
		if !once.Equal(twice) {
			t.Errorf("Add twice changed set: %v vs %v", once.Names(), twice.Names())
		}
	})

	t.Run("empty_name_is_accepted", func(t *testing.T) {
		got := Set{}.Add("")
		if got.Len() != 1 || !got.Contains("") {
			t.Errorf("expected one empty-named channel, got %v", got.Names())
		}
	})

	t.Run("does_not_mutate_receiver", func(t *testing.T) {
		base := New("a")
		_ = base.Add("b")
		if base.Len() != 1 {
			t.Errorf("receiver mutated: %v", base.Names())
		}
	})
}

func TestSet_Remove(t *testing.T) {
	t.Run("preserves_order", func(t *testing.T) {
		got := New("a", "b", "c").Remove("b").Names()
		want := []string{"a", "c"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("unknown_name_is_noop", func(t *testing.T) {
		base := New("a", "b")
		if !base.Remove("zzz").Equal(base) {
			t.Error("expected unchanged set")
		}
	})

	t.Run("remove_then_add_moves_to_end", func(t *testing.T) {
		got := New("x", "a", "b").Remove("x").Add("x").Names()
		want := []string{"a", "b", "x"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestSet_ReplaceAll(t *testing.T) {
	t.Run("keeps_caller_order_and_duplicates", func(t *testing.T) {
		names := []string{"b", "a", "b"}
		got := New("x").ReplaceAll(names).Names()
		if !reflect.DeepEqual(got, names) {
			t.Errorf("got %v, want %v", got, names)
		}
	})

	t.Run("does_not_alias_input", func(t *testing.T) {
		names := []string{"a", "b"}
		s := Set{}.ReplaceAll(names)
		names[0] = "changed"
		if s.Names()[0] != "a" {
			t.Errorf("set aliases caller slice: %v", s.Names())
		}
	})

	t.Run("nil_clears", func(t *testing.T) {
		if New("a").ReplaceAll(nil).Len() != 0 {
			t.Error("expected empty set")
		}
	})
}

func TestSet_Rotate(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "three", in: []string{"a", "b", "c"}, want: []string{"b", "c", "a"}},
		{name: "empty", in: []string{}, want: []string{}},
		{name: "single", in: []string{"a"}, want: []string{"a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := New(tc.in...).Rotate().Names()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReduce(t *testing.T) {
	state := Set{}
	for _, a := range []Action{
		ReplaceAllAction{Names: []string{"x"}},
		AddAction{Name: "a"},
		AddAction{Name: "b"},
		RemoveAction{Name: "x"},
		RotateAction{},
		nil,
	} {
		state = Reduce(state, a)
	}
	want := []string{"b", "a"}
	if got := state.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
