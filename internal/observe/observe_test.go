package observe

import (
	"reflect"
	"testing"
)

func TestPublishDeliversInOrder(t *testing.T) {
	var h Hub[int]
	var got []string
	h.Subscribe(func(v int) { got = append(got, "a") })
	h.Subscribe(func(v int) { got = append(got, "b") })

	h.Publish(1)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("delivery order = %v, want [a b]", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	var h Hub[int]
	count := 0
	unsub := h.Subscribe(func(int) { count++ })
	h.Publish(1)
	unsub()
	unsub()
	h.Publish(2)
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestUnsubscribeDuringPassKeepsCurrentPass(t *testing.T) {
	var h Hub[int]
	var got []string
	var unsubB func()

	h.Subscribe(func(int) {
		got = append(got, "a")
		unsubB()
	})
	unsubB = h.Subscribe(func(int) { got = append(got, "b") })

	h.Publish(1)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("first pass = %v, want [a b]", got)
	}

	got = nil
	h.Publish(2)
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("second pass = %v, want [a]", got)
	}
}

func TestSubscribeDuringPassWaitsForNextPass(t *testing.T) {
	var h Hub[int]
	late := 0
	added := false
	h.Subscribe(func(int) {
		if !added {
			added = true
			h.Subscribe(func(int) { late++ })
		}
	})

	h.Publish(1)
	if late != 0 {
		t.Errorf("listener added mid-pass ran in that pass")
	}
	h.Publish(2)
	if late != 1 {
		t.Errorf("late = %d, want 1", late)
	}
}
