package events

import (
	"encoding/json"
	"testing"
)

func TestBusFlushDeliversInOrder(t *testing.T) {
	bus := NewBus()

	var got []Type
	var seqs []uint64
	bus.Subscribe(func(seq uint64, e Event) {
		got = append(got, e.EventType())
		seqs = append(seqs, seq)
	})

	bus.Publish(HoverChanged{})
	bus.Publish(ShowReveal{AnchorID: "a"})
	bus.Publish(CloseReveal{AnchorID: "a"})

	if bus.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", bus.Pending())
	}
	if len(got) != 0 {
		t.Fatal("events must not be delivered before Flush")
	}

	if n := bus.Flush(); n != 3 {
		t.Errorf("Flush() = %d, want 3", n)
	}
	want := []Type{TypeHoverChanged, TypeShowReveal, TypeCloseReveal}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if seqs[0] != 1 || seqs[1] != 2 || seqs[2] != 3 {
		t.Errorf("unexpected sequence numbers %v", seqs)
	}
	if bus.Flush() != 0 {
		t.Error("second Flush should deliver nothing")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(func(uint64, Event) { calls++ })

	bus.Publish(CloseReveal{AnchorID: "x"})
	bus.Flush()
	unsubscribe()
	unsubscribe() // 重复调用无副作用

	bus.Publish(CloseReveal{AnchorID: "x"})
	bus.Flush()

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
}

func TestBusPublishDuringFlushIsDeferred(t *testing.T) {
	bus := NewBus()
	delivered := 0
	bus.Subscribe(func(_ uint64, e Event) {
		delivered++
		if _, ok := e.(ShowReveal); ok {
			bus.Publish(CloseReveal{AnchorID: "a"})
		}
	})

	bus.Publish(ShowReveal{AnchorID: "a"})
	if n := bus.Flush(); n != 1 {
		t.Errorf("first Flush() = %d, want 1", n)
	}
	if bus.Pending() != 1 {
		t.Errorf("event published during Flush should be pending, got %d", bus.Pending())
	}
	bus.Flush()
	if delivered != 2 {
		t.Errorf("delivered = %d, want 2", delivered)
	}
}

func TestBusReset(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe(func(uint64, Event) { calls++ })
	bus.Publish(CloseReveal{})
	bus.Reset()
	bus.Publish(CloseReveal{})
	bus.Flush()
	if calls != 0 {
		t.Errorf("Reset should drop subscribers, got %d calls", calls)
	}
}

func TestWrapUnwrap(t *testing.T) {
	id := "hackathon"
	original := HoverChanged{
		AnchorID:       &id,
		ScreenPosition: &ScreenPoint{X: 10, Y: 20},
		IsFormed:       true,
	}

	env, err := Wrap(7, original)
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if env.Type != TypeHoverChanged || env.Seq != 7 {
		t.Errorf("unexpected envelope header %+v", env)
	}

	// 经过一次 JSON 往返，模拟 WebSocket / 日志
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	var decodedEnv Envelope
	if err := json.Unmarshal(raw, &decodedEnv); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	decoded, err := Unwrap(decodedEnv)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	hc, ok := decoded.(HoverChanged)
	if !ok {
		t.Fatalf("decoded type %T, want HoverChanged", decoded)
	}
	if hc.AnchorID == nil || *hc.AnchorID != id || !hc.IsFormed {
		t.Errorf("decoded payload mismatch: %+v", hc)
	}
	if hc.ScreenPosition == nil || hc.ScreenPosition.X != 10 {
		t.Errorf("screen position lost: %+v", hc.ScreenPosition)
	}
}

func TestHoverChangedNullsEncodeAsNull(t *testing.T) {
	raw, err := json.Marshal(HoverChanged{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":null,"screenPosition":null,"isFormed":false}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestUnwrapUnknownType(t *testing.T) {
	if _, err := Unwrap(Envelope{Type: "bogus", Payload: []byte("{}")}); err == nil {
		t.Error("expected error for unknown type")
	}
}
