package events

import (
	"testing"

	"go.uber.org/zap"
)

func TestEmit_RunsHandlersInRegistrationOrder(t *testing.T) {
	b := New(zap.NewNop())
	var order []string
	b.On(PagePublished, func(string, Payload) { order = append(order, "first") })
	b.On(PagePublished, func(string, Payload) { order = append(order, "second") })
	b.On(PagePublished, func(string, Payload) { order = append(order, "third") })

	n := b.Emit(PagePublished, Payload{"tenantId": "acme"})
	if n != 3 {
		t.Errorf("Emit() = %d handlers, want 3", n)
	}
	want := []string{"first", "second", "third"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("handler order = %v, want %v", order, want)
		}
	}
}

func TestEmit_OnlyMatchingType(t *testing.T) {
	b := New(zap.NewNop())
	fired := false
	b.On(FormSubmitted, func(string, Payload) { fired = true })

	if n := b.Emit(ListingUpdated, Payload{}); n != 0 {
		t.Errorf("Emit(other type) = %d, want 0", n)
	}
	if fired {
		t.Error("handler for a different event type ran")
	}
}

func TestEmit_PayloadReachesHandler(t *testing.T) {
	b := New(zap.NewNop())
	var got Payload
	b.On(FormSubmitted, func(_ string, p Payload) { got = p })

	b.Emit(FormSubmitted, Payload{"tenantId": "acme", "formId": "contact"})
	if got["tenantId"] != "acme" || got["formId"] != "contact" {
		t.Errorf("payload = %v", got)
	}
}

func TestEmit_RecoversPanickingHandler(t *testing.T) {
	b := New(zap.NewNop())
	ran := false
	b.On(PagePublished, func(string, Payload) { panic("boom") })
	b.On(PagePublished, func(string, Payload) { ran = true })

	n := b.Emit(PagePublished, Payload{})
	if n != 2 {
		t.Errorf("Emit() = %d, want 2", n)
	}
	if !ran {
		t.Error("handler after the panicking one did not run")
	}
}

func TestEmit_NoHandlersIsNoop(t *testing.T) {
	b := New(zap.NewNop())
	if n := b.Emit(PagePublished, Payload{}); n != 0 {
		t.Errorf("Emit() = %d, want 0", n)
	}
}
