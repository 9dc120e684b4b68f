package kernel_test

import (
	"reflect"
	"testing"

	"github.com/mbolaris/simkernel/internal/kernel"
)

type testEventA struct{ Value int }
type testEventB struct{ Value int }

func TestEventBusDispatchesInRegistrationOrder(t *testing.T) {
	b := kernel.NewEventBus()
	var order []int

	b.Subscribe(reflect.TypeOf(testEventA{}), func(any) { order = append(order, 1) })
	b.Subscribe(reflect.TypeOf(testEventA{}), func(any) { order = append(order, 2) })
	b.Subscribe(reflect.TypeOf(testEventA{}), func(any) { order = append(order, 3) })

	b.Emit(testEventA{Value: 1})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected handlers to run in registration order, got %v", order)
	}
}

func TestEventBusUnknownTypeIsNoOp(t *testing.T) {
	b := kernel.NewEventBus()
	b.Subscribe(reflect.TypeOf(testEventA{}), func(any) { t.Fatal("handler for A must not fire for B") })

	b.Emit(testEventB{Value: 1})
}

func TestEventBusHasSubscribers(t *testing.T) {
	b := kernel.NewEventBus()
	aType := reflect.TypeOf(testEventA{})
	if b.HasSubscribers(aType) {
		t.Fatal("expected no subscribers before Subscribe")
	}
	b.Subscribe(aType, func(any) {})
	if !b.HasSubscribers(aType) {
		t.Fatal("expected subscribers after Subscribe")
	}
}

func TestEventBusUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := kernel.NewEventBus()
	aType := reflect.TypeOf(testEventA{})

	var fired []string
	unsubA := b.Subscribe(aType, func(any) { fired = append(fired, "a") })
	b.Subscribe(aType, func(any) { fired = append(fired, "b") })

	unsubA()
	b.Emit(testEventA{})

	if len(fired) != 1 || fired[0] != "b" {
		t.Fatalf("expected only the remaining handler to fire, got %v", fired)
	}
}

func TestEventBusClearRemovesAllSubscribers(t *testing.T) {
	b := kernel.NewEventBus()
	aType := reflect.TypeOf(testEventA{})
	b.Subscribe(aType, func(any) {})
	b.Clear()
	if b.HasSubscribers(aType) {
		t.Fatal("expected no subscribers after Clear")
	}
}
