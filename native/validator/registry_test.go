package validator

import (
	"errors"
	"testing"

	"karvachain/core/events"
	"karvachain/core/state"
	nativecommon "karvachain/native/common"
	"karvachain/storage"
)

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func newTestRegistry(t *testing.T, allowed ...[20]byte) (*Registry, *state.Manager, *events.Recorder) {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())
	recorder := &events.Recorder{}
	permitted := make(map[[20]byte]bool)
	for _, addr := range allowed {
		permitted[addr] = true
	}
	registry := NewRegistry()
	registry.SetState(manager)
	registry.SetEmitter(recorder)
	registry.SetAuthorizer(nativecommon.AuthorizerFunc(func(addr [20]byte) bool {
		return permitted[addr]
	}))
	return registry, manager, recorder
}

func TestAddRemoveMembership(t *testing.T) {
	member := newTestAddress(0x01)
	registry, manager, recorder := newTestRegistry(t, member)

	is, err := registry.IsValidator(member)
	if err != nil || is {
		t.Fatalf("expected non-member before add, got %v err=%v", is, err)
	}

	if err := state.Apply(manager, func() error { return registry.Add(member) }); err != nil {
		t.Fatalf("add: %v", err)
	}
	is, err = registry.IsValidator(member)
	if err != nil || !is {
		t.Fatalf("expected member after add, got %v err=%v", is, err)
	}

	if err := state.Apply(manager, func() error { return registry.Remove(member) }); err != nil {
		t.Fatalf("remove: %v", err)
	}
	is, err = registry.IsValidator(member)
	if err != nil || is {
		t.Fatalf("expected non-member after remove, got %v err=%v", is, err)
	}

	if len(recorder.Events) != 2 ||
		recorder.Events[0].Type != TypeValidatorAdded ||
		recorder.Events[1].Type != TypeValidatorRemoved {
		t.Fatalf("unexpected events: %+v", recorder.Events)
	}
}

func TestMutationsRequireAuthorization(t *testing.T) {
	stranger := newTestAddress(0x02)
	registry, _, _ := newTestRegistry(t)

	if err := registry.Add(stranger); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("add: expected ErrUnauthorized, got %v", err)
	}
	if err := registry.Remove(stranger); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("remove: expected ErrUnauthorized, got %v", err)
	}
	if err := registry.Delegate(stranger, newTestAddress(0x03)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("delegate: expected ErrUnauthorized, got %v", err)
	}
	if _, err := registry.ValidateReading(stranger, newTestAddress(0x03), 0); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("validate: expected ErrUnauthorized, got %v", err)
	}
}

func TestDelegateOverwrites(t *testing.T) {
	delegator := newTestAddress(0x01)
	first := newTestAddress(0x02)
	second := newTestAddress(0x03)
	registry, manager, _ := newTestRegistry(t, delegator)

	if _, ok, err := registry.Delegatee(delegator); err != nil || ok {
		t.Fatalf("expected no delegation initially, ok=%v err=%v", ok, err)
	}

	if err := state.Apply(manager, func() error { return registry.Delegate(delegator, first) }); err != nil {
		t.Fatalf("delegate: %v", err)
	}
	if err := state.Apply(manager, func() error { return registry.Delegate(delegator, second) }); err != nil {
		t.Fatalf("redelegate: %v", err)
	}

	delegatee, ok, err := registry.Delegatee(delegator)
	if err != nil || !ok {
		t.Fatalf("delegatee: ok=%v err=%v", ok, err)
	}
	if delegatee != second {
		t.Fatalf("expected latest delegation to win, got %x", delegatee)
	}
}

func TestValidateReadingVerdicts(t *testing.T) {
	member := newTestAddress(0x01)
	outsider := newTestAddress(0x02)
	project := newTestAddress(0xA1)
	registry, manager, recorder := newTestRegistry(t, member, outsider)

	if err := state.Apply(manager, func() error { return registry.Add(member) }); err != nil {
		t.Fatalf("add: %v", err)
	}

	valid, err := registry.ValidateReading(member, project, 4)
	if err != nil || !valid {
		t.Fatalf("expected member verdict true, got %v err=%v", valid, err)
	}
	valid, err = registry.ValidateReading(outsider, project, 4)
	if err != nil || valid {
		t.Fatalf("expected outsider verdict false without error, got %v err=%v", valid, err)
	}

	var validated int
	for _, evt := range recorder.Events {
		if evt.Type == TypeReadingValidated {
			validated++
		}
	}
	if validated != 1 {
		t.Fatalf("expected one reading_validated event, got %d", validated)
	}
}
