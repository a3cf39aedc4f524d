package dac

import (
	"errors"
	"testing"

	"karvachain/core/events"
	"karvachain/core/state"
	"karvachain/storage"
)

func newTestRegistry(t *testing.T) (*Registry, *state.Manager, *events.Recorder) {
	t.Helper()
	manager := state.NewManager(storage.NewMemDB())
	recorder := &events.Recorder{}
	registry := NewRegistry()
	registry.SetState(manager)
	registry.SetEmitter(recorder)
	registry.SetNowFunc(func() int64 { return 10_000 })
	return registry, manager, recorder
}

func newTestAddress(fill byte) [20]byte {
	var addr [20]byte
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func TestSubmitReadingAccumulates(t *testing.T) {
	registry, manager, recorder := newTestRegistry(t)
	project := newTestAddress(0xA1)

	for i, tonnes := range []uint64{5, 7, 3} {
		var index uint64
		if err := state.Apply(manager, func() error {
			var err error
			index, err = registry.SubmitReading(project, tonnes)
			return err
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if index != uint64(i) {
			t.Fatalf("expected index %d, got %d", i, index)
		}
	}

	total, err := registry.TotalSequestered(project)
	if err != nil || total != 15 {
		t.Fatalf("expected total 15, got %d err=%v", total, err)
	}
	count, err := registry.ReadingCount(project)
	if err != nil || count != 3 {
		t.Fatalf("expected count 3, got %d err=%v", count, err)
	}
	reading, err := registry.Reading(project, 1)
	if err != nil || reading != 7 {
		t.Fatalf("expected reading 7 at index 1, got %d err=%v", reading, err)
	}
	if len(recorder.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recorder.Events))
	}
	if recorder.Events[2].Attributes["index"] != "2" || recorder.Events[2].Attributes["carbon"] != "3" {
		t.Fatalf("unexpected event attributes: %+v", recorder.Events[2].Attributes)
	}
}

func TestSubmitReadingRejectsZero(t *testing.T) {
	registry, manager, _ := newTestRegistry(t)
	project := newTestAddress(0xA1)
	err := state.Apply(manager, func() error {
		_, err := registry.SubmitReading(project, 0)
		return err
	})
	if !errors.Is(err, ErrInvalidReading) {
		t.Fatalf("expected ErrInvalidReading, got %v", err)
	}
}

func TestProjectsAreIndependent(t *testing.T) {
	registry, manager, _ := newTestRegistry(t)
	first := newTestAddress(0xA1)
	second := newTestAddress(0xB2)

	if err := state.Apply(manager, func() error {
		_, err := registry.SubmitReading(first, 9)
		return err
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	total, err := registry.TotalSequestered(second)
	if err != nil || total != 0 {
		t.Fatalf("expected zero total for untouched project, got %d err=%v", total, err)
	}
	count, err := registry.ReadingCount(second)
	if err != nil || count != 0 {
		t.Fatalf("expected zero count for untouched project, got %d err=%v", count, err)
	}
}
