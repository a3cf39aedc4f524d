package status

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
	return registry, manager, recorder
}

func TestGetStatusDefaults(t *testing.T) {
	registry, _, _ := newTestRegistry(t)
	label, err := registry.GetStatus(42)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if label != DefaultStatus {
		t.Fatalf("expected default %q, got %q", DefaultStatus, label)
	}
}

func TestSetStatusRoundTrip(t *testing.T) {
	registry, manager, recorder := newTestRegistry(t)
	if err := state.Apply(manager, func() error {
		return registry.SetStatus(7, StatusByproductTradeable)
	}); err != nil {
		t.Fatalf("set status: %v", err)
	}
	label, err := registry.GetStatus(7)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if label != StatusByproductTradeable {
		t.Fatalf("expected %q, got %q", StatusByproductTradeable, label)
	}
	// A neighbouring id stays on the default.
	label, err = registry.GetStatus(8)
	if err != nil || label != DefaultStatus {
		t.Fatalf("expected default for untouched id, got %q err=%v", label, err)
	}
	if len(recorder.Events) != 1 || recorder.Events[0].Type != TypeStatusUpdated {
		t.Fatalf("expected one status.updated event, got %+v", recorder.Events)
	}
	if recorder.Events[0].Attributes["status"] != StatusByproductTradeable {
		t.Fatalf("unexpected event attributes: %+v", recorder.Events[0].Attributes)
	}
}

func TestSetStatusRejectsUnknownLabels(t *testing.T) {
	registry, manager, recorder := newTestRegistry(t)
	for _, label := range []string{"", "Retired", "offset-ready"} {
		err := state.Apply(manager, func() error {
			return registry.SetStatus(1, label)
		})
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("label %q: expected ErrInvalidStatus, got %v", label, err)
		}
	}
	if len(recorder.Events) != 0 {
		t.Fatalf("rejected labels must not emit events, got %+v", recorder.Events)
	}
}
