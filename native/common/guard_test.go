package common

import (
	"errors"
	"testing"
)

func TestPauseSet(t *testing.T) {
	set := NewPauseSet([]string{" Market ", "token", ""})

	if !set.IsPaused("market") || !set.IsPaused("MARKET") {
		t.Fatalf("expected market paused regardless of case")
	}
	if !set.IsPaused("token") {
		t.Fatalf("expected token paused")
	}
	if set.IsPaused("cert") || set.IsPaused("") {
		t.Fatalf("unlisted modules must not be paused")
	}

	if err := Guard(set, "market"); !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if err := Guard(set, "cert"); err != nil {
		t.Fatalf("expected nil for unpaused module, got %v", err)
	}
	if err := Guard(nil, "market"); err != nil {
		t.Fatalf("nil view must pause nothing, got %v", err)
	}
}
