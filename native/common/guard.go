package common

import (
	"errors"
	"strings"
)

var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a named module has been administratively paused.
type PauseView interface {
	IsPaused(module string) bool
}

// PauseSet is a fixed PauseView over a set of module names, typically loaded
// from configuration at startup.
type PauseSet map[string]bool

// NewPauseSet builds a PauseSet from the supplied module names. Names are
// matched case-insensitively.
func NewPauseSet(modules []string) PauseSet {
	set := make(PauseSet, len(modules))
	for _, module := range modules {
		module = strings.ToLower(strings.TrimSpace(module))
		if module != "" {
			set[module] = true
		}
	}
	return set
}

// IsPaused implements the PauseView interface.
func (p PauseSet) IsPaused(module string) bool {
	return p[strings.ToLower(module)]
}

// Guard rejects operations against paused modules. A nil view pauses nothing.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
