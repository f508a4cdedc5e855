package platform

import (
	"strings"
	"time"
)

// AttachOptions identifies the process to attach to.
type AttachOptions struct {
	// Executable is the process image name, e.g. "Kindle.exe".
	Executable string
}

// WindowOptions controls main-window resolution.
type WindowOptions struct {
	// Title is the expected window title for the preferred exact lookup.
	Title string
	// Timeout bounds the wait for the titled window to become visible
	// before falling back to a best-effort match.
	Timeout time.Duration
}

// SearchSpec is one declarative match criterion. Candidate specs are tried
// in order by the locator; within one spec, all set fields must match.
type SearchSpec struct {
	// ControlType filters by control type name ("List", "MenuItem", ...).
	ControlType string
	// AutomationID requires an exact automation id match.
	AutomationID string
	// Title requires an exact name match.
	Title string
	// TitleContains requires a substring name match.
	TitleContains string
}

// Matches reports whether the element satisfies every set field. Backends
// without native query support (and the fake used in tests) evaluate specs
// with it.
func (s SearchSpec) Matches(el Element) bool {
	if s.ControlType != "" && el.ControlType() != s.ControlType {
		return false
	}
	if s.AutomationID != "" && el.AutomationID() != s.AutomationID {
		return false
	}
	if s.Title != "" && el.Name() != s.Title {
		return false
	}
	if s.TitleContains != "" &&
		!strings.Contains(strings.ToLower(el.Name()), strings.ToLower(s.TitleContains)) {
		return false
	}
	return true
}
