// Package platform defines the interface to the OS accessibility layer.
// OS-specific backends live in subpackages and register themselves via
// NewProviderFunc; everything above this package is OS-independent.
package platform

import "github.com/kindletools/kindle-fetch/internal/model"

// Element is a live handle into the host application's accessibility tree.
// Handles are valid only for the current attachment and may go stale after
// any UI mutation; callers must not cache them across iterations.
type Element interface {
	// Name returns the element's display name or title.
	Name() string
	// AutomationID returns the element's automation id, or "".
	AutomationID() string
	// ControlType returns the control type name (e.g. "List", "ListItem",
	// "MenuItem", "Window").
	ControlType() string
	// RuntimeID returns the platform runtime identifier, or nil when the
	// platform does not expose one.
	RuntimeID() []int

	IsVisible() bool
	IsEnabled() bool

	// Item returns the list item at the given index. Virtualized lists only
	// materialize a window of items; an index outside that window returns an
	// error, which callers treat as end of list.
	Item(i int) (Element, error)
	// ItemCount returns the list's reported total item count. ok is false
	// when the host does not expose a count.
	ItemCount() (count int, ok bool)

	// FindFirst returns the first descendant matching the spec.
	FindFirst(spec SearchSpec) (Element, bool)
	// FindAll returns all descendants matching the spec.
	FindAll(spec SearchSpec) []Element

	// Best-effort interaction primitives. Each returns an error instead of
	// panicking or raising; callers decide whether to fall back.
	ScrollIntoView() error
	SetFocus() error
	Select() error
	Click() error
	Invoke() error
}

// Desktop is the entry point to the accessibility tree.
type Desktop interface {
	// Attach connects to an already-running instance of the target
	// application. Returns ErrProcessNotFound when no such process exists.
	Attach(opts AttachOptions) (Application, error)
	// Root returns the desktop root element. Transient popups such as
	// context menus materialize under it, not under the app window.
	Root() Element
	// FocusedElement returns the element with input focus, if any.
	FocusedElement() (Element, bool)
}

// Application is an attached host application instance.
type Application interface {
	// MainWindow resolves the application's primary window by expected
	// title, waiting up to opts.Timeout for it to become visible, then
	// falling back to a best-effort match. A window handle (possibly
	// low-confidence) is always produced for a live process.
	MainWindow(opts WindowOptions) (Element, error)
	// Windows lists the application's top-level windows.
	Windows() ([]model.Window, error)
}

// Inputter synthesizes keyboard and mouse input.
type Inputter interface {
	// KeyCombo presses the given keys together, e.g. ["shift", "f10"].
	KeyCombo(keys []string) error
}
