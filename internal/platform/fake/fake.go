// Package fake provides an in-memory platform backend for testing without a
// real desktop. Elements are plain structs with failure-injection knobs so
// tests can simulate virtualization quirks, focus refusals, and menus that
// never materialize.
package fake

import (
	"errors"
	"fmt"

	"github.com/kindletools/kindle-fetch/internal/model"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

// Element implements platform.Element.
type Element struct {
	ElemName     string
	ElemAutoID   string
	ElemType     string
	Runtime      []int
	Invisible    bool
	Disabled     bool
	Children     []*Element

	// Count reported by ItemCount; HasCount false simulates a host that
	// does not expose a total.
	Count    int
	HasCount bool

	// ItemFn overrides Item for virtualization scenarios. When nil, Item
	// indexes into Children and errors past the end.
	ItemFn func(i int) (*Element, error)

	// BeforeFind, when set, runs at the start of each FindFirst/FindAll on
	// this element. Tests use it to mutate the tree between poll scans
	// without racing the searcher.
	BeforeFind func(e *Element)

	// Failure injection.
	FailScroll bool
	FailFocus  bool
	FailSelect bool
	FailClick  bool
	FailInvoke bool

	// Call counters.
	ScrollCalls int
	FocusCalls  int
	SelectCalls int
	ClickCalls  int
	InvokeCalls int
}

// NewElement returns a visible, enabled element.
func NewElement(controlType, name string) *Element {
	return &Element{ElemType: controlType, ElemName: name}
}

func (e *Element) Name() string         { return e.ElemName }
func (e *Element) AutomationID() string { return e.ElemAutoID }
func (e *Element) ControlType() string  { return e.ElemType }
func (e *Element) RuntimeID() []int     { return e.Runtime }
func (e *Element) IsVisible() bool      { return !e.Invisible }
func (e *Element) IsEnabled() bool      { return !e.Disabled }

func (e *Element) Item(i int) (platform.Element, error) {
	if e.ItemFn != nil {
		el, err := e.ItemFn(i)
		if err != nil {
			return nil, err
		}
		return el, nil
	}
	if i < 0 || i >= len(e.Children) {
		return nil, fmt.Errorf("no item at index %d", i)
	}
	return e.Children[i], nil
}

func (e *Element) ItemCount() (int, bool) { return e.Count, e.HasCount }

func (e *Element) FindFirst(spec platform.SearchSpec) (platform.Element, bool) {
	for _, el := range e.FindAll(spec) {
		return el, true
	}
	return nil, false
}

func (e *Element) FindAll(spec platform.SearchSpec) []platform.Element {
	if e.BeforeFind != nil {
		e.BeforeFind(e)
	}
	var out []platform.Element
	var walk func(el *Element)
	walk = func(el *Element) {
		for _, child := range el.Children {
			if spec.Matches(child) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(e)
	return out
}

func (e *Element) ScrollIntoView() error {
	e.ScrollCalls++
	if e.FailScroll {
		return errors.New("scroll refused")
	}
	return nil
}

func (e *Element) SetFocus() error {
	e.FocusCalls++
	if e.FailFocus {
		return errors.New("focus refused")
	}
	return nil
}

func (e *Element) Select() error {
	e.SelectCalls++
	if e.FailSelect {
		return errors.New("select refused")
	}
	return nil
}

func (e *Element) Click() error {
	e.ClickCalls++
	if e.FailClick {
		return errors.New("click refused")
	}
	return nil
}

func (e *Element) Invoke() error {
	e.InvokeCalls++
	if e.FailInvoke {
		return errors.New("invoke refused")
	}
	return nil
}

// Desktop implements platform.Desktop over a fixed root element.
type Desktop struct {
	RootElem *Element
	Focus    *Element
	App      *Application
	// AttachErr forces Attach to fail.
	AttachErr error
}

func (d *Desktop) Attach(opts platform.AttachOptions) (platform.Application, error) {
	if d.AttachErr != nil {
		return nil, d.AttachErr
	}
	if d.App == nil {
		return nil, platform.ErrProcessNotFound
	}
	return d.App, nil
}

func (d *Desktop) Root() platform.Element { return d.RootElem }

func (d *Desktop) FocusedElement() (platform.Element, bool) {
	if d.Focus == nil {
		return nil, false
	}
	return d.Focus, true
}

// Application implements platform.Application.
type Application struct {
	Window     *Element
	WindowList []model.Window
}

func (a *Application) MainWindow(opts platform.WindowOptions) (platform.Element, error) {
	if a.Window == nil {
		return nil, errors.New("no window")
	}
	return a.Window, nil
}

func (a *Application) Windows() ([]model.Window, error) {
	return a.WindowList, nil
}

// Inputter records synthesized key combos. OnKeyCombo, when set, runs for
// each combo so tests can mutate the tree in response to input (e.g.
// materialize a context menu on shift+f10).
type Inputter struct {
	Combos     [][]string
	OnKeyCombo func(keys []string)
	Err        error
}

func (in *Inputter) KeyCombo(keys []string) error {
	in.Combos = append(in.Combos, keys)
	if in.OnKeyCombo != nil {
		in.OnKeyCombo(keys)
	}
	return in.Err
}
