//go:build windows

package uia

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/kindletools/kindle-fetch/internal/platform"
)

// element adapts one IUIAutomationElement to platform.Element. Handles are
// live COM references; they stay valid only while the underlying UI node
// exists, so callers re-resolve rather than cache them.
type element struct {
	auto *iUIAutomation
	raw  *iUIAutomationElement
}

func (e *element) Name() string         { return e.raw.name() }
func (e *element) AutomationID() string { return e.raw.automationID() }

func (e *element) ControlType() string {
	ct, err := e.raw.controlType()
	if err != nil {
		return ""
	}
	if name, ok := controlTypeNames[ct]; ok {
		return name
	}
	return strconv.Itoa(int(ct))
}

func (e *element) RuntimeID() []int {
	ids, err := e.raw.runtimeID()
	if err != nil {
		return nil
	}
	return ids
}

func (e *element) IsVisible() bool {
	off, err := e.raw.isOffscreen()
	if err != nil {
		// Property read failures happen on half-constructed nodes;
		// treat them as visible so the locator keeps considering them.
		return true
	}
	return !off
}

func (e *element) IsEnabled() bool {
	enabled, err := e.raw.isEnabled()
	if err != nil {
		return true
	}
	return enabled
}

// listItems returns the element's materialized direct ListItem children.
// Virtualized hosts only expose the current window of items here.
func (e *element) listItems() ([]*element, error) {
	cond, err := e.auto.createIntCondition(propControlType, controlListItem)
	if err != nil {
		return nil, err
	}
	defer cond.Release()
	arr, err := e.raw.findAll(treeScopeChildren, cond)
	if err != nil {
		return nil, err
	}
	if arr == nil {
		return nil, nil
	}
	defer arr.Release()
	return collectElements(e.auto, arr)
}

func (e *element) Item(i int) (platform.Element, error) {
	items, err := e.listItems()
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("no list item at index %d (%d materialized)", i, len(items))
	}
	return items[i], nil
}

func (e *element) ItemCount() (int, bool) {
	items, err := e.listItems()
	if err != nil || len(items) == 0 {
		return 0, false
	}
	return len(items), true
}

func (e *element) FindFirst(spec platform.SearchSpec) (platform.Element, bool) {
	matches := e.FindAll(spec)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

// FindAll narrows natively on the spec's exact fields, then re-checks each
// candidate with spec.Matches, which also applies the substring title
// criterion UIA cannot express as a property condition.
func (e *element) FindAll(spec platform.SearchSpec) []platform.Element {
	cond, err := e.specCondition(spec)
	if err != nil {
		return nil
	}
	defer cond.Release()
	arr, err := e.raw.findAll(treeScopeDescendants, cond)
	if err != nil || arr == nil {
		return nil
	}
	defer arr.Release()
	candidates, err := collectElements(e.auto, arr)
	if err != nil {
		return nil
	}
	var out []platform.Element
	for _, c := range candidates {
		if spec.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func (e *element) specCondition(spec platform.SearchSpec) (*iUIAutomationCondition, error) {
	var conds []*iUIAutomationCondition
	release := func() {
		for _, c := range conds {
			c.Release()
		}
	}
	if id, ok := controlTypeIDs[spec.ControlType]; ok {
		c, err := e.auto.createIntCondition(propControlType, id)
		if err != nil {
			release()
			return nil, err
		}
		conds = append(conds, c)
	}
	if spec.AutomationID != "" {
		c, err := e.auto.createStringCondition(propAutomationID, spec.AutomationID)
		if err != nil {
			release()
			return nil, err
		}
		conds = append(conds, c)
	}
	if spec.Title != "" {
		c, err := e.auto.createStringCondition(propName, spec.Title)
		if err != nil {
			release()
			return nil, err
		}
		conds = append(conds, c)
	}
	if len(conds) == 0 {
		return e.auto.createTrueCondition()
	}
	combined := conds[0]
	for _, c := range conds[1:] {
		next, err := e.auto.createAndCondition(combined, c)
		if err != nil {
			release()
			return nil, err
		}
		conds = append(conds, next)
		combined = next
	}
	for _, c := range conds {
		if c != combined {
			defer c.Release()
		}
	}
	return combined, nil
}

func (e *element) ScrollIntoView() error {
	unknown, err := e.raw.getCurrentPattern(patternScrollItem, iidScrollItemPattern)
	if err != nil {
		return fmt.Errorf("scroll item pattern: %w", err)
	}
	pattern := (*iUIAutomationScrollItemPattern)(unsafe.Pointer(unknown))
	defer pattern.Release()
	return pattern.scrollIntoView()
}

func (e *element) SetFocus() error {
	return e.raw.setFocus()
}

func (e *element) Select() error {
	unknown, err := e.raw.getCurrentPattern(patternSelectionItem, iidSelectionItemPattern)
	if err != nil {
		return fmt.Errorf("selection item pattern: %w", err)
	}
	pattern := (*iUIAutomationSelectionItemPattern)(unsafe.Pointer(unknown))
	defer pattern.Release()
	return pattern.selectItem()
}

// Click moves the pointer to the element's center and presses the left
// button. It is the last resort after the pattern-based primitives.
func (e *element) Click() error {
	r, err := e.raw.boundingRectangle()
	if err != nil {
		return fmt.Errorf("bounding rectangle: %w", err)
	}
	if r.Right <= r.Left || r.Bottom <= r.Top {
		return fmt.Errorf("element has no on-screen area")
	}
	x := int(r.Left + (r.Right-r.Left)/2)
	y := int(r.Top + (r.Bottom-r.Top)/2)
	return clickAt(x, y)
}

func (e *element) Invoke() error {
	unknown, err := e.raw.getCurrentPattern(patternInvoke, iidInvokePattern)
	if err != nil {
		return fmt.Errorf("invoke pattern: %w", err)
	}
	pattern := (*iUIAutomationInvokePattern)(unsafe.Pointer(unknown))
	defer pattern.Release()
	return pattern.invoke()
}

func collectElements(auto *iUIAutomation, arr *iUIAutomationElementArray) ([]*element, error) {
	n, err := arr.length()
	if err != nil {
		return nil, err
	}
	out := make([]*element, 0, n)
	for i := 0; i < n; i++ {
		raw, err := arr.element(i)
		if err != nil {
			continue
		}
		out = append(out, &element{auto: auto, raw: raw})
	}
	return out, nil
}
