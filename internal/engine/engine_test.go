package engine

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/config"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/platform"
	"github.com/kindletools/kindle-fetch/internal/platform/fake"
)

// fastConfig shrinks every delay so tests run in milliseconds.
func fastConfig() config.Config {
	cfg := config.Default()
	cfg.SettleDelay = 0
	cfg.ContextMenuDelay = 0
	cfg.InterActionDelay = 0
	cfg.ArrowMoveDelay = 0
	cfg.MenuAppearTimeout = config.Duration(10 * time.Millisecond)
	cfg.MenuResolveTimeout = config.Duration(10 * time.Millisecond)
	cfg.MenuPollInterval = config.Duration(time.Millisecond)
	return cfg
}

func book(i int) *fake.Element {
	return &fake.Element{
		ElemType: "ListItem",
		ElemName: fmt.Sprintf("Book %d", i+1),
		Runtime:  []int{100, i + 1},
	}
}

func books(n int) []*fake.Element {
	items := make([]*fake.Element, n)
	for i := range items {
		items[i] = book(i)
	}
	return items
}

// harness wires a fake desktop around a library list. By default a context
// menu containing the download command materializes on shift+f10 and
// disappears on esc, like the real host.
type harness struct {
	cfg     config.Config
	list    *fake.Element
	root    *fake.Element
	menu    *fake.Element
	command *fake.Element
	desktop *fake.Desktop
	input   *fake.Inputter
	out     bytes.Buffer
}

func newHarness(items []*fake.Element) *harness {
	h := &harness{cfg: fastConfig()}

	h.list = &fake.Element{
		ElemType:   "List",
		ElemAutoID: "compact",
		Children:   items,
		Count:      len(items),
		HasCount:   true,
	}
	window := fake.NewElement("Window", "Kindle")
	window.Children = []*fake.Element{h.list}
	h.root = fake.NewElement("Pane", "Desktop")
	h.root.Children = []*fake.Element{window}

	h.command = fake.NewElement("MenuItem", "Download")
	h.command.ElemAutoID = "context-menu-option-download-book"
	h.menu = fake.NewElement("Menu", "")
	h.menu.Children = []*fake.Element{h.command}

	h.desktop = &fake.Desktop{RootElem: h.root}
	h.input = &fake.Inputter{}
	h.input.OnKeyCombo = func(keys []string) {
		switch strings.Join(keys, "+") {
		case "shift+f10":
			h.showMenu()
		case "esc":
			h.hideMenu()
		}
	}
	return h
}

func (h *harness) showMenu() {
	for _, child := range h.root.Children {
		if child == h.menu {
			return
		}
	}
	h.root.Children = append(h.root.Children, h.menu)
}

func (h *harness) hideMenu() {
	kept := h.root.Children[:0]
	for _, child := range h.root.Children {
		if child != h.menu {
			kept = append(kept, child)
		}
	}
	h.root.Children = kept
}

func (h *harness) engine() *Engine {
	provider := &platform.Provider{Desktop: h.desktop, Inputter: h.input}
	return New(h.cfg, provider, h.list, output.NewPlainConsole(&h.out))
}

func countLines(out, substr string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func TestRun_FiveItems_EndOfList(t *testing.T) {
	h := newHarness(books(5))

	// Record every fetched index to verify order.
	var fetched []int
	items := h.list.Children
	h.list.ItemFn = func(i int) (*fake.Element, error) {
		fetched = append(fetched, i)
		if i < 0 || i >= len(items) {
			return nil, fmt.Errorf("no item at index %d", i)
		}
		return items[i], nil
	}

	summary := h.engine().Run(Options{})

	if summary.StartIndex != 0 {
		t.Fatalf("start index = %d, want 0", summary.StartIndex)
	}
	if summary.Processed != 5 || summary.Triggered != 5 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.StopReason != ReasonEndOfList {
		t.Fatalf("stop reason = %q", summary.StopReason)
	}

	out := h.out.String()
	if got := countLines(out, "] Processing"); got != 5 {
		t.Fatalf("processing lines = %d, want 5:\n%s", got, out)
	}
	if strings.Contains(out, "!") {
		t.Fatalf("unexpected error lines:\n%s", out)
	}
	if !strings.Contains(out, "Reached end of list (unable to retrieve more items).") {
		t.Fatalf("missing end-of-list line:\n%s", out)
	}

	// Indices visited strictly increasing from 0 with no skips or repeats;
	// the final fetch at 5 fails and terminates the loop.
	want := []int{0, 1, 2, 3, 4, 5}
	if len(fetched) != len(want) {
		t.Fatalf("fetched = %v, want %v", fetched, want)
	}
	for i, idx := range want {
		if fetched[i] != idx {
			t.Fatalf("fetched = %v, want %v", fetched, want)
		}
	}
}

func TestRun_StartFrom(t *testing.T) {
	h := newHarness(books(5))
	summary := h.engine().Run(Options{StartFrom: 3})

	if summary.StartIndex != 2 {
		t.Fatalf("start index = %d, want 2", summary.StartIndex)
	}
	if summary.Processed != 3 {
		t.Fatalf("processed = %d, want 3", summary.Processed)
	}
	out := h.out.String()
	for _, want := range []string{"[3] Processing", "[4] Processing", "[5] Processing"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[2] Processing") {
		t.Fatalf("item before start index was processed:\n%s", out)
	}
}

func TestRun_StartFromBeyondTotal_ClampsToLast(t *testing.T) {
	h := newHarness(books(5))
	summary := h.engine().Run(Options{StartFrom: 99})

	if summary.StartIndex != 4 {
		t.Fatalf("start index = %d, want 4 (last valid)", summary.StartIndex)
	}
	if summary.Processed != 1 {
		t.Fatalf("processed = %d, want 1", summary.Processed)
	}
	if !strings.Contains(h.out.String(), "Adjusting to last item.") {
		t.Fatalf("missing clamp notice:\n%s", h.out.String())
	}
}

func TestRun_IterationCap(t *testing.T) {
	h := newHarness(books(10))
	summary := h.engine().Run(Options{MaxIterations: 2})

	if summary.Processed != 2 {
		t.Fatalf("processed = %d, want exactly 2", summary.Processed)
	}
	if summary.StopReason != ReasonIterationCap {
		t.Fatalf("stop reason = %q", summary.StopReason)
	}
	if summary.StopIndex != 2 {
		t.Fatalf("stop index = %d, want 2", summary.StopIndex)
	}
	if !strings.Contains(h.out.String(), "Reached iteration limit (2); stopping at list index 2.") {
		t.Fatalf("missing cap line:\n%s", h.out.String())
	}
}

func TestRun_DuplicateItemTerminates(t *testing.T) {
	// A virtualized list that stops advancing serves the same item again:
	// index 2 returns the element already seen at index 1. The duplicate
	// must terminate the loop without being processed.
	items := books(2)
	h := newHarness(items)
	h.list.HasCount = false
	h.list.ItemFn = func(i int) (*fake.Element, error) {
		if i < len(items) {
			return items[i], nil
		}
		return items[len(items)-1], nil
	}

	summary := h.engine().Run(Options{})

	if summary.Processed != 2 {
		t.Fatalf("processed = %d, want 2 (duplicate not processed)", summary.Processed)
	}
	if summary.StopReason != ReasonDuplicate {
		t.Fatalf("stop reason = %q", summary.StopReason)
	}
	if !strings.Contains(h.out.String(), "Reached end of list (duplicate item at 3).") {
		t.Fatalf("missing duplicate line:\n%s", h.out.String())
	}
}

func TestRun_NonAdjacentDuplicateNotCaught(t *testing.T) {
	// Only the immediately preceding identity is compared. A list where
	// item 0 and item 2 coincide (but not 1) keeps going.
	a, b := book(0), book(1)
	h := newHarness(nil)
	h.list.HasCount = false
	h.list.ItemFn = func(i int) (*fake.Element, error) {
		switch i {
		case 0:
			return a, nil
		case 1:
			return b, nil
		case 2:
			return a, nil
		}
		return nil, fmt.Errorf("no item at index %d", i)
	}

	summary := h.engine().Run(Options{})

	if summary.Processed != 3 {
		t.Fatalf("processed = %d, want 3", summary.Processed)
	}
	if summary.StopReason != ReasonEndOfList {
		t.Fatalf("stop reason = %q", summary.StopReason)
	}
}

func TestRun_StartIndexFromFocusedItem(t *testing.T) {
	items := books(5)
	h := newHarness(items)
	h.desktop.Focus = items[3]

	summary := h.engine().Run(Options{})

	if summary.StartIndex != 3 {
		t.Fatalf("start index = %d, want 3", summary.StartIndex)
	}
	if summary.Processed != 2 {
		t.Fatalf("processed = %d, want 2", summary.Processed)
	}
}

func TestRun_FocusedNonListItemIgnored(t *testing.T) {
	h := newHarness(books(3))
	h.desktop.Focus = fake.NewElement("Button", "Sync")

	summary := h.engine().Run(Options{})
	if summary.StartIndex != 0 {
		t.Fatalf("start index = %d, want 0", summary.StartIndex)
	}
}

func TestRun_FocusedItemNotInList_DefaultsToZero(t *testing.T) {
	h := newHarness(books(3))
	h.desktop.Focus = book(99)

	summary := h.engine().Run(Options{})
	if summary.StartIndex != 0 {
		t.Fatalf("start index = %d, want 0", summary.StartIndex)
	}
}

func TestRun_MenuNeverAppears_SkipsWithoutInvoking(t *testing.T) {
	h := newHarness(books(3))
	h.input.OnKeyCombo = nil // the menu never materializes

	summary := h.engine().Run(Options{})

	if summary.Processed != 3 {
		t.Fatalf("processed = %d, want 3 (skips never abort the run)", summary.Processed)
	}
	if summary.Triggered != 0 || summary.Skipped != 3 {
		t.Fatalf("summary = %+v", summary)
	}
	if h.command.InvokeCalls != 0 || h.command.ClickCalls != 0 {
		t.Fatal("command must not be invoked when the menu never appeared")
	}
	if got := countLines(h.out.String(), "Context menu did not appear"); got != 3 {
		t.Fatalf("skip lines = %d, want 3:\n%s", got, h.out.String())
	}
	if summary.StopReason != ReasonEndOfList {
		t.Fatalf("stop reason = %q", summary.StopReason)
	}
}

func TestRun_InvokeAndClickFail_ReportsSkipAndClosesMenu(t *testing.T) {
	h := newHarness(books(1))
	h.command.FailInvoke = true
	h.command.FailClick = true

	summary := h.engine().Run(Options{})

	if summary.Triggered != 0 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if !strings.Contains(h.out.String(), "Download option not found; skipping this item.") {
		t.Fatalf("missing skip line:\n%s", h.out.String())
	}
	// The abandoned menu is closed with escape.
	escaped := false
	for _, combo := range h.input.Combos {
		if len(combo) == 1 && combo[0] == "esc" {
			escaped = true
		}
	}
	if !escaped {
		t.Fatal("expected an esc key to close the menu")
	}
}

func TestRun_InvokeFailsClickSucceeds_CountsAsTriggered(t *testing.T) {
	h := newHarness(books(1))
	h.command.FailInvoke = true

	summary := h.engine().Run(Options{})

	if summary.Triggered != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if h.command.ClickCalls != 1 {
		t.Fatalf("click calls = %d, want 1", h.command.ClickCalls)
	}
	if !strings.Contains(h.out.String(), "Download command triggered.") {
		t.Fatalf("missing trigger line:\n%s", h.out.String())
	}
}

func TestRun_AdvancesWithDownArrow(t *testing.T) {
	h := newHarness(books(3))
	h.engine().Run(Options{})

	downs := 0
	for _, combo := range h.input.Combos {
		if len(combo) == 1 && combo[0] == "down" {
			downs++
		}
	}
	if downs != 3 {
		t.Fatalf("down presses = %d, want one per processed item", downs)
	}
}

func TestFocusItem_FallbackOrder(t *testing.T) {
	log := zap.NewNop()

	// Direct focus works: no select, no click.
	item := book(0)
	focusItem(item, log)
	if item.FocusCalls != 1 || item.SelectCalls != 0 || item.ClickCalls != 0 {
		t.Fatalf("calls = focus:%d select:%d click:%d", item.FocusCalls, item.SelectCalls, item.ClickCalls)
	}

	// Focus fails: selection is tried.
	item = book(0)
	item.FailFocus = true
	focusItem(item, log)
	if item.SelectCalls != 1 || item.ClickCalls != 0 {
		t.Fatalf("calls = select:%d click:%d", item.SelectCalls, item.ClickCalls)
	}

	// Focus and selection fail: a click is synthesized.
	item = book(0)
	item.FailFocus = true
	item.FailSelect = true
	focusItem(item, log)
	if item.ClickCalls != 1 {
		t.Fatalf("click calls = %d, want 1", item.ClickCalls)
	}

	// Everything fails, including scroll: still returns normally.
	item = book(0)
	item.FailScroll = true
	item.FailFocus = true
	item.FailSelect = true
	item.FailClick = true
	focusItem(item, log) // must not panic
}
