// Package engine walks the library list one item at a time, triggering the
// download command on each. The list control is virtualized (only a window
// of items exists in the accessibility tree at any moment), so items are
// addressed by index on every access and handles are never cached across
// iterations.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/config"
	"github.com/kindletools/kindle-fetch/internal/model"
	"github.com/kindletools/kindle-fetch/internal/observability"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

// Stop reasons reported in the run summary.
const (
	ReasonEndOfList    = "end-of-list"
	ReasonDuplicate    = "duplicate-item"
	ReasonIterationCap = "iteration-cap"
)

// Options are the per-run parameters.
type Options struct {
	// StartFrom is the 1-based index of the item to start from.
	// 0 means auto-detect from the currently focused item.
	StartFrom int
	// MaxIterations caps the number of items processed in one run.
	// 0 means the configured default.
	MaxIterations int
}

// Summary is the run result.
type Summary struct {
	OK         bool   `yaml:"ok"          json:"ok"`
	Action     string `yaml:"action"      json:"action"`
	StartIndex int    `yaml:"start_index" json:"start_index"`
	Processed  int    `yaml:"processed"   json:"processed"`
	Triggered  int    `yaml:"triggered"   json:"triggered"`
	Skipped    int    `yaml:"skipped"     json:"skipped"`
	StopReason string `yaml:"stop_reason" json:"stop_reason"`
	StopIndex  int    `yaml:"stop_index"  json:"stop_index"`
}

// Engine drives the traversal. Strictly sequential: one logical actor owns
// the host's accessibility tree and input focus for the whole run.
type Engine struct {
	cfg     config.Config
	desktop platform.Desktop
	input   platform.Inputter
	list    platform.Element
	con     *output.Console
	log     *zap.Logger
	menu    *menuTrigger
}

// New builds an Engine over an already-located library list.
func New(cfg config.Config, provider *platform.Provider, list platform.Element, con *output.Console) *Engine {
	log := observability.L()
	return &Engine{
		cfg:     cfg,
		desktop: provider.Desktop,
		input:   provider.Inputter,
		list:    list,
		con:     con,
		log:     log,
		menu: &menuTrigger{
			cfg:     cfg,
			desktop: provider.Desktop,
			input:   provider.Inputter,
			con:     con,
			log:     log,
		},
	}
}

// Run resolves the start index and iterates to a termination condition.
// Per-item failures are reported and skipped; nothing here aborts the
// traversal once the list exists.
func (e *Engine) Run(opts Options) Summary {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = e.cfg.MaxIterations
	}

	total, hasTotal := e.list.ItemCount()
	start := e.resolveStartIndex(opts.StartFrom, total, hasTotal)

	if hasTotal {
		e.con.Printf("Library reports %d items; starting at index %d (1-based %d).\n", total, start, start+1)
	} else {
		e.con.Printf("Starting at index %d (1-based %d); total count not available.\n", start, start+1)
	}

	summary := Summary{OK: true, Action: "run", StartIndex: start, StopReason: ReasonIterationCap}

	index := start
	var lastIdentity model.Identity

	for summary.Processed < maxIterations {
		item, err := e.list.Item(index)
		if err != nil {
			e.con.Printf("Reached end of list (unable to retrieve more items).\n")
			e.log.Debug("item fetch failed", zap.Int("index", index), zap.Error(err))
			summary.StopReason = ReasonEndOfList
			break
		}

		identity := model.IdentityOf(item)
		if !lastIdentity.IsZero() && identity == lastIdentity {
			// A virtualized list that has stopped advancing serves the same
			// item again; there are no real items beyond this point.
			e.con.Printf("Reached end of list (duplicate item at %d).\n", index+1)
			summary.StopReason = ReasonDuplicate
			break
		}

		summary.Processed++
		e.con.Printf("[%d] Processing '%s'\n", index+1, item.Name())

		focusItem(item, e.log)
		time.Sleep(e.cfg.SettleDelay.Std())

		if !e.menu.openContextMenu() {
			e.con.Printf("  ! Context menu did not appear; skipping this item.\n")
			summary.Skipped++
		} else {
			if e.menu.triggerCommand() {
				summary.Triggered++
			} else {
				e.con.Printf("  ! Download option not found; skipping this item.\n")
				summary.Skipped++
			}
			time.Sleep(e.cfg.InterActionDelay.Std())
		}

		lastIdentity = identity
		index++

		if err := e.input.KeyCombo([]string{"down"}); err != nil {
			e.log.Debug("arrow key failed", zap.Error(err))
		}
		time.Sleep(e.cfg.ArrowMoveDelay.Std())
	}

	if summary.StopReason == ReasonIterationCap {
		e.con.Printf("Reached iteration limit (%d); stopping at list index %d.\n", maxIterations, index)
	}
	summary.StopIndex = index
	return summary
}

// resolveStartIndex turns an explicit 1-based argument, or the currently
// focused item, into a 0-based start index.
func (e *Engine) resolveStartIndex(startFrom, total int, hasTotal bool) int {
	if startFrom > 0 {
		idx := startFrom - 1
		if hasTotal && idx >= total {
			e.con.Printf("Start index %d exceeds total reported items (%d). Adjusting to last item.\n", idx+1, total)
			idx = total - 1
			if idx < 0 {
				idx = 0
			}
		}
		return idx
	}

	focused, ok := e.focusedListItem()
	if !ok {
		// Nothing focused: give the list itself focus and re-check, in case
		// the host moves focus to a default item.
		if err := e.list.SetFocus(); err != nil {
			e.log.Debug("list focus failed", zap.Error(err))
		}
		time.Sleep(e.cfg.SettleDelay.Std())
		focused, ok = e.focusedListItem()
	}
	if !ok {
		return 0
	}

	target := model.IdentityOf(focused)

	// Linear identity scan. Without a reported total, the iteration cap
	// bounds the scan.
	bound := total
	if !hasTotal {
		bound = e.cfg.MaxIterations
	}
	for idx := 0; idx < bound; idx++ {
		item, err := e.list.Item(idx)
		if err != nil {
			break
		}
		if model.IdentityOf(item) == target {
			return idx
		}
	}
	return 0
}

// focusedListItem returns the focused element if it is a list item.
func (e *Engine) focusedListItem() (platform.Element, bool) {
	el, ok := e.desktop.FocusedElement()
	if !ok || el.ControlType() != "ListItem" {
		return nil, false
	}
	return el, true
}
