// Package locator finds controls in the host application's accessibility
// tree. The target UI is version-fragile: automation ids change between
// releases and controls appear and disappear, so every lookup is an ordered
// list of declarative candidates evaluated first-to-succeed rather than a
// single query.
package locator

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/config"
	"github.com/kindletools/kindle-fetch/internal/observability"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

// ErrNoList means no control under the main window has any visible child
// items. There is nothing to traverse; this is fatal for the run.
var ErrNoList = errors.New("could not locate a visible List control for the library")

// errNotYet signals a poll iteration that found no match; backoff retries it.
var errNotYet = errors.New("no candidate matched yet")

// Predicate accepts or rejects a candidate match.
type Predicate func(platform.Element) bool

// Locate tries each spec in order under root and returns the first usable
// match, i.e. one that exists, is enabled, and is visible. If pred is
// non-nil the match must also satisfy it, otherwise the next candidate is
// tried.
func Locate(root platform.Element, specs []platform.SearchSpec, pred Predicate) (platform.Element, bool) {
	for _, spec := range specs {
		el, ok := root.FindFirst(spec)
		if !ok {
			continue
		}
		if !usable(el) {
			continue
		}
		if pred != nil && !pred(el) {
			continue
		}
		return el, true
	}
	return nil, false
}

func usable(el platform.Element) bool {
	return el.IsEnabled() && el.IsVisible()
}

// VisibleItems returns the visible list items under the given control.
func VisibleItems(list platform.Element) []platform.Element {
	var items []platform.Element
	for _, el := range list.FindAll(platform.SearchSpec{ControlType: "ListItem"}) {
		if el.IsVisible() {
			items = append(items, el)
		}
	}
	return items
}

// FindLibraryList locates the library list control under the main window.
// The preferred automation ids are tried first; a match counts only if it
// actually contains visible items (an id can survive a host update while
// the populated list moves elsewhere). Failing that, all List controls are
// scanned and the one with the most visible items wins. Returns ErrNoList
// when nothing under the window has a visible item.
func FindLibraryList(window platform.Element, cfg config.Config) (platform.Element, error) {
	log := observability.L()

	specs := make([]platform.SearchSpec, 0, len(cfg.PreferredListIDs))
	for _, id := range cfg.PreferredListIDs {
		specs = append(specs, platform.SearchSpec{ControlType: "List", AutomationID: id})
	}
	hasItems := func(el platform.Element) bool { return len(VisibleItems(el)) > 0 }

	if list, ok := Locate(window, specs, hasItems); ok {
		log.Debug("library list found by preferred automation id",
			zap.String("automation_id", list.AutomationID()))
		return list, nil
	}

	// Fallback: densest-list scan.
	var best platform.Element
	bestCount := 0
	for _, candidate := range window.FindAll(platform.SearchSpec{ControlType: "List"}) {
		if n := len(VisibleItems(candidate)); n > bestCount {
			best = candidate
			bestCount = n
		}
	}
	if best != nil {
		log.Debug("library list found by densest-list scan",
			zap.Int("visible_items", bestCount))
		return best, nil
	}
	return nil, ErrNoList
}

// menuCommandSpecs builds the candidate list for the download command item:
// the stable automation id first, then for each locale keyword an exact
// title match and a substring match.
func menuCommandSpecs(cfg config.Config) []platform.SearchSpec {
	specs := []platform.SearchSpec{
		{ControlType: "MenuItem", AutomationID: cfg.CommandAutomationID},
	}
	for _, keyword := range cfg.CommandKeywords {
		specs = append(specs,
			platform.SearchSpec{ControlType: "MenuItem", Title: keyword},
			platform.SearchSpec{ControlType: "MenuItem", TitleContains: keyword},
		)
	}
	return specs
}

// FindMenuCommand searches the desktop root for the download command menu
// item. The menu may not exist yet when the search starts, since its
// materialization is asynchronous relative to the key press that requested
// it, so all candidates are re-scanned on a constant interval until the
// timeout elapses or one matches.
func FindMenuCommand(desktopRoot platform.Element, cfg config.Config, timeout time.Duration) (platform.Element, bool) {
	specs := menuCommandSpecs(cfg)
	interval := cfg.MenuPollInterval.Std()

	var found platform.Element
	scan := func() error {
		el, ok := Locate(desktopRoot, specs, nil)
		if !ok {
			return errNotYet
		}
		found = el
		return nil
	}

	retries := uint64(timeout / interval)
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), retries)
	if err := backoff.Retry(scan, policy); err != nil {
		return nil, false
	}
	return found, true
}
