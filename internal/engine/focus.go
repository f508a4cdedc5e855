package engine

import (
	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/platform"
)

// focusItem brings a list item into the visible, interactive state. Every
// step is best-effort: a failure is swallowed and the next fallback is
// attempted. If all fallbacks fail the item may end up unfocused; that is
// tolerated here and detected downstream when its context menu fails to
// open.
func focusItem(item platform.Element, log *zap.Logger) {
	if err := item.ScrollIntoView(); err != nil {
		log.Debug("scroll into view failed", zap.Error(err))
	}
	if err := item.SetFocus(); err == nil {
		return
	}
	if err := item.Select(); err == nil {
		return
	}
	if err := item.Click(); err != nil {
		log.Debug("all focus fallbacks failed", zap.Error(err))
	}
}
