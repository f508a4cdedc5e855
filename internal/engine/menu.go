package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/config"
	"github.com/kindletools/kindle-fetch/internal/locator"
	"github.com/kindletools/kindle-fetch/internal/output"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

// menuTrigger opens the context menu for the focused item and invokes the
// download command. Checking that the menu contains the command is a
// separate phase from invoking it, so the caller can log and skip items
// whose menu lacks it (e.g. already downloaded) without an invocation
// attempt.
type menuTrigger struct {
	cfg     config.Config
	desktop platform.Desktop
	input   platform.Inputter
	con     *output.Console
	log     *zap.Logger
}

// openContextMenu sends the platform context-menu key combination, lets the
// UI settle, then polls for the download command item within the appear
// timeout. It reports whether the item exists; it does not invoke anything.
func (m *menuTrigger) openContextMenu() bool {
	if err := m.input.KeyCombo([]string{"shift", "f10"}); err != nil {
		m.log.Debug("context menu key combo failed", zap.Error(err))
		return false
	}
	time.Sleep(m.cfg.ContextMenuDelay.Std())

	_, ok := locator.FindMenuCommand(m.desktop.Root(), m.cfg, m.cfg.MenuAppearTimeout.Std())
	return ok
}

// triggerCommand re-resolves the command item and invokes it, falling back
// to a synthesized click. If both fail, an escape key closes the abandoned
// menu. The host starts its own download on success; completion is neither
// awaited nor verified.
func (m *menuTrigger) triggerCommand() bool {
	item, ok := locator.FindMenuCommand(m.desktop.Root(), m.cfg, m.cfg.MenuResolveTimeout.Std())
	if !ok {
		return false
	}
	if err := item.Invoke(); err != nil {
		m.log.Debug("invoke pattern failed, falling back to click", zap.Error(err))
		if err := item.Click(); err != nil {
			m.log.Debug("click fallback failed, closing menu", zap.Error(err))
			_ = m.input.KeyCombo([]string{"esc"})
			return false
		}
	}
	m.con.Printf("  - Download command triggered.\n")
	return true
}
