//go:build windows

package uia

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/kindletools/kindle-fetch/internal/model"
	"github.com/kindletools/kindle-fetch/internal/observability"
	"github.com/kindletools/kindle-fetch/internal/platform"
)

const windowPollInterval = 200 * time.Millisecond

// desktop implements platform.Desktop over one UI Automation session.
type desktop struct {
	auto *iUIAutomation
	root *element
}

func newDesktop(auto *iUIAutomation) (*desktop, error) {
	rootEl, err := auto.getRootElement()
	if err != nil {
		return nil, fmt.Errorf("get desktop root: %w", err)
	}
	d := &desktop{auto: auto}
	d.root = &element{auto: auto, raw: rootEl}
	return d, nil
}

func (d *desktop) Attach(opts platform.AttachOptions) (platform.Application, error) {
	pid, err := findProcess(opts.Executable)
	if err != nil {
		return nil, err
	}
	observability.L().Debug("attached to process",
		zap.String("executable", opts.Executable),
		zap.Int32("pid", pid))
	return &application{desktop: d, executable: opts.Executable, pid: pid}, nil
}

func (d *desktop) Root() platform.Element { return d.root }

func (d *desktop) FocusedElement() (platform.Element, bool) {
	el, err := d.auto.getFocusedElement()
	if err != nil || el == nil {
		return nil, false
	}
	return &element{auto: d.auto, raw: el}, true
}

// findProcess resolves the pid of the named executable, matching
// case-insensitively the way the Windows shell does.
func findProcess(executable string) (int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(name, executable) {
			return p.Pid, nil
		}
	}
	return 0, platform.ErrProcessNotFound
}

// application is an attached process.
type application struct {
	desktop    *desktop
	executable string
	pid        int32
}

// topLevelWindows returns the process's windows among the desktop root's
// children.
func (a *application) topLevelWindows() ([]*element, error) {
	auto := a.desktop.auto
	pidCond, err := auto.createIntCondition(propProcessID, a.pid)
	if err != nil {
		return nil, err
	}
	defer pidCond.Release()
	typeCond, err := auto.createIntCondition(propControlType, controlWindow)
	if err != nil {
		return nil, err
	}
	defer typeCond.Release()
	cond, err := auto.createAndCondition(pidCond, typeCond)
	if err != nil {
		return nil, err
	}
	defer cond.Release()

	arr, err := a.desktop.root.raw.findAll(treeScopeChildren, cond)
	if err != nil {
		return nil, err
	}
	if arr == nil {
		return nil, nil
	}
	defer arr.Release()
	return collectElements(auto, arr)
}

func (a *application) MainWindow(opts platform.WindowOptions) (platform.Element, error) {
	log := observability.L()
	deadline := time.Now().Add(opts.Timeout)
	for {
		windows, err := a.topLevelWindows()
		if err != nil {
			return nil, fmt.Errorf("enumerate windows of %s: %w", a.executable, err)
		}
		for _, w := range windows {
			if w.Name() == opts.Title && w.IsVisible() {
				return w, nil
			}
		}
		if time.Now().After(deadline) {
			// Best-effort fallback: the host may decorate the title
			// (e.g. with a book name), so take any live window rather
			// than failing the run.
			for _, w := range windows {
				if w.IsVisible() {
					log.Warn("titled window not found; using fallback",
						zap.String("wanted", opts.Title),
						zap.String("got", w.Name()))
					return w, nil
				}
			}
			if len(windows) > 0 {
				return windows[0], nil
			}
			return nil, fmt.Errorf("%s has no top-level windows", a.executable)
		}
		time.Sleep(windowPollInterval)
	}
}

func (a *application) Windows() ([]model.Window, error) {
	windows, err := a.topLevelWindows()
	if err != nil {
		return nil, fmt.Errorf("enumerate windows of %s: %w", a.executable, err)
	}
	out := make([]model.Window, 0, len(windows))
	for _, w := range windows {
		entry := model.Window{
			App:   a.executable,
			PID:   int(a.pid),
			Title: w.Name(),
		}
		if hwnd, err := w.raw.nativeWindowHandle(); err == nil {
			entry.ID = int(hwnd)
		}
		if focused, err := w.raw.hasKeyboardFocus(); err == nil {
			entry.Focused = focused
		}
		out = append(out, entry)
	}
	return out, nil
}
