//go:build windows

package output

import "golang.org/x/sys/windows"

// consoleCodepage returns the active console's output codepage, falling back
// to the system ANSI codepage when no console is attached.
func consoleCodepage() uint32 {
	if cp, err := windows.GetConsoleOutputCP(); err == nil && cp != 0 {
		return cp
	}
	if acp, err := windows.GetACP(); err == nil {
		return acp
	}
	return 0
}
