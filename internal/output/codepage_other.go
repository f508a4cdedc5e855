//go:build !windows

package output

// consoleCodepage reports no codepage on non-Windows terminals, which are
// UTF-8 and need no substitution pass.
func consoleCodepage() uint32 { return 0 }
