//go:build windows

package uia

import (
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"

	"github.com/kindletools/kindle-fetch/internal/platform"
)

func init() {
	platform.NewProviderFunc = newProvider
}

func newProvider() (*platform.Provider, error) {
	// UI Automation is apartment-threaded; pin the session to one OS
	// thread for the life of the process.
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE (1) means the thread was already initialized.
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != 1 {
			return nil, fmt.Errorf("initialize COM: %w", err)
		}
	}
	auto, err := newAutomation()
	if err != nil {
		return nil, fmt.Errorf("create UI Automation session: %w", err)
	}
	desktop, err := newDesktop(auto)
	if err != nil {
		return nil, err
	}
	return &platform.Provider{
		Desktop:  desktop,
		Inputter: inputter{},
	}, nil
}
