//go:build windows

package uia

import (
	"fmt"
	"strings"
	"time"

	"github.com/gonutz/w32"
)

// virtualKeys maps the key names used by the traversal engine to Windows
// virtual-key codes.
var virtualKeys = map[string]uint16{
	"shift":  w32.VK_SHIFT,
	"ctrl":   w32.VK_CONTROL,
	"alt":    w32.VK_MENU,
	"esc":    w32.VK_ESCAPE,
	"escape": w32.VK_ESCAPE,
	"enter":  w32.VK_RETURN,
	"up":     w32.VK_UP,
	"down":   w32.VK_DOWN,
	"left":   w32.VK_LEFT,
	"right":  w32.VK_RIGHT,
	"home":   w32.VK_HOME,
	"end":    w32.VK_END,
	"apps":   w32.VK_APPS,
	"f10":    w32.VK_F10,
}

// inputter synthesizes keyboard input with SendInput.
type inputter struct{}

// KeyCombo presses the named keys in order and releases them in reverse,
// the way a person holds a chord like shift+f10.
func (inputter) KeyCombo(keys []string) error {
	codes := make([]uint16, 0, len(keys))
	for _, key := range keys {
		vk, ok := virtualKeys[strings.ToLower(key)]
		if !ok {
			return fmt.Errorf("unknown key %q", key)
		}
		codes = append(codes, vk)
	}
	inputs := make([]w32.INPUT, 0, 2*len(codes))
	for _, vk := range codes {
		inputs = append(inputs, w32.KeyboardInput(w32.KEYBDINPUT{Vk: vk}))
	}
	for i := len(codes) - 1; i >= 0; i-- {
		inputs = append(inputs, w32.KeyboardInput(w32.KEYBDINPUT{
			Vk:    codes[i],
			Flags: w32.KEYEVENTF_KEYUP,
		}))
	}
	if sent := w32.SendInput(inputs...); sent != uint32(len(inputs)) {
		return fmt.Errorf("key combo %v: sent %d of %d events", keys, sent, len(inputs))
	}
	return nil
}

// clickAt moves the pointer to screen coordinates and presses the left
// button. The short pause between down and up keeps hosts from treating it
// as a stray transition.
func clickAt(x, y int) error {
	if !w32.SetCursorPos(x, y) {
		return fmt.Errorf("move cursor to %d,%d", x, y)
	}
	down := w32.MouseInput(w32.MOUSEINPUT{Flags: w32.MOUSEEVENTF_LEFTDOWN})
	if sent := w32.SendInput(down); sent != 1 {
		return fmt.Errorf("left button down at %d,%d", x, y)
	}
	time.Sleep(20 * time.Millisecond)
	up := w32.MouseInput(w32.MOUSEINPUT{Flags: w32.MOUSEEVENTF_LEFTUP})
	if sent := w32.SendInput(up); sent != 1 {
		return fmt.Errorf("left button up at %d,%d", x, y)
	}
	return nil
}
