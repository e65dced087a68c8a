// Package tray provides a system tray interface for the yantra daemon:
// connection status at a glance, mode switching, and a safe quit.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onConnect    func()
	onDisconnect func()
	onMode       func(name string)
	onQuit       func()
	mu           sync.RWMutex

	menuStatus *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnConnect sets the callback for the connect menu item.
func (t *Tray) OnConnect(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onConnect = fn
}

// OnDisconnect sets the callback for the disconnect menu item.
func (t *Tray) OnDisconnect(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDisconnect = fn
}

// OnMode sets the callback for the mode menu items. name is one of
// "keyboard", "voice" or "gesture".
func (t *Tray) OnMode(fn func(name string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application. Blocks until systray.Quit()
// is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Yantra")
	systray.SetTooltip("Yantra Robot Controller")

	t.menuStatus = systray.AddMenuItem("○ Disconnected", "Connection status")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuConnect := systray.AddMenuItem("Connect", "Open the robot link")
	menuDisconnect := systray.AddMenuItem("Disconnect", "Close the robot link")
	systray.AddSeparator()

	menuKeyboard := systray.AddMenuItem("Keyboard mode", "Manual control")
	menuVoice := systray.AddMenuItem("Voice mode", "Voice control")
	menuGesture := systray.AddMenuItem("Gesture mode", "Gesture control")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Yantra")

	go func() {
		for {
			select {
			case <-menuConnect.ClickedCh:
				t.handleConnect()
			case <-menuDisconnect.ClickedCh:
				t.handleDisconnect()
			case <-menuKeyboard.ClickedCh:
				t.handleMode("keyboard")
			case <-menuVoice.ClickedCh:
				t.handleMode("voice")
			case <-menuGesture.ClickedCh:
				t.handleMode("gesture")
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleConnect() {
	t.mu.RLock()
	fn := t.onConnect
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) handleDisconnect() {
	t.mu.RLock()
	fn := t.onDisconnect
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (t *Tray) handleMode(name string) {
	t.mu.RLock()
	fn := t.onMode
	t.mu.RUnlock()
	if fn != nil {
		fn(name)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	fn := t.onQuit
	t.mu.RUnlock()
	if fn != nil {
		fn()
	}
	systray.Quit()
}

// SetConnected updates the status line in the menu.
func (t *Tray) SetConnected(connected bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus == nil {
		return
	}
	if connected {
		t.menuStatus.SetTitle("● Connected")
	} else {
		t.menuStatus.SetTitle("○ Disconnected")
	}
}
