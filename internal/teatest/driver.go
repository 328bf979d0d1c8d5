// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of starting a tea.Program, the Driver feeds messages through
// Update itself and immediately executes every returned Cmd, so a whole
// workbench interaction (open an assignment, type into its form, submit)
// runs deterministically on the test goroutine. Commands that call the
// httptest platform or the in-memory store return in microseconds; the
// only blocking commands in this app are huh's cursor blink timers,
// which the driver times out and drops.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDrainDepth bounds message chains so a view that keeps emitting
// commands fails the drain instead of hanging the test.
const maxDrainDepth = 100

// cmdTimeout separates real commands from blink timers. Form and data
// commands complete immediately against httptest; cursor blink waits on
// a ~530ms timer, so anything slower than this is dropped.
const cmdTimeout = 10 * time.Millisecond

// Driver runs a tea.Model without the bubbletea runtime.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting records that the model produced tea.Quit. The runtime
	// normally swallows tea.QuitMsg before the model sees it, so the
	// driver tracks it here rather than on the model.
	Quitting bool
}

// New wraps model in a Driver. Call DrainInit before interacting so the
// model's startup commands (session restore, worklist fetch) have run.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize delivers the initial terminal dimensions, which the app model
// needs before any view can lay itself out.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// DrainInit runs the model's Init command chain to completion.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send feeds one message through Update and drains whatever it returns.
// After the model quits, further input is ignored, matching the runtime.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// PressKey sends a single character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

// PressEsc sends the Escape key.
func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

// Type sends s one key event per rune, the way a terminal delivers it.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View renders the model's current frame.
func (d *Driver) View() string {
	return d.Model.View()
}

// drainCmd executes cmd and recursively processes everything it yields:
// batches fan out, tea.QuitMsg flips Quitting, and every other message
// goes back through Update.
func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil || depth >= maxDrainDepth {
		if depth >= maxDrainDepth {
			d.T.Logf("teatest.Driver: drain depth limit (%d) reached", maxDrainDepth)
		}
		return
	}

	msg := execCmdWithTimeout(cmd)
	if msg == nil {
		return
	}
	if isCursorBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, subCmd := range batch {
			if subCmd == nil {
				continue
			}
			d.drainCmd(subCmd, depth+1)
		}
		return
	}

	if _, isQuit := msg.(tea.QuitMsg); isQuit {
		d.Quitting = true
		updated, _ := d.Model.Update(msg)
		d.Model = updated
		return
	}

	updated, nextCmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(nextCmd, depth+1)
}

// execCmdWithTimeout runs cmd on its own goroutine and gives up after
// cmdTimeout, returning nil for commands that block on timers.
func execCmdWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink matches the unexported blink message types from
// bubbles/cursor, which huh's text inputs schedule continuously. Fed
// back through Update they chain into more timer commands.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
