package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flashDuration is how long a HUD flash message stays up.
const flashDuration = 3 * time.Second

// flashExpiredMsg clears the flash with the matching sequence number.
type flashExpiredMsg struct{ seq int }

// flash is a short-lived HUD message. A newer flash replaces an older one,
// and the older one's timer becomes a no-op.
type flash struct {
	text string
	seq  int
}

// show sets the message and returns the command that will expire it.
func (f *flash) show(text string) tea.Cmd {
	f.seq++
	f.text = text
	seq := f.seq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// expire clears the message if msg belongs to the current flash.
func (f *flash) expire(msg flashExpiredMsg) {
	if msg.seq == f.seq {
		f.text = ""
	}
}
