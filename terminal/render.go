// Package terminal shows lookup results either as a scrollable list view or
// as plain lines.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const quitLabel = "Quit"

// Render shows lines. In plain mode they are written to out one per line;
// otherwise a full screen view is opened and Render returns once the user
// quits.
func Render(lines []string, out io.Writer, plain bool) error {
	if plain {
		return WritePlain(lines, out)
	}
	return NewView(lines).Run()
}

func WritePlain(lines []string, out io.Writer) error {
	w := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

type View struct {
	app  *tview.Application
	text *tview.TextView
	quit *tview.Button
}

// NewView lays the lines out vertically above a Quit button. Tab moves focus
// between the list and the button, q and Esc quit.
func NewView(lines []string) *View {
	v := &View{app: tview.NewApplication()}

	v.text = tview.NewTextView().
		SetDynamicColors(false).
		SetScrollable(true).
		SetWrap(true).
		SetText(strings.Join(lines, "\n"))
	v.quit = tview.NewButton(quitLabel).SetSelectedFunc(v.app.Stop)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.text, 0, 1, true).
		AddItem(v.quit, 1, 0, false)

	v.app.SetRoot(layout, true).SetFocus(v.text)
	v.app.SetInputCapture(v.handleKey)
	return v
}

func (v *View) Run() error {
	return v.app.Run()
}

func (v *View) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch {
	case event.Key() == tcell.KeyEscape:
		v.app.Stop()
		return nil
	case event.Key() == tcell.KeyRune && event.Rune() == 'q':
		v.app.Stop()
		return nil
	case event.Key() == tcell.KeyTab || event.Key() == tcell.KeyBacktab:
		if v.quit.HasFocus() {
			v.app.SetFocus(v.text)
		} else {
			v.app.SetFocus(v.quit)
		}
		return nil
	}
	return event
}
