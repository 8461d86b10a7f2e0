package terminal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestRenderPlain(t *testing.T) {
	lines := []string{
		`The word "scharf" has the following meanings:`,
		"",
		"1. scharf (schneidend)",
		"    -> Original: scharf",
		"    Translation: острый",
		"",
	}
	var out bytes.Buffer

	err := Render(lines, &out, true)

	assert.NoError(t, err)
	assert.Equal(t, "The word \"scharf\" has the following meanings:\n\n1. scharf (schneidend)\n    -> Original: scharf\n    Translation: острый\n\n", out.String())
}

func TestWritePlainPropagatesWriteErrors(t *testing.T) {
	err := WritePlain([]string{"a"}, failingWriter{})

	assert.EqualError(t, err, "closed pipe")
}

func TestViewKeys(t *testing.T) {
	v := NewView([]string{"line"})

	unhandled := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	assert.Equal(t, unhandled, v.handleKey(unhandled))

	assert.Nil(t, v.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.True(t, v.quit.HasFocus())
	assert.Nil(t, v.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)))
	assert.True(t, v.text.HasFocus())
}
