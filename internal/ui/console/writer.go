// Package console wraps the process stdio streams: it synchronizes writes,
// detects terminals and strips colors when they are not wanted.
package console

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultTermWidth = 80

// Writer syncs writes with a mutex and, if the output is a TTY, clears till
// the end of the line before each newline.
type Writer struct {
	RawOut *os.File
	Mutex  *sync.Mutex
	Writer io.Writer
	IsTTY  bool
}

// NewWriter wraps f. termType "dumb" disables TTY handling.
func NewWriter(f *os.File, mx *sync.Mutex, termType string) *Writer {
	isTTY := termType != "dumb" && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	return &Writer{
		RawOut: f,
		Mutex:  mx,
		Writer: colorable.NewColorable(f),
		IsTTY:  isTTY,
	}
}

// DisableColors makes the writer strip ANSI color sequences.
func (w *Writer) DisableColors() {
	if w.RawOut != nil {
		w.Writer = colorable.NewNonColorable(w.RawOut)
		return
	}
	w.Writer = colorable.NewNonColorable(w.Writer)
}

func (w *Writer) Write(p []byte) (n int, err error) {
	origLen := len(p)
	if w.IsTTY {
		p = bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\x1b', '[', '0', 'K', '\n'})
	}

	w.Mutex.Lock()
	n, err = w.Writer.Write(p)
	w.Mutex.Unlock()

	if err != nil && n < origLen {
		return n, err
	}
	return origLen, err
}

// TermWidth returns the terminal width in characters. Outside of a TTY, or
// when the lookup fails, the default of 80 is returned.
func (w *Writer) TermWidth() int {
	if !w.IsTTY || w.RawOut == nil {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(w.RawOut.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
