package terminal

import (
	"errors"
	"fmt"

	"github.com/creack/pty"
)

const (
	minTerminalCols = 1
	minTerminalRows = 1
	maxTerminalCols = 1000
	maxTerminalRows = 500
)

// ErrInvalidSize is returned when a requested terminal size is out of range.
var ErrInvalidSize = errors.New("invalid terminal size")

func validateTerminalSize(size Size) error {
	if size.Cols < minTerminalCols || size.Cols > maxTerminalCols {
		return fmt.Errorf("%w: cols=%d", ErrInvalidSize, size.Cols)
	}
	if size.Rows < minTerminalRows || size.Rows > maxTerminalRows {
		return fmt.Errorf("%w: rows=%d", ErrInvalidSize, size.Rows)
	}
	return nil
}

func clampTerminalSize(size Size) Size {
	if size.Cols < minTerminalCols {
		size.Cols = minTerminalCols
	}
	if size.Rows < minTerminalRows {
		size.Rows = minTerminalRows
	}
	if size.Cols > maxTerminalCols {
		size.Cols = maxTerminalCols
	}
	if size.Rows > maxTerminalRows {
		size.Rows = maxTerminalRows
	}
	return size
}

func buildWinSize(size Size) *pty.Winsize {
	// Approximate pixel sizing for programs that look at it.
	charWidth := 8.4
	charHeight := 18.0
	return &pty.Winsize{
		Rows: size.Rows,
		Cols: size.Cols,
		X:    uint16(float64(size.Cols) * charWidth),
		Y:    uint16(float64(size.Rows) * charHeight),
	}
}
