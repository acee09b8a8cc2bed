package sim

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// LCD geometry.
const (
	LCDRows = 2
	LCDCols = 16
)

// LCD is a character display rendered to a writer.
type LCD struct {
	Out io.Writer

	grid      [LCDRows][LCDCols]byte
	backlight bool
	lock      sync.Mutex
}

// NewLCD creates an LCD rendering to w, nil for no output.
func NewLCD(w io.Writer) *LCD {
	l := &LCD{Out: w}
	l.clear()
	return l
}

func (l *LCD) clear() {
	for r := range l.grid {
		for c := range l.grid[r] {
			l.grid[r][c] = ' '
		}
	}
}

// Init implements board.Peripheral.
func (l *LCD) Init() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.clear()
	l.backlight = true
	return nil
}

// WriteString implements board.LCD. Text beyond the last column is clipped.
func (l *LCD) WriteString(row, col int, s string) {
	if row < 0 || row >= LCDRows || col < 0 || col >= LCDCols {
		return
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	changed := false
	for i := 0; i < len(s) && col+i < LCDCols; i++ {
		if l.grid[row][col+i] != s[i] {
			l.grid[row][col+i] = s[i]
			changed = true
		}
	}
	if changed {
		l.render()
	}
}

// Backlight implements board.LCD.
func (l *LCD) Backlight(on bool) {
	l.lock.Lock()
	l.backlight = on
	l.lock.Unlock()
}

// BacklightOn returns the backlight state.
func (l *LCD) BacklightOn() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.backlight
}

// Lines returns the display content.
func (l *LCD) Lines() []string {
	l.lock.Lock()
	defer l.lock.Unlock()
	lines := make([]string, LCDRows)
	for r := range l.grid {
		lines[r] = string(l.grid[r][:])
	}
	return lines
}

func (l *LCD) render() {
	if l.Out == nil {
		return
	}
	rows := make([]string, LCDRows)
	for r := range l.grid {
		rows[r] = string(l.grid[r][:])
	}
	fmt.Fprintf(l.Out, "[%s]\n", strings.Join(rows, "|"))
}
