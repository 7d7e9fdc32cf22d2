package cli

import (
	"github.com/fatih/color"
)

type level int

const (
	levelInfo level = iota
	levelSuccess
	levelWarning
	levelDanger
)

var levelColors = map[level]*color.Color{
	levelInfo:    color.New(color.FgCyan),
	levelSuccess: color.New(color.FgGreen),
	levelWarning: color.New(color.FgYellow),
	levelDanger:  color.New(color.FgRed),
}

// flash prints a one-line message coloured by its level. It is safe to call
// from timer goroutines.
func (a *App) flash(l level, msg string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, _ = levelColors[l].Fprintln(a.out, msg)
}
