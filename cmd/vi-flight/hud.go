package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-flight/flight"
	"github.com/lixenwraith/vi-flight/input"
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleAccent = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleWarn   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleShip   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// hudState is everything one frame shows
type hudState struct {
	Telemetry flight.Telemetry
	MaxSpeed  float64
	Pressed   []input.KeyCode
	Paused    bool
	Muted     bool
	Frame     int64
}

// hudLines formats the status panel
func hudLines(s hudState) []string {
	t := s.Telemetry
	keys := make([]string, len(s.Pressed))
	for i, k := range s.Pressed {
		keys[i] = k.String()
	}

	status := "flying"
	switch {
	case s.Paused:
		status = "paused"
	case t.Actions.Boost:
		status = "boost"
	}

	lines := []string{
		fmt.Sprintf("vi-flight  tick %d  frame %d  [%s]", t.Tick, s.Frame, status),
		fmt.Sprintf("pos   x %7.2f  y %6.2f  z %7.2f", t.Position.X(), t.Position.Y(), t.Position.Z()),
		fmt.Sprintf("speed %5.2f / %.2f m/s   spin %6.1f deg/s", t.Speed, s.MaxSpeed, t.AngularSpeed*180/math.Pi),
		fmt.Sprintf("heading %6.1f deg   turning %v", t.Heading, t.Turning),
		fmt.Sprintf("input  roll %+.0f  thrust %+.0f", t.Actions.Movement.X(), t.Actions.Movement.Y()),
		fmt.Sprintf("keys   %s", strings.Join(keys, " ")),
	}
	if s.Muted {
		lines = append(lines, "audio muted")
	}
	lines = append(lines, "W/S thrust  A/D roll  Shift boost  Q/E speed cap  p pause  m mute  Esc quit")
	return lines
}

// plotCell maps a world X/Z position onto a radar of w x h cells centred on the origin
func plotCell(x, z float64, w, h int, scale float64) (int, int, bool) {
	if w <= 0 || h <= 0 || scale <= 0 {
		return 0, 0, false
	}
	cx := w/2 + int(math.Round(x/scale))
	cy := h/2 + int(math.Round(z/scale))
	if cx < 0 || cx >= w || cy < 0 || cy >= h {
		return 0, 0, false
	}
	return cx, cy, true
}

// headingGlyph picks an arrow for a heading in degrees (0 is +X, 90 is -Z)
func headingGlyph(deg float64) rune {
	glyphs := []rune{'>', '/', '^', '\\', '<', '/', 'v', '\\'}
	i := int(math.Round(math.Mod(math.Mod(deg, 360)+360, 360)/45)) % len(glyphs)
	return glyphs[i]
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawHUD renders the panel on top and a top-down radar below it
func drawHUD(screen tcell.Screen, s hudState, radarScale float64) {
	screen.Clear()
	w, h := screen.Size()

	lines := hudLines(s)
	for i, line := range lines {
		style := styleText
		switch {
		case i == 0:
			style = styleAccent
		case i == len(lines)-1:
			style = styleDim
		case s.Muted && i == len(lines)-2:
			style = styleWarn
		}
		drawText(screen, 0, i, style, line)
	}

	top := len(lines) + 1
	rh := h - top
	if rh <= 2 {
		screen.Show()
		return
	}
	for x := 0; x < w; x++ {
		screen.SetContent(x, top, '-', nil, styleDim)
	}
	// Screen rows grow downward, world -Z is drawn up
	if cx, cy, ok := plotCell(s.Telemetry.Position.X(), s.Telemetry.Position.Z(), w, rh-1, radarScale); ok {
		screen.SetContent(cx, top+1+cy, headingGlyph(s.Telemetry.Heading), nil, styleShip)
	}
	screen.Show()
}
