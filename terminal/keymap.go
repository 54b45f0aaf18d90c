package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-flight/input"
)

var specialKeys = map[tcell.Key]input.KeyCode{
	tcell.KeyEnter: input.KeyEnter,
	tcell.KeyEsc:   input.KeyEscape,
	tcell.KeyTab:   input.KeyTab,
	tcell.KeyUp:    input.KeyArrowUp,
	tcell.KeyDown:  input.KeyArrowDown,
	tcell.KeyLeft:  input.KeyArrowLeft,
	tcell.KeyRight: input.KeyArrowRight,
}

var runeKeys = map[rune]input.KeyCode{
	' ': input.KeySpace,
	'w': input.KeyW,
	'a': input.KeyA,
	's': input.KeyS,
	'd': input.KeyD,
	'q': input.KeyQ,
	'e': input.KeyE,
}

// Stroke is one decoded terminal key report
type Stroke struct {
	Key   input.KeyCode
	Shift bool
	Ctrl  bool
	Alt   bool
}

// MapKey decodes a tcell key event; ok is false for keys with no code
func MapKey(ev *tcell.EventKey) (Stroke, bool) {
	if ev == nil {
		return Stroke{}, false
	}
	mod := ev.Modifiers()
	s := Stroke{
		Shift: mod&tcell.ModShift != 0,
		Ctrl:  mod&tcell.ModCtrl != 0,
		Alt:   mod&tcell.ModAlt != 0,
	}

	if ev.Key() != tcell.KeyRune {
		k, ok := specialKeys[ev.Key()]
		if !ok {
			return Stroke{}, false
		}
		s.Key = k
		return s, true
	}

	r := ev.Rune()
	if unicode.IsUpper(r) {
		s.Shift = true
		r = unicode.ToLower(r)
	}
	k, ok := runeKeys[r]
	if !ok {
		return Stroke{}, false
	}
	s.Key = k
	return s, true
}

// modifierKeys lists the codes a stroke's modifiers press alongside its key
func (s Stroke) modifierKeys() []input.KeyCode {
	var keys []input.KeyCode
	if s.Shift {
		keys = append(keys, input.KeyShiftLeft)
	}
	if s.Ctrl {
		keys = append(keys, input.KeyControlLeft)
	}
	if s.Alt {
		keys = append(keys, input.KeyAltLeft)
	}
	return keys
}
