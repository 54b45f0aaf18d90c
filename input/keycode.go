package input

import "sort"

// KeyCode is a symbolic physical key, named after the DOM KeyboardEvent.code values
type KeyCode uint8

const (
	KeyNone KeyCode = iota
	KeyEnter
	KeyEscape
	KeySpace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyTab
	KeyShiftLeft
	KeyShiftRight
	KeyControlLeft
	KeyControlRight
	KeyAltLeft
	KeyAltRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone:         "",
	KeyEnter:        "Enter",
	KeyEscape:       "Escape",
	KeySpace:        "Space",
	KeyArrowUp:      "ArrowUp",
	KeyArrowDown:    "ArrowDown",
	KeyArrowLeft:    "ArrowLeft",
	KeyArrowRight:   "ArrowRight",
	KeyTab:          "Tab",
	KeyShiftLeft:    "ShiftLeft",
	KeyShiftRight:   "ShiftRight",
	KeyControlLeft:  "ControlLeft",
	KeyControlRight: "ControlRight",
	KeyAltLeft:      "AltLeft",
	KeyAltRight:     "AltRight",
	KeyW:            "KeyW",
	KeyA:            "KeyA",
	KeyS:            "KeyS",
	KeyD:            "KeyD",
	KeyQ:            "KeyQ",
	KeyE:            "KeyE",
}

var nameToKey = func() map[string]KeyCode {
	m := make(map[string]KeyCode, keyCount)
	for k := KeyCode(1); k < keyCount; k++ {
		m[keyNames[k]] = k
	}
	return m
}()

// String returns the code name, e.g. "KeyW"
func (k KeyCode) String() string {
	if !k.Valid() {
		return "Unknown"
	}
	return keyNames[k]
}

// Valid reports membership in the closed key set
func (k KeyCode) Valid() bool {
	return k > KeyNone && k < keyCount
}

// ParseKeyCode looks up a key by code name
func ParseKeyCode(name string) (KeyCode, bool) {
	k, ok := nameToKey[name]
	return k, ok
}

// AllKeys returns every valid key in declaration order
func AllKeys() []KeyCode {
	keys := make([]KeyCode, 0, keyCount-1)
	for k := KeyCode(1); k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

func sortKeys(keys []KeyCode) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}
