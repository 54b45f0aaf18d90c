package input

import "time"

// KeyEvent is the payload published on keydown and keyup
type KeyEvent struct {
	Key       KeyCode
	Pressed   bool
	Timestamp time.Time
}

// Processor derives a value from the raw key state once per tick
// Process returns false when nothing changed since the previous call
type Processor interface {
	Name() string
	Process(keys KeyReader) (any, bool)
	Dispose()
}

// Mapper turns processed values into game-level actions
// Map returns false when the produced actions are unchanged
type Mapper interface {
	Name() string
	Map(processed any) (any, bool)
	Dispose()
}

// Clock supplies event timestamps
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Axis folds a pair of opposing keys into -1, 0 or +1
func Axis(keys KeyReader, neg, pos KeyCode) float64 {
	v := 0.0
	if keys.IsPressed(pos) {
		v++
	}
	if keys.IsPressed(neg) {
		v--
	}
	return v
}
