package input

import "github.com/go-gl/mathgl/mgl64"

// Vector2Processor reduces four directional keys to a 2D vector
// x = right - left, y = up - down; components are in {-1, 0, 1}
type Vector2Processor struct {
	name                  string
	up, down, left, right KeyCode
	last                  mgl64.Vec2
}

// NewVector2Processor creates a processor over the given key quadruple
func NewVector2Processor(name string, up, down, left, right KeyCode) *Vector2Processor {
	return &Vector2Processor{
		name:  name,
		up:    up,
		down:  down,
		left:  left,
		right: right,
	}
}

// NewWASDProcessor is the conventional movement layout
func NewWASDProcessor(name string) *Vector2Processor {
	return NewVector2Processor(name, KeyW, KeyS, KeyA, KeyD)
}

// NewArrowProcessor uses the arrow cluster
func NewArrowProcessor(name string) *Vector2Processor {
	return NewVector2Processor(name, KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight)
}

func (p *Vector2Processor) Name() string { return p.name }

// Process emits the vector only when it differs from the last emitted one
func (p *Vector2Processor) Process(keys KeyReader) (any, bool) {
	v := p.Current(keys)
	if v == p.last {
		return nil, false
	}
	p.last = v
	return v, true
}

// Current computes the vector without touching change detection
func (p *Vector2Processor) Current(keys KeyReader) mgl64.Vec2 {
	return mgl64.Vec2{
		Axis(keys, p.left, p.right),
		Axis(keys, p.down, p.up),
	}
}

// Last returns the most recently emitted vector
func (p *Vector2Processor) Last() mgl64.Vec2 { return p.last }

func (p *Vector2Processor) Dispose() {
	p.last = mgl64.Vec2{}
}
