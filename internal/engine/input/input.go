// Package input handles SDL2 events and samples the keyboard into
// per-frame intents.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	intent "github.com/Faultbox/swingline/internal/input"
)

// EventType classifies window-level events surfaced to the game loop.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event is a processed SDL event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Bindings maps intent axes and buttons to scancodes. Either key of a pair
// triggers the action.
type Bindings struct {
	Left  [2]sdl.Scancode
	Right [2]sdl.Scancode
	Up    [2]sdl.Scancode
	Down  [2]sdl.Scancode
	Jump  [2]sdl.Scancode
}

// DefaultBindings uses WASD and the arrow keys, with Space or Z to jump
// and grab.
func DefaultBindings() Bindings {
	return Bindings{
		Left:  [2]sdl.Scancode{sdl.SCANCODE_A, sdl.SCANCODE_LEFT},
		Right: [2]sdl.Scancode{sdl.SCANCODE_D, sdl.SCANCODE_RIGHT},
		Up:    [2]sdl.Scancode{sdl.SCANCODE_W, sdl.SCANCODE_UP},
		Down:  [2]sdl.Scancode{sdl.SCANCODE_S, sdl.SCANCODE_DOWN},
		Jump:  [2]sdl.Scancode{sdl.SCANCODE_SPACE, sdl.SCANCODE_Z},
	}
}

// Reader polls SDL once per frame and produces the frame's Intent.
type Reader struct {
	bindings Bindings
	events   []Event
	current  intent.Intent
	prevJump bool
}

// NewReader creates a reader with the given bindings.
func NewReader(b Bindings) *Reader {
	return &Reader{
		bindings: b,
		events:   make([]Event, 0, 16),
	}
}

// Update drains the SDL event queue. Returns true if the game should quit.
func (r *Reader) Update() bool {
	r.events = r.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			r.events = append(r.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				r.events = append(r.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				r.events = append(r.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				r.events = append(r.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}
		}
	}

	return false
}

// Tick samples the keyboard into the current Intent. With ignoreInput the
// intent is zeroed (cutscenes, room transitions) and the jump edge state
// is reset so releasing later does not fire a stale JumpUp.
func (r *Reader) Tick(ignoreInput bool) {
	if ignoreInput {
		r.current = intent.Intent{}
		r.prevJump = false
		return
	}

	keys := sdl.GetKeyboardState()
	down := func(pair [2]sdl.Scancode) bool {
		for _, sc := range pair {
			if int(sc) < len(keys) && keys[sc] != 0 {
				return true
			}
		}
		return false
	}

	var h, v float64
	if down(r.bindings.Left) {
		h--
	}
	if down(r.bindings.Right) {
		h++
	}
	if down(r.bindings.Up) {
		v++
	}
	if down(r.bindings.Down) {
		v--
	}

	jump := down(r.bindings.Jump)
	r.current = intent.Intent{
		Horizontal: h,
		Vertical:   v,
		JumpDown:   jump && !r.prevJump,
		JumpHeld:   jump,
		JumpUp:     !jump && r.prevJump,
	}
	r.prevJump = jump
}

// Current returns the intent sampled by the last Tick.
func (r *Reader) Current() intent.Intent {
	return r.current
}

// Events returns the events from the last Update.
func (r *Reader) Events() []Event {
	return r.events
}

// KeyPressed reports whether a key went down this frame.
func (r *Reader) KeyPressed(scancode sdl.Scancode) bool {
	for _, e := range r.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
