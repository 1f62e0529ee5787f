package b2

import "github.com/ByteArena/box2d"

type overlapEvent struct {
	a, b  any
	began bool
}

// contactQueue records sensor contacts while box2d is stepping. The world
// is locked during callbacks, so delivery waits for the step to finish.
type contactQueue struct {
	events []overlapEvent
}

func (q *contactQueue) BeginContact(contact box2d.B2ContactInterface) {
	q.record(contact, true)
}

func (q *contactQueue) EndContact(contact box2d.B2ContactInterface) {
	q.record(contact, false)
}

func (q *contactQueue) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (q *contactQueue) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}

func (q *contactQueue) record(contact box2d.B2ContactInterface, began bool) {
	fa, fb := contact.GetFixtureA(), contact.GetFixtureB()
	if fa == nil || fb == nil {
		return
	}
	if !fa.IsSensor() && !fb.IsSensor() {
		return
	}
	q.events = append(q.events, overlapEvent{a: owner(fa), b: owner(fb), began: began})
}

func (q *contactQueue) drain() []overlapEvent {
	events := q.events
	q.events = nil
	return events
}

// owner returns the fixture owner, falling back to the body owner.
func owner(f *box2d.B2Fixture) any {
	if o := f.GetUserData(); o != nil {
		return o
	}
	if b := f.GetBody(); b != nil {
		return b.GetUserData()
	}
	return nil
}
