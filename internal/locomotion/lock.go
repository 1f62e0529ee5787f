// Package locomotion drives the avatar's horizontal movement and jumps. It
// yields to other systems through the Lock interface.
package locomotion

// Lock is implemented by systems that temporarily own the avatar's motion.
type Lock interface {
	// ShouldBlockMotor reports whether the motor must not write velocity.
	ShouldBlockMotor() bool
	// ShouldIgnoreJumpCut reports whether a released jump keeps its speed.
	ShouldIgnoreJumpCut() bool
}

// GroundProbe reports whether the avatar stands on something.
type GroundProbe interface {
	Grounded() bool
}

type lockSet []Lock

func (s lockSet) ShouldBlockMotor() bool {
	for _, l := range s {
		if l.ShouldBlockMotor() {
			return true
		}
	}
	return false
}

func (s lockSet) ShouldIgnoreJumpCut() bool {
	for _, l := range s {
		if l.ShouldIgnoreJumpCut() {
			return true
		}
	}
	return false
}

// Locks combines several locks; a signal is raised when any lock raises it.
// Nil locks are skipped.
func Locks(locks ...Lock) Lock {
	set := make(lockSet, 0, len(locks))
	for _, l := range locks {
		if l != nil {
			set = append(set, l)
		}
	}
	return set
}

// FootSensor is a GroundProbe fed by overlap notifications from a sensor
// under the avatar.
type FootSensor struct {
	contacts int
}

// Touch records a collider entering the sensor.
func (f *FootSensor) Touch() {
	f.contacts++
}

// Leave records a collider leaving the sensor.
func (f *FootSensor) Leave() {
	if f.contacts > 0 {
		f.contacts--
	}
}

// Grounded implements GroundProbe.
func (f *FootSensor) Grounded() bool {
	return f.contacts > 0
}

// Contacts returns the number of colliders under the sensor.
func (f *FootSensor) Contacts() int {
	return f.contacts
}
