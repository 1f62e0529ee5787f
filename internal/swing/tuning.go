package swing

import (
	pmath "github.com/Faultbox/swingline/pkg/math"
)

// Tuning holds every swing feel parameter. Speeds are in world units per
// second, times in seconds, forces in newtons.
type Tuning struct {
	// Grab
	MaxAttachDistance       float64 `yaml:"max_attach_distance"`
	BlockMotorWhileSwinging bool    `yaml:"block_motor_while_swinging"`

	// Drive
	SwingDriveForce float64 `yaml:"swing_drive_force"`
	InputDeadZone   float64 `yaml:"input_dead_zone"`

	// Release motor lock
	ReleaseMotorLockSeconds          float64 `yaml:"release_motor_lock_seconds"`
	UseVelocityBasedReleaseMotorLock bool    `yaml:"use_velocity_based_release_motor_lock"`
	ReleaseHorizSpeedMin             float64 `yaml:"release_horiz_speed_min"`
	ReleaseHorizSpeedMax             float64 `yaml:"release_horiz_speed_max"`
	ReleaseMotorLockMin              float64 `yaml:"release_motor_lock_min"`
	ReleaseMotorLockMax              float64 `yaml:"release_motor_lock_max"`
	ReleaseSteerForce                float64 `yaml:"release_steer_force"`

	// Gravity profile
	SwingGravityMultiplier  float64 `yaml:"swing_gravity_multiplier"`
	UseUpDownGravityProfile bool    `yaml:"use_up_down_gravity_profile"`
	UpGravityMultiplier     float64 `yaml:"up_gravity_multiplier"`
	DownGravityMultiplier   float64 `yaml:"down_gravity_multiplier"`

	// Release gravity recovery
	UseVelocityBasedReleaseGravity bool    `yaml:"use_velocity_based_release_gravity"`
	ReleaseUpSpeedMin              float64 `yaml:"release_up_speed_min"`
	ReleaseUpSpeedMax              float64 `yaml:"release_up_speed_max"`
	ReleaseRecoverTimeFast         float64 `yaml:"release_recover_time_fast"`
	ReleaseRecoverTimeSlow         float64 `yaml:"release_recover_time_slow"`

	// Release upward assist
	EnableReleaseUpwardAssist  bool    `yaml:"enable_release_upward_assist"`
	ReleaseUpwardAssistSeconds float64 `yaml:"release_upward_assist_seconds"`
	ReleaseUpwardAssistForce   float64 `yaml:"release_upward_assist_force"`
	ReleaseUpwardAssistMinUp   float64 `yaml:"release_upward_assist_min_up_speed"`

	// Release horizontal assist
	EnableReleaseHorizontalAssist  bool    `yaml:"enable_release_horizontal_assist"`
	ReleaseHorizontalAssistSeconds float64 `yaml:"release_horizontal_assist_seconds"`
	ReleaseHorizontalAssistForce   float64 `yaml:"release_horizontal_assist_force"`
	ReleaseHorizontalAssistMin     float64 `yaml:"release_horizontal_assist_min_speed"`

	// Detach velocity
	InheritGripPointVelocityOnDetach bool    `yaml:"inherit_grip_point_velocity_on_detach"`
	EnableDetachUpwardAssist         bool    `yaml:"enable_detach_upward_assist"`
	DetachUpwardVelocityMultiplier   float64 `yaml:"detach_upward_velocity_multiplier"`
	DetachUpwardMinSpeed             float64 `yaml:"detach_upward_min_speed"`
}

// DefaultTuning returns the shipped swing feel.
func DefaultTuning() Tuning {
	return Tuning{
		MaxAttachDistance:       1.25,
		BlockMotorWhileSwinging: true,

		SwingDriveForce: 35,
		InputDeadZone:   0.01,

		ReleaseMotorLockSeconds:          0.18,
		UseVelocityBasedReleaseMotorLock: true,
		ReleaseHorizSpeedMin:             3,
		ReleaseHorizSpeedMax:             18,
		ReleaseMotorLockMin:              0.12,
		ReleaseMotorLockMax:              0.55,
		ReleaseSteerForce:                10,

		SwingGravityMultiplier:  0.7,
		UseUpDownGravityProfile: true,
		UpGravityMultiplier:     0.55,
		DownGravityMultiplier:   0.85,

		UseVelocityBasedReleaseGravity: true,
		ReleaseUpSpeedMin:              1,
		ReleaseUpSpeedMax:              16,
		ReleaseRecoverTimeFast:         0.10,
		ReleaseRecoverTimeSlow:         0.55,

		EnableReleaseUpwardAssist:  true,
		ReleaseUpwardAssistSeconds: 0.12,
		ReleaseUpwardAssistForce:   35,
		ReleaseUpwardAssistMinUp:   1,

		EnableReleaseHorizontalAssist:  true,
		ReleaseHorizontalAssistSeconds: 0.14,
		ReleaseHorizontalAssistForce:   14,
		ReleaseHorizontalAssistMin:     4,

		InheritGripPointVelocityOnDetach: true,
		EnableDetachUpwardAssist:         false,
		DetachUpwardVelocityMultiplier:   1.12,
		DetachUpwardMinSpeed:             0.5,
	}
}

// Multiplier bounds for the gravity profile.
const (
	minGravityMultiplier = 0.1
	maxGravityMultiplier = 1.5
)

// minRecoverDuration keeps the recovery interpolation well defined.
const minRecoverDuration = 0.0001

// Sanitize returns a copy with out-of-range values clamped: gravity
// multipliers to [0.1, 1.5], the detach multiplier to at least 1,
// distances, durations and forces to non-negative, and inverted min/max
// pairs swapped.
func (t Tuning) Sanitize() Tuning {
	nonNeg := func(v *float64) {
		if *v < 0 {
			*v = 0
		}
	}
	ordered := func(lo, hi *float64) {
		if *lo > *hi {
			*lo, *hi = *hi, *lo
		}
	}
	mult := func(v *float64) {
		*v = pmath.Clamp(*v, minGravityMultiplier, maxGravityMultiplier)
	}

	for _, v := range []*float64{
		&t.MaxAttachDistance, &t.SwingDriveForce, &t.InputDeadZone,
		&t.ReleaseMotorLockSeconds, &t.ReleaseMotorLockMin, &t.ReleaseMotorLockMax,
		&t.ReleaseHorizSpeedMin, &t.ReleaseHorizSpeedMax, &t.ReleaseSteerForce,
		&t.ReleaseUpSpeedMin, &t.ReleaseUpSpeedMax,
		&t.ReleaseRecoverTimeFast, &t.ReleaseRecoverTimeSlow,
		&t.ReleaseUpwardAssistSeconds, &t.ReleaseUpwardAssistForce,
		&t.ReleaseHorizontalAssistSeconds, &t.ReleaseHorizontalAssistForce,
		&t.ReleaseHorizontalAssistMin, &t.DetachUpwardMinSpeed,
	} {
		nonNeg(v)
	}

	ordered(&t.ReleaseHorizSpeedMin, &t.ReleaseHorizSpeedMax)
	ordered(&t.ReleaseMotorLockMin, &t.ReleaseMotorLockMax)
	ordered(&t.ReleaseUpSpeedMin, &t.ReleaseUpSpeedMax)

	mult(&t.SwingGravityMultiplier)
	mult(&t.UpGravityMultiplier)
	mult(&t.DownGravityMultiplier)

	if t.DetachUpwardVelocityMultiplier < 1 {
		t.DetachUpwardVelocityMultiplier = 1
	}
	return t
}

// GravityMultiplier returns the profile multiplier for a vertical velocity.
func (t Tuning) GravityMultiplier(vy float64) float64 {
	if !t.UseUpDownGravityProfile {
		return t.SwingGravityMultiplier
	}
	if vy > 0.01 {
		return t.UpGravityMultiplier
	}
	return t.DownGravityMultiplier
}

// MotorLockDuration returns how long the motor stays locked after a release
// with the given horizontal speed (sign ignored).
func (t Tuning) MotorLockDuration(horizontalSpeed float64) float64 {
	if !t.UseVelocityBasedReleaseMotorLock {
		return t.ReleaseMotorLockSeconds
	}
	if horizontalSpeed < 0 {
		horizontalSpeed = -horizontalSpeed
	}
	a := pmath.InverseLerp(t.ReleaseHorizSpeedMin, t.ReleaseHorizSpeedMax, horizontalSpeed)
	return pmath.Lerp(t.ReleaseMotorLockMin, t.ReleaseMotorLockMax, a)
}

// RecoverDuration returns how long gravity takes to return to its baseline
// after a release with the given vertical velocity. Downward motion counts
// as zero upward speed.
func (t Tuning) RecoverDuration(vy float64) float64 {
	up := vy
	if up < 0 {
		up = 0
	}
	a := pmath.InverseLerp(t.ReleaseUpSpeedMin, t.ReleaseUpSpeedMax, up)
	d := pmath.Lerp(t.ReleaseRecoverTimeFast, t.ReleaseRecoverTimeSlow, a)
	if d < minRecoverDuration {
		d = minRecoverDuration
	}
	return d
}
