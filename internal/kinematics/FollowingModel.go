// Package kinematics defines the FollowingModel interface for longitudinal
// car-following behaviour, along with the Intelligent Driver Model (IDM)
// implementation.
//
// Models are pure functions of vehicle state: they never mutate the vehicle
// they are applied to, so a driver can share one model across every vehicle
// using the same driving profile.
package kinematics

// Follower is the vehicle state a FollowingModel consumes.
// All distance values are in metres and velocities in m/s.
type Follower interface {
	// Speed returns the vehicle's own speed.
	Speed() float64

	// RelativeSpeed returns own speed minus the leading vehicle's speed.
	// Positive while closing in on the leader.
	RelativeSpeed() float64

	// FrontDistance returns the gap to the leading vehicle, or +Inf when
	// there is no vehicle ahead.
	FrontDistance() float64
}

// FollowingModel is the contract every car-following controller must satisfy.
type FollowingModel interface {
	// Acceleration returns the instantaneous acceleration (m/s²) for f.
	Acceleration(f Follower) float64
}
