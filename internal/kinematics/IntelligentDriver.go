package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// IDMModelName identifies the Intelligent Driver Model.
const IDMModelName = "idm"

// Delta is the IDM free-road acceleration exponent.
const Delta = 4

// ErrInvalidParameter is returned by Validate for an unusable calibration.
var ErrInvalidParameter = errors.New("invalid IDM parameter")

// Parameters is the calibration of an IntelligentDriver.
type Parameters struct {
	DesiredVelocity                float64 // v0, m/s
	MinimumSpacing                 float64 // s0, metres
	DesiredTimeHeadway             float64 // T, seconds
	MaxAcceleration                float64 // a, m/s²
	ComfortableBrakingDeceleration float64 // b, m/s² (positive)
}

// DefaultParameters returns a highway driving profile.
func DefaultParameters() Parameters {
	return Parameters{
		DesiredVelocity:                33.33,
		MinimumSpacing:                 2,
		DesiredTimeHeadway:             1.5,
		MaxAcceleration:                0.3,
		ComfortableBrakingDeceleration: 3,
	}
}

// Option configures an IntelligentDriver at construction.
type Option func(*IntelligentDriver)

// WithParameters replaces the whole calibration.
func WithParameters(p Parameters) Option {
	return func(d *IntelligentDriver) { d.params = p }
}

// WithDesiredVelocity sets v0.
func WithDesiredVelocity(v0 float64) Option {
	return func(d *IntelligentDriver) { d.params.DesiredVelocity = v0 }
}

// WithMinimumSpacing sets s0.
func WithMinimumSpacing(s0 float64) Option {
	return func(d *IntelligentDriver) { d.params.MinimumSpacing = s0 }
}

// WithDesiredTimeHeadway sets T.
func WithDesiredTimeHeadway(t float64) Option {
	return func(d *IntelligentDriver) { d.params.DesiredTimeHeadway = t }
}

// WithMaxAcceleration sets a.
func WithMaxAcceleration(a float64) Option {
	return func(d *IntelligentDriver) { d.params.MaxAcceleration = a }
}

// WithComfortableBrakingDeceleration sets b.
func WithComfortableBrakingDeceleration(b float64) Option {
	return func(d *IntelligentDriver) { d.params.ComfortableBrakingDeceleration = b }
}

// IntelligentDriver implements FollowingModel using the Intelligent Driver Model:
//
//	a_IDM = a * [1 - (v/v0)^4 - (s*(v, Δv) / s)^2]
//	s*(v, Δv) = s0 + max(0, v*T + v*Δv / (2*sqrt(a*b)))
//
// One instance is meant to be shared by every vehicle with the same driving
// profile. Setters are configuration-time operations: do not call them while
// accelerations are being computed.
//
// Preconditions: a > 0, b > 0 and v0 > 0. Violations are not reported by the
// arithmetic methods, they produce NaN or Inf. Use Validate when loading a
// calibration.
type IntelligentDriver struct {
	params Parameters
}

var _ FollowingModel = (*IntelligentDriver)(nil)

// NewIntelligentDriver returns a controller with DefaultParameters, modified by opts.
func NewIntelligentDriver(opts ...Option) *IntelligentDriver {
	d := &IntelligentDriver{params: DefaultParameters()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *IntelligentDriver) Parameters() Parameters { return d.params }

func (d *IntelligentDriver) DesiredVelocity() float64      { return d.params.DesiredVelocity }
func (d *IntelligentDriver) SetDesiredVelocity(v0 float64) { d.params.DesiredVelocity = v0 }

func (d *IntelligentDriver) MinimumSpacing() float64      { return d.params.MinimumSpacing }
func (d *IntelligentDriver) SetMinimumSpacing(s0 float64) { d.params.MinimumSpacing = s0 }

func (d *IntelligentDriver) DesiredTimeHeadway() float64     { return d.params.DesiredTimeHeadway }
func (d *IntelligentDriver) SetDesiredTimeHeadway(t float64) { d.params.DesiredTimeHeadway = t }

func (d *IntelligentDriver) MaxAcceleration() float64     { return d.params.MaxAcceleration }
func (d *IntelligentDriver) SetMaxAcceleration(a float64) { d.params.MaxAcceleration = a }

func (d *IntelligentDriver) ComfortableBrakingDeceleration() float64 {
	return d.params.ComfortableBrakingDeceleration
}

func (d *IntelligentDriver) SetComfortableBrakingDeceleration(b float64) {
	d.params.ComfortableBrakingDeceleration = b
}

// Validate reports the first calibration value that would make the model
// produce NaN or Inf.
func (d *IntelligentDriver) Validate() error {
	p := d.params
	checks := []struct {
		name     string
		value    float64
		positive bool
	}{
		{"desired velocity", p.DesiredVelocity, true},
		{"minimum spacing", p.MinimumSpacing, false},
		{"desired time headway", p.DesiredTimeHeadway, false},
		{"max acceleration", p.MaxAcceleration, true},
		{"comfortable braking deceleration", p.ComfortableBrakingDeceleration, true},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParameter, c.name, c.value)
		}
		if c.positive && c.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParameter, c.name, c.value)
		}
		if !c.positive && c.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidParameter, c.name, c.value)
		}
	}
	return nil
}

// SafeDistance returns s0 + v*T in metres.
func (d *IntelligentDriver) SafeDistance(f Follower) float64 {
	return d.params.MinimumSpacing + f.Speed()*d.params.DesiredTimeHeadway
}

// DesiredDynamicalDistance returns the IDM desired gap s*(v, Δv) in metres.
// It never drops below s0: when the leader pulls away fast enough the
// dynamical part is clamped at zero.
func (d *IntelligentDriver) DesiredDynamicalDistance(f Follower) float64 {
	interaction := (f.Speed() * f.RelativeSpeed()) /
		(2 * math.Sqrt(d.params.MaxAcceleration*d.params.ComfortableBrakingDeceleration))

	if d.SafeDistance(f)-d.params.MinimumSpacing+interaction < 0 {
		return d.params.MinimumSpacing
	}
	return d.SafeDistance(f) + interaction
}

// DesiredAcceleration returns the free-road term a * (1 - (v/v0)^4).
// Negative when the vehicle is faster than v0.
func (d *IntelligentDriver) DesiredAcceleration(f Follower) float64 {
	return d.params.MaxAcceleration * (1 - math.Pow(f.Speed()/d.params.DesiredVelocity, Delta))
}

// Acceleration returns the full IDM acceleration in m/s².
// With no vehicle ahead it is exactly DesiredAcceleration.
func (d *IntelligentDriver) Acceleration(f Follower) float64 {
	free := d.DesiredAcceleration(f)
	s := f.FrontDistance()
	if math.IsInf(s, 1) {
		return free
	}
	ratio := d.DesiredDynamicalDistance(f) / s
	return free - d.params.MaxAcceleration*ratio*ratio
}
