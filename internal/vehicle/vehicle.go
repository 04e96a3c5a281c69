// Package vehicle defines the kinematic state of a simulated vehicle and its
// optional relation to the vehicle immediately ahead on the same lane.
//
// A Vehicle owns no controller: a kinematics.FollowingModel is applied to it
// by the simulation driver.
package vehicle

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// VehicleID is a unique string identifier for a vehicle.
type VehicleID = string

// Vehicle is the mutable per-tick state of one vehicle.
type Vehicle struct {
	ID       VehicleID
	speed    float64 // m/s
	position float64 // metres along the vehicle's path
	length   float64 // metres
	front    *Vehicle
}

// New returns a vehicle of the given length and speed at position 0, with a
// fresh ID.
func New(length, speed float64) *Vehicle {
	return &Vehicle{
		ID:     uuid.New().String(),
		speed:  speed,
		length: length,
	}
}

func (v *Vehicle) Speed() float64         { return v.speed }
func (v *Vehicle) SetSpeed(speed float64) { v.speed = speed }

func (v *Vehicle) Position() float64       { return v.position }
func (v *Vehicle) SetPosition(pos float64) { v.position = pos }

// Length is read by the vehicle behind to derive its FrontDistance.
func (v *Vehicle) Length() float64 { return v.length }

// FrontVehicle returns the vehicle ahead, if any.
func (v *Vehicle) FrontVehicle() (*Vehicle, bool) {
	return v.front, v.front != nil
}

// SetFrontVehicle links v to the vehicle ahead. A nil front clears the link.
func (v *Vehicle) SetFrontVehicle(front *Vehicle) { v.front = front }

// ClearFrontVehicle marks the road ahead as open.
func (v *Vehicle) ClearFrontVehicle() { v.front = nil }

// RelativeSpeed returns own speed minus the front vehicle's speed, or 0 on an
// open road. The open-road value is irrelevant: FrontDistance is +Inf there.
func (v *Vehicle) RelativeSpeed() float64 {
	if v.front == nil {
		return 0
	}
	return v.speed - v.front.speed
}

// FrontDistance returns the bumper-to-bumper gap to the front vehicle: its
// position minus its length minus own position. +Inf when there is no
// vehicle ahead. Zero or negative when the two vehicles overlap.
func (v *Vehicle) FrontDistance() float64 {
	if v.front == nil {
		return math.Inf(1)
	}
	return v.front.position - v.front.length - v.position
}

// State is a frozen copy of a vehicle's kinematics for one tick.
type State struct {
	ID       VehicleID
	speed    float64
	position float64
	length   float64
	relSpeed float64
	gap      float64
}

// Snapshot freezes v's kinematics, including those derived from the front
// vehicle. Computing every acceleration of a tick from snapshots keeps the
// result independent of the order in which vehicles are integrated.
func (v *Vehicle) Snapshot() State {
	return State{
		ID:       v.ID,
		speed:    v.speed,
		position: v.position,
		length:   v.length,
		relSpeed: v.RelativeSpeed(),
		gap:      v.FrontDistance(),
	}
}

func (s State) Speed() float64         { return s.speed }
func (s State) Position() float64      { return s.position }
func (s State) Length() float64        { return s.length }
func (s State) RelativeSpeed() float64 { return s.relSpeed }
func (s State) FrontDistance() float64 { return s.gap }

// LinkLane sets every vehicle's front vehicle from their positions on a
// single lane. The lead vehicle gets an open road. Vehicles at the same
// position keep their input order.
//
// Positions are expected to leave at least one vehicle length between
// neighbours. Overlapping vehicles are linked anyway and get a zero or
// negative FrontDistance, which a FollowingModel turns into -Inf or an
// unbounded deceleration.
func LinkLane(vehicles []*Vehicle) {
	ordered := lo.Filter(vehicles, func(v *Vehicle, _ int) bool { return v != nil })
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].position < ordered[j].position
	})
	for i, v := range ordered {
		if i == len(ordered)-1 {
			v.ClearFrontVehicle()
			continue
		}
		v.SetFrontVehicle(ordered[i+1])
	}
}

// Snapshots freezes every vehicle's state in input order.
func Snapshots(vehicles []*Vehicle) []State {
	return lo.Map(vehicles, func(v *Vehicle, _ int) State { return v.Snapshot() })
}
