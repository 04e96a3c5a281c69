// Command idm evaluates the Intelligent Driver Model for one follower and an
// optional leader described by flags, and writes the result as JSON to stdout.
//
//	idm -speed 22.22 -front-speed 19.44 -gap 20
//
// Without -gap the road ahead is open.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/samber/lo"

	"github.com/cxd309/idm-engine/internal/kinematics"
	"github.com/cxd309/idm-engine/internal/vehicle"
)

// result is the JSON output of one evaluation.
type result struct {
	Model                    string   `json:"model"`
	SafeDistance             float64  `json:"safe_distance"`              // metres
	DesiredDynamicalDistance float64  `json:"desired_dynamical_distance"` // metres
	DesiredAcceleration      float64  `json:"desired_acceleration"`       // m/s²
	Acceleration             float64  `json:"acceleration"`               // m/s²
	FrontDistance            *float64 `json:"front_distance,omitempty"`   // metres; nil = open road
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logger.Error("idm evaluation failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	p := kinematics.DefaultParameters()
	fs := flag.NewFlagSet("idm", flag.ContinueOnError)
	fs.Float64Var(&p.DesiredVelocity, "v0", p.DesiredVelocity, "desired velocity (m/s)")
	fs.Float64Var(&p.MinimumSpacing, "s0", p.MinimumSpacing, "minimum spacing (m)")
	fs.Float64Var(&p.DesiredTimeHeadway, "T", p.DesiredTimeHeadway, "desired time headway (s)")
	fs.Float64Var(&p.MaxAcceleration, "a", p.MaxAcceleration, "max acceleration (m/s²)")
	fs.Float64Var(&p.ComfortableBrakingDeceleration, "b", p.ComfortableBrakingDeceleration, "comfortable braking deceleration (m/s²)")
	speed := fs.Float64("speed", 0, "follower speed (m/s)")
	length := fs.Float64("length", 4.5, "vehicle length (m)")
	frontSpeed := fs.Float64("front-speed", 0, "leader speed (m/s)")
	gap := fs.Float64("gap", math.Inf(1), "bumper-to-bumper gap to the leader (m); +Inf for an open road")
	if err := fs.Parse(args); err != nil {
		return err
	}

	driver := kinematics.NewIntelligentDriver(kinematics.WithParameters(p))
	if err := driver.Validate(); err != nil {
		return err
	}
	if err := checkFinite([]namedValue{
		{"speed", *speed},
		{"front-speed", *frontSpeed},
		{"length", *length},
	}); err != nil {
		return err
	}
	if *length < 0 {
		return fmt.Errorf("length must not be negative, got %v", *length)
	}

	follower := vehicle.New(*length, *speed)
	if !math.IsInf(*gap, 1) {
		if math.IsNaN(*gap) || *gap <= 0 {
			return fmt.Errorf("gap must be positive, got %v", *gap)
		}
		// The leader's front bumper sits one vehicle length past the gap.
		leader := vehicle.New(*length, *frontSpeed)
		leader.SetPosition(*gap + *length)
		follower.SetFrontVehicle(leader)
	}

	out := evaluate(driver, follower.Snapshot())
	return json.NewEncoder(stdout).Encode(out)
}

type namedValue struct {
	name  string
	value float64
}

// checkFinite rejects the first NaN or infinite flag value.
func checkFinite(values []namedValue) error {
	bad, found := lo.Find(values, func(v namedValue) bool {
		return math.IsNaN(v.value) || math.IsInf(v.value, 0)
	})
	if found {
		return fmt.Errorf("%s must be finite, got %v", bad.name, bad.value)
	}
	return nil
}

func evaluate(driver *kinematics.IntelligentDriver, s vehicle.State) result {
	r := result{
		Model:                    kinematics.IDMModelName,
		SafeDistance:             driver.SafeDistance(s),
		DesiredDynamicalDistance: driver.DesiredDynamicalDistance(s),
		DesiredAcceleration:      driver.DesiredAcceleration(s),
		Acceleration:             driver.Acceleration(s),
	}
	if d := s.FrontDistance(); !math.IsInf(d, 1) {
		r.FrontDistance = &d
	}
	return r
}
