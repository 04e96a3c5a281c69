// Package lane derives straight lane paths in world coordinates from the
// pixel-space mapping of road segments.
package lane

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LanePadding is the gap kept at the top of a lane, in pixels.
const LanePadding = 2

var (
	ErrDegeneratePath = errors.New("degenerate lane path")
	ErrInvalidScale   = errors.New("invalid pixel scale")
)

// RoadMapping is the pixel-space drawing of a road segment.
type RoadMapping interface {
	StartPos() orb.Point
	EndPos() orb.Point
	RoadWidth() float64 // pixels
}

// RoadSegment is a road network element with a pixel mapping.
type RoadSegment interface {
	ID() string
	RoadMapping() RoadMapping
}

// Path is the straight line a vehicle follows along one road segment.
// Coordinates are in metres. A Path is an immutable comparable value and can
// be used as a map key; == compares segment identity and geometry.
type Path struct {
	segment     string
	origin      orb.Point
	destination orb.Point
	direction   orb.Point // unit vector
	norm        float64
}

// NewPath derives the lane path of segment, scale being metres per pixel.
//
// Both ends are shifted by LanePadding minus the road width on the y axis,
// whatever the segment's orientation, and the destination does not account
// for vehicle length. Pixel coordinates are truncated to whole pixels.
func NewPath(segment RoadSegment, scale float64) (Path, error) {
	if segment == nil {
		return Path{}, fmt.Errorf("%w: no road segment", ErrDegeneratePath)
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return Path{}, fmt.Errorf("segment %q: %w: %v", segment.ID(), ErrInvalidScale, scale)
	}
	m := segment.RoadMapping()
	if m == nil {
		return Path{}, fmt.Errorf("segment %q: %w: no road mapping", segment.ID(), ErrDegeneratePath)
	}

	start := lanePixel(m.StartPos(), m.RoadWidth())
	end := lanePixel(m.EndPos(), m.RoadWidth())

	p := Path{
		segment:     segment.ID(),
		origin:      pixelsToMeters(scale, start),
		destination: pixelsToMeters(scale, end),
	}
	p.norm = planar.Distance(p.origin, p.destination)
	if p.norm == 0 || math.IsNaN(p.norm) {
		return Path{}, fmt.Errorf("segment %q: %w: origin equals destination", segment.ID(), ErrDegeneratePath)
	}
	p.direction = orb.Point{
		(p.destination.X() - p.origin.X()) / p.norm,
		(p.destination.Y() - p.origin.Y()) / p.norm,
	}
	return p, nil
}

func lanePixel(pos orb.Point, roadWidth float64) orb.Point {
	return orb.Point{
		float64(int(pos.X())),
		float64(int(pos.Y() + LanePadding - roadWidth)),
	}
}

func pixelsToMeters(scale float64, px orb.Point) orb.Point {
	return orb.Point{px.X() * scale, px.Y() * scale}
}

func (p Path) SegmentID() string      { return p.segment }
func (p Path) Origin() orb.Point      { return p.origin }
func (p Path) Destination() orb.Point { return p.destination }
func (p Path) Direction() orb.Point   { return p.direction }

// Norm returns the path length in metres, as computed at construction.
func (p Path) Norm() float64 { return p.norm }

// Equal reports whether p and o follow the same segment with the same geometry.
func (p Path) Equal(o Path) bool {
	return p.segment == o.segment &&
		p.origin.Equal(o.origin) &&
		p.destination.Equal(o.destination) &&
		p.direction.Equal(o.direction)
}

// PointAt returns the point distance metres from the origin along the path.
// Distances beyond Norm extrapolate past the destination.
func (p Path) PointAt(distance float64) orb.Point {
	return orb.Point{
		p.origin.X() + p.direction.X()*distance,
		p.origin.Y() + p.direction.Y()*distance,
	}
}
