package mesh

import (
	"fmt"
	"math"

	"github.com/san-kum/particlesim/internal/dynamo"
)

// Spec describes a rectangular mesh of (SubdivX+1) x (SubdivY+1) particles
// spanning Width x Height from Origin.
type Spec struct {
	Width, Height    float64
	SubdivX, SubdivY int
	Mass             float64
	Velocity         dynamo.Vec2
	Origin           dynamo.Vec2
	Pattern          Pattern
	Stiffness        float64
}

func (s Spec) Validate() error {
	switch {
	case s.SubdivX < 1 || s.SubdivY < 1:
		return fmt.Errorf("%w: subdivisions (%d,%d) must be at least 1", dynamo.ErrParameterBounds, s.SubdivX, s.SubdivY)
	case !(s.Width > 0) || !(s.Height > 0):
		return fmt.Errorf("%w: mesh size %vx%v", dynamo.ErrParameterBounds, s.Width, s.Height)
	case !(s.Mass > 0):
		return fmt.Errorf("%w: got %v", dynamo.ErrInvalidMass, s.Mass)
	case !(s.Stiffness > 0):
		return fmt.Errorf("%w: stiffness %v", dynamo.ErrInvalidSpring, s.Stiffness)
	}
	if _, ok := patternNames[s.Pattern]; !ok {
		return fmt.Errorf("%w: %d", dynamo.ErrUnknownPattern, int(s.Pattern))
	}
	return nil
}

// Index returns the particle index of grid cell (i, j) in a mesh with
// subdivY vertical subdivisions.
func Index(i, j, subdivY int) int {
	return i*(subdivY+1) + j
}

// SpringCount returns how many springs Build creates for the given
// subdivisions and pattern.
func SpringCount(sx, sy int, p Pattern) int {
	axis := sx*(sy+1) + sy*(sx+1)
	diag := 2 * sx * sy
	switch p {
	case Grid:
		return axis
	case ZPattern:
		return axis + diag
	case XPattern:
		return diag
	}
	return 0
}

// Build lays out the particle grid and connects it according to s.Pattern.
// Rest lengths are the construction-time distances.
func Build(s Spec) (*Mesh, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	sx, sy := s.SubdivX, s.SubdivY
	spacingX := s.Width / float64(sx)
	spacingY := s.Height / float64(sy)
	diagonal := math.Sqrt(spacingX*spacingX + spacingY*spacingY)

	particles := make([]dynamo.Particle, 0, (sx+1)*(sy+1))
	for i := 0; i <= sx; i++ {
		for j := 0; j <= sy; j++ {
			particles = append(particles, dynamo.Particle{
				Position: s.Origin.Add(dynamo.V(float64(i)*spacingX, float64(j)*spacingY)),
				Velocity: s.Velocity,
				Mass:     s.Mass,
			})
		}
	}

	springs := make([]Spring, 0, SpringCount(sx, sy, s.Pattern))
	link := func(i1, j1, i2, j2 int, rest float64) {
		springs = append(springs, Spring{
			A:          Index(i1, j1, sy),
			B:          Index(i2, j2, sy),
			RestLength: rest,
			Stiffness:  s.Stiffness,
		})
	}

	axis := s.Pattern == Grid || s.Pattern == ZPattern
	diag := s.Pattern == ZPattern || s.Pattern == XPattern

	for i := 0; i <= sx; i++ {
		for j := 0; j <= sy; j++ {
			if axis && i < sx {
				link(i, j, i+1, j, spacingX)
			}
			if axis && j < sy {
				link(i, j, i, j+1, spacingY)
			}
			if diag && i < sx && j < sy {
				link(i, j, i+1, j+1, diagonal)
			}
			if diag && i < sx && j > 0 {
				link(i, j, i+1, j-1, diagonal)
			}
		}
	}

	return New(particles, springs)
}
