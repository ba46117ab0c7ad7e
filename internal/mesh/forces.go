package mesh

import "github.com/san-kum/particlesim/internal/dynamo"

// ApplySpringForces adds Hooke and damping forces of every spring to the
// endpoint accelerations. Contributions are summed into a side buffer and
// committed after the scan so springs sharing a particle all read the same
// state.
func (m *Mesh) ApplySpringForces(damping float64) {
	if len(m.Springs) == 0 {
		return
	}
	if cap(m.accel) < len(m.Particles) {
		m.accel = make([]dynamo.Vec2, len(m.Particles))
	}
	m.accel = m.accel[:len(m.Particles)]
	for i := range m.accel {
		m.accel[i] = dynamo.Vec2{}
	}

	for _, s := range m.Springs {
		a, b := &m.Particles[s.A], &m.Particles[s.B]

		// force on a; b receives the opposite. Damping pulls a toward b's
		// velocity, opposing relative motion; the flipped sign adds energy.
		relVel := b.Velocity.Sub(a.Velocity)
		dampingForce := relVel.Scale(damping)

		disp := b.Position.Sub(a.Position)
		magnitude := s.Stiffness * (disp.Len() - s.RestLength)
		springForce := disp.Normalize().Scale(magnitude)

		f := springForce.Add(dampingForce)
		m.accel[s.A] = m.accel[s.A].Add(f.Scale(1 / a.Mass))
		m.accel[s.B] = m.accel[s.B].Sub(f.Scale(1 / b.Mass))
	}

	for i := range m.Particles {
		m.Particles[i].Acceleration = m.Particles[i].Acceleration.Add(m.accel[i])
	}
}

// ApplyDrag adds quadratic air drag, coeff * |v|^2 against the velocity.
func (m *Mesh) ApplyDrag(coeff float64) {
	if coeff == 0 {
		return
	}
	for i := range m.Particles {
		p := &m.Particles[i]
		speedSq := p.Velocity.LenSq()
		p.AddForce(p.Velocity.Normalize().Scale(-coeff * speedSq))
	}
}

// ResetAccelerations clears every particle's acceleration before a step's
// forces are accumulated.
func (m *Mesh) ResetAccelerations() {
	for i := range m.Particles {
		m.Particles[i].ResetAcceleration()
	}
}
