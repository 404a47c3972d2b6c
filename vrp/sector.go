package vrp

// maxAngle is the modulus of the quantised polar angles.
const maxAngle = 65536

// positiveMod returns a mod m in [0, m).
func positiveMod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// CircleSector is the angular span [Start, End] (clockwise, mod 65536) covered
// by the customers of a route. The zero value is the empty sector.
type CircleSector struct {
	Start int
	End   int
}

// Reset empties the sector.
func (s *CircleSector) Reset() {
	s.Start = 0
	s.End = 0
}

// FromAngle collapses the sector onto a single angle.
func (s *CircleSector) FromAngle(angle int) {
	s.Start = angle
	s.End = angle
}

// Extend grows the sector minimally so that it encloses angle.
func (s *CircleSector) Extend(angle int) {
	if s.Start == 0 && s.End == 0 {
		s.FromAngle(angle)
		return
	}
	if s.IsEnclosed(angle) {
		return
	}
	if positiveMod(angle-s.End, maxAngle) <= positiveMod(s.Start-angle, maxAngle) {
		s.End = angle
	} else {
		s.Start = angle
	}
}

// IsEnclosed reports whether angle lies inside the sector.
func (s *CircleSector) IsEnclosed(angle int) bool {
	return positiveMod(angle-s.Start, maxAngle) <= positiveMod(s.End-s.Start, maxAngle)
}

// Overlaps reports whether the two sectors share at least one angle.
func (s *CircleSector) Overlaps(other CircleSector) bool {
	return positiveMod(other.Start-s.Start, maxAngle) <= positiveMod(s.End-s.Start, maxAngle) ||
		positiveMod(s.Start-other.Start, maxAngle) <= positiveMod(other.End-other.Start, maxAngle)
}
