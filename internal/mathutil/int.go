package mathutil

// IntMin returns the smaller of two ints.
func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IntMax returns the larger of two ints.
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ClampInt limits v to [lo, hi]. When lo > hi, lo wins.
func ClampInt(v, lo, hi int) int {
	return IntMax(lo, IntMin(v, hi))
}

// ClampFloat limits v to [lo, hi]. When lo > hi, lo wins.
func ClampFloat(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
