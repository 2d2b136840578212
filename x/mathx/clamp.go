// Package mathx holds the small generic integer helpers the register and
// flash code share.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. lo must not exceed hi.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}

// InRange reports lo <= v < hi, the usual shape of an address window.
func InRange[T constraints.Ordered](v, lo, hi T) bool {
	return lo <= v && v < hi
}

func Min[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

func Max[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}
