package mathx

import "golang.org/x/exp/constraints"

// CeilDiv returns ceil(a/b), or 0 when b is 0. a+b must not overflow T.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// FloorDiv returns a/b, or 0 when b is 0.
func FloorDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return a / b
}

// Aligned reports whether v is a multiple of align. align must be a power of two.
func Aligned[T constraints.Unsigned](v, align T) bool {
	return v&(align-1) == 0
}

// AlignDown rounds v down to a multiple of align (a power of two).
func AlignDown[T constraints.Unsigned](v, align T) T {
	return v &^ (align - 1)
}

// AlignUp rounds v up to a multiple of align (a power of two).
func AlignUp[T constraints.Unsigned](v, align T) T {
	return (v + align - 1) &^ (align - 1)
}
