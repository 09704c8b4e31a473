package functional

import "slices"

// Zero returns the zero value of T.
func Zero[T any]() (t T) {
	return
}

// ArrayEqual reports whether both slices hold the same elements in
// the same order, distinguishing nil from empty.
func ArrayEqual[T comparable](
	this, that []T,
) bool {

	if (this == nil) != (that == nil) {
		return false
	}
	return slices.Equal(this, that)
}
