// Package util holds small generic helpers over slices.
package util

// Contains returns whether the given slice contains the given element.
func Contains[T comparable](slice []T, elem T) bool {
	return Any(slice, func(x T) bool { return x == elem })
}

// Any returns whether pred holds for some element of the slice.  Elements are
// tested in order and testing stops at the first match.
func Any[T any](slice []T, pred func(T) bool) bool {
	for _, x := range slice {
		if pred(x) {
			return true
		}
	}

	return false
}

// Map applies a function to each element of the slice in order and returns the
// transformed slice.
func Map[T, R any](slice []T, f func(T) R) []R {
	mSlice := make([]R, len(slice))

	for i, elem := range slice {
		mSlice[i] = f(elem)
	}

	return mSlice
}
