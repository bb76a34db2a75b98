package util

// Contains returns whether elem occurs anywhere in slice.
func Contains[T comparable](slice []T, elem T) bool {
	for _, item := range slice {
		if item == elem {
			return true
		}
	}

	return false
}

// Map returns a new slice holding f applied to each element of slice.
func Map[T, R any](slice []T, f func(T) R) []R {
	out := make([]R, len(slice))
	for i, item := range slice {
		out[i] = f(item)
	}

	return out
}

// Filter returns the elements of slice for which pred holds, in order.
func Filter[T any](slice []T, pred func(T) bool) []T {
	var out []T
	for _, item := range slice {
		if pred(item) {
			out = append(out, item)
		}
	}

	return out
}
