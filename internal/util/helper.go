// Package util provides small generic helpers shared by go-nexus packages.
package util

// CloneSlice returns a copy of src with capacity max(len(src), minCap).
func CloneSlice[S ~[]E, E any](src S, minCap int) S {
	size := len(src)
	capacity := size
	if capacity < minCap {
		capacity = minCap
	}
	dst := make(S, size, capacity)
	copy(dst, src)
	return dst
}
