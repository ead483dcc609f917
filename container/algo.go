package container

// insertAt shifts s[i:len(s)-1] one slot toward the tail and stores x at i.
// The last slot of s must be spare.
func insertAt[T any](s []T, i int, x T) {
	copy(s[i+1:], s[i:len(s)-1])
	s[i] = x
}

// eraseRange removes s[first:last] by shifting the tail toward the head,
// zeroes the vacated slots and returns the new length.
func eraseRange[T any](s []T, first, last int) int {
	if first == last {
		return len(s)
	}
	n := copy(s[first:], s[last:])
	clear(s[first+n:])
	return first + n
}
