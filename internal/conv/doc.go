// Package conv provides overflow-checked integer conversions and size arithmetic.
//
// Allocation sizes are computed from caller supplied element counts, so every
// count*size or size+padding step goes through these helpers before memory is
// requested from a strategy.
package conv
