package raw

import (
	"unsafe"
)

// Descriptor is a non-owning view of n contiguous elements of type T.
type Descriptor[T any] struct {
	ptr *T
	n   int
}

// NewDescriptor describes n elements starting at ptr.
func NewDescriptor[T any](ptr *T, n int) Descriptor[T] {
	if ptr == nil {
		n = 0
	}
	return Descriptor[T]{ptr: ptr, n: n}
}

// FromPointer describes n elements of type T starting at p.
func FromPointer[T any](p unsafe.Pointer, n int) Descriptor[T] {
	return NewDescriptor((*T)(p), n)
}

// FromSlice describes the elements of s. The descriptor aliases s.
func FromSlice[T any](s []T) Descriptor[T] {
	if len(s) == 0 {
		return Descriptor[T]{}
	}
	return Descriptor[T]{ptr: &s[0], n: len(s)}
}

// Ptr returns the address of the first element.
func (d Descriptor[T]) Ptr() *T {
	return d.ptr
}

// Len returns the number of elements described.
func (d Descriptor[T]) Len() int {
	return d.n
}

// IsNil reports whether d describes no memory at all.
func (d Descriptor[T]) IsNil() bool {
	return d.ptr == nil
}

// Equal reports whether d and o start at the same address. Length is not
// part of a descriptor's identity.
func (d Descriptor[T]) Equal(o Descriptor[T]) bool {
	return d.ptr == o.ptr
}

// Slice returns a slice aliasing the described memory.
func (d Descriptor[T]) Slice() []T {
	if d.ptr == nil || d.n == 0 {
		return nil
	}
	return unsafe.Slice(d.ptr, d.n)
}

// Sub describes elements [from, to) of d. Bounds are not checked.
func (d Descriptor[T]) Sub(from, to int) Descriptor[T] {
	return NewDescriptor(add(d.ptr, from), to-from)
}

// Begin returns a forward iterator at the first element.
func (d Descriptor[T]) Begin() Iterator[T] {
	return Iterator[T]{p: d.ptr}
}

// End returns a forward iterator one past the last element.
func (d Descriptor[T]) End() Iterator[T] {
	return Iterator[T]{p: add(d.ptr, d.n)}
}

// RBegin returns a reverse iterator at the last element.
func (d Descriptor[T]) RBegin() ReverseIterator[T] {
	return ReverseIterator[T]{base: add(d.ptr, d.n)}
}

// REnd returns a reverse iterator one before the first element.
func (d Descriptor[T]) REnd() ReverseIterator[T] {
	return ReverseIterator[T]{base: d.ptr}
}

// CBegin returns a read-only forward iterator at the first element.
func (d Descriptor[T]) CBegin() ConstIterator[T] {
	return d.Begin().Const()
}

// CEnd returns a read-only forward iterator one past the last element.
func (d Descriptor[T]) CEnd() ConstIterator[T] {
	return d.End().Const()
}

// CRBegin returns a read-only reverse iterator at the last element.
func (d Descriptor[T]) CRBegin() ConstReverseIterator[T] {
	return d.RBegin().Const()
}

// CREnd returns a read-only reverse iterator one before the first element.
func (d Descriptor[T]) CREnd() ConstReverseIterator[T] {
	return d.REnd().Const()
}

// Contains reports whether it addresses an element inside d, or d's end.
func (d Descriptor[T]) Contains(it Iterator[T]) bool {
	return !it.Less(d.Begin()) && !d.End().Less(it)
}

// Copy copies min(dst.Len(), src.Len()) elements from src to dst and returns
// the count. Overlapping descriptors are handled like the built-in copy.
func Copy[T any](dst, src Descriptor[T]) int {
	return copy(dst.Slice(), src.Slice())
}

// Clear zeroes every element of d.
func Clear[T any](d Descriptor[T]) {
	clear(d.Slice())
}

// Fill sets every element of d to v.
func Fill[T any](d Descriptor[T], v T) {
	s := d.Slice()
	for i := range s {
		s[i] = v
	}
}

func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// add advances p by n elements. It is the single place pointer arithmetic
// happens in this package.
func add[T any](p *T, n int) *T {
	if p == nil {
		return nil
	}
	return (*T)(unsafe.Add(unsafe.Pointer(p), n*sizeOf[T]())) //nolint:gosec // iterator arithmetic
}

func addrOf[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p)) //nolint:gosec // comparison only
}
