package raw

// Iterator is a forward cursor over contiguous elements.
type Iterator[T any] struct {
	p *T
}

// IteratorAt returns a forward iterator at p.
func IteratorAt[T any](p *T) Iterator[T] {
	return Iterator[T]{p: p}
}

// Ptr returns the address the iterator points at.
func (it Iterator[T]) Ptr() *T { return it.p }

// Ref dereferences the iterator. Undefined at End.
func (it Iterator[T]) Ref() *T { return it.p }

// Get returns the addressed element. Undefined at End.
func (it Iterator[T]) Get() T { return *it.p }

// Set overwrites the addressed element. Undefined at End.
func (it Iterator[T]) Set(v T) { *it.p = v }

// Advance moves n elements toward the end.
func (it Iterator[T]) Advance(n int) Iterator[T] { return Iterator[T]{p: add(it.p, n)} }

// Retreat moves n elements toward the beginning.
func (it Iterator[T]) Retreat(n int) Iterator[T] { return Iterator[T]{p: add(it.p, -n)} }

// Next is Advance(1).
func (it Iterator[T]) Next() Iterator[T] { return it.Advance(1) }

// Prev is Retreat(1).
func (it Iterator[T]) Prev() Iterator[T] { return it.Retreat(1) }

// Equal reports whether both iterators hold the same address.
func (it Iterator[T]) Equal(o Iterator[T]) bool { return it.p == o.p }

// Less orders iterators by address.
func (it Iterator[T]) Less(o Iterator[T]) bool { return addrOf(it.p) < addrOf(o.p) }

// Compare returns -1, 0 or +1 ordering by address.
func (it Iterator[T]) Compare(o Iterator[T]) int { return compareAddr(addrOf(it.p), addrOf(o.p)) }

// Distance returns the number of elements from it to o.
func (it Iterator[T]) Distance(o Iterator[T]) int {
	return distance[T](addrOf(it.p), addrOf(o.p))
}

// Const drops write access.
func (it Iterator[T]) Const() ConstIterator[T] { return ConstIterator[T]{p: it.p} }

// Reverse returns a reverse iterator addressing the same element.
// Undefined at End.
func (it Iterator[T]) Reverse() ReverseIterator[T] { return ReverseIterator[T]{base: add(it.p, 1)} }

// ReverseIterator walks contiguous elements from the back. It stores the
// address one past the element it addresses.
type ReverseIterator[T any] struct {
	base *T
}

// MakeReverse returns the reverse iterator whose Base is it, so it addresses
// the element before it. MakeReverse(End) is RBegin and MakeReverse(Begin) is REnd.
func MakeReverse[T any](it Iterator[T]) ReverseIterator[T] {
	return ReverseIterator[T]{base: it.p}
}

// Ptr returns the address of the addressed element. Undefined at REnd.
func (it ReverseIterator[T]) Ptr() *T { return add(it.base, -1) }

// Ref dereferences the iterator. Undefined at REnd.
func (it ReverseIterator[T]) Ref() *T { return it.Ptr() }

// Get returns the addressed element. Undefined at REnd.
func (it ReverseIterator[T]) Get() T { return *it.Ptr() }

// Set overwrites the addressed element. Undefined at REnd.
func (it ReverseIterator[T]) Set(v T) { *it.Ptr() = v }

// Advance moves n elements toward the beginning of memory.
func (it ReverseIterator[T]) Advance(n int) ReverseIterator[T] {
	return ReverseIterator[T]{base: add(it.base, -n)}
}

// Retreat moves n elements toward the end of memory.
func (it ReverseIterator[T]) Retreat(n int) ReverseIterator[T] {
	return ReverseIterator[T]{base: add(it.base, n)}
}

// Next is Advance(1).
func (it ReverseIterator[T]) Next() ReverseIterator[T] { return it.Advance(1) }

// Prev is Retreat(1).
func (it ReverseIterator[T]) Prev() ReverseIterator[T] { return it.Retreat(1) }

// Equal reports whether both iterators address the same position.
func (it ReverseIterator[T]) Equal(o ReverseIterator[T]) bool { return it.base == o.base }

// Less orders reverse iterators in iteration order: RBegin is less than REnd.
func (it ReverseIterator[T]) Less(o ReverseIterator[T]) bool {
	return addrOf(it.base) > addrOf(o.base)
}

// Compare returns -1, 0 or +1 in iteration order.
func (it ReverseIterator[T]) Compare(o ReverseIterator[T]) int {
	return compareAddr(addrOf(o.base), addrOf(it.base))
}

// Distance returns the number of Advance steps from it to o.
func (it ReverseIterator[T]) Distance(o ReverseIterator[T]) int {
	return distance[T](addrOf(o.base), addrOf(it.base))
}

// Base returns the forward iterator one past the addressed element.
func (it ReverseIterator[T]) Base() Iterator[T] { return Iterator[T]{p: it.base} }

// Forward returns a forward iterator addressing the same element.
// Undefined at REnd.
func (it ReverseIterator[T]) Forward() Iterator[T] { return Iterator[T]{p: it.Ptr()} }

// Const drops write access.
func (it ReverseIterator[T]) Const() ConstReverseIterator[T] {
	return ConstReverseIterator[T]{base: it.base}
}

// ConstIterator is a read-only forward cursor.
type ConstIterator[T any] struct {
	p *T
}

// Get returns the addressed element. Undefined at End.
func (it ConstIterator[T]) Get() T { return *it.p }

// Advance moves n elements toward the end.
func (it ConstIterator[T]) Advance(n int) ConstIterator[T] { return ConstIterator[T]{p: add(it.p, n)} }

// Retreat moves n elements toward the beginning.
func (it ConstIterator[T]) Retreat(n int) ConstIterator[T] {
	return ConstIterator[T]{p: add(it.p, -n)}
}

// Next is Advance(1).
func (it ConstIterator[T]) Next() ConstIterator[T] { return it.Advance(1) }

// Prev is Retreat(1).
func (it ConstIterator[T]) Prev() ConstIterator[T] { return it.Retreat(1) }

// Equal reports whether both iterators hold the same address.
func (it ConstIterator[T]) Equal(o ConstIterator[T]) bool { return it.p == o.p }

// Less orders iterators by address.
func (it ConstIterator[T]) Less(o ConstIterator[T]) bool { return addrOf(it.p) < addrOf(o.p) }

// Distance returns the number of elements from it to o.
func (it ConstIterator[T]) Distance(o ConstIterator[T]) int {
	return distance[T](addrOf(it.p), addrOf(o.p))
}

// ConstReverseIterator is a read-only reverse cursor.
type ConstReverseIterator[T any] struct {
	base *T
}

// Get returns the addressed element. Undefined at CREnd.
func (it ConstReverseIterator[T]) Get() T { return *add(it.base, -1) }

// Advance moves n elements toward the beginning of memory.
func (it ConstReverseIterator[T]) Advance(n int) ConstReverseIterator[T] {
	return ConstReverseIterator[T]{base: add(it.base, -n)}
}

// Retreat moves n elements toward the end of memory.
func (it ConstReverseIterator[T]) Retreat(n int) ConstReverseIterator[T] {
	return ConstReverseIterator[T]{base: add(it.base, n)}
}

// Next is Advance(1).
func (it ConstReverseIterator[T]) Next() ConstReverseIterator[T] { return it.Advance(1) }

// Prev is Retreat(1).
func (it ConstReverseIterator[T]) Prev() ConstReverseIterator[T] { return it.Retreat(1) }

// Equal reports whether both iterators address the same position.
func (it ConstReverseIterator[T]) Equal(o ConstReverseIterator[T]) bool { return it.base == o.base }

// Less orders in iteration order.
func (it ConstReverseIterator[T]) Less(o ConstReverseIterator[T]) bool {
	return addrOf(it.base) > addrOf(o.base)
}

// Base returns the read-only forward iterator one past the addressed element.
func (it ConstReverseIterator[T]) Base() ConstIterator[T] { return ConstIterator[T]{p: it.base} }

func compareAddr(a, b uintptr) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func distance[T any](from, to uintptr) int {
	size := sizeOf[T]()
	if size == 0 {
		return 0
	}
	return (int(to) - int(from)) / size //nolint:gosec // addresses of one allocation
}
