// Package raw provides non-owning views over contiguous fixed-layout memory.
//
// A Descriptor is a {pointer, length} pair. It never owns the memory it
// describes: containers hand descriptors out so collaborators can copy or clear
// their contents in bulk without taking ownership.
//
// Iterators are bare pointers with arithmetic. There are four kinds:
//
//	Iterator[T]              forward, read-write
//	ReverseIterator[T]       backward, read-write
//	ConstIterator[T]         forward, read-only
//	ConstReverseIterator[T]  backward, read-only
//
// They are used in the usual "advance until equal to end" loop:
//
//	for it := d.Begin(); !it.Equal(d.End()); it = it.Next() {
//	    sum += it.Get()
//	}
//
// # Invalidation
//
// Iterators hold no ownership. Any reallocation of the memory they range over,
// and any insert or erase that shifts elements past their position, leaves
// them pointing at stale or different data. Nothing detects this.
//
// # Reverse iterators
//
// A reverse iterator stores the address one element past the element it
// addresses, so REnd never forms a pointer before the first element. Base
// returns that stored address as a forward iterator; Forward and Reverse
// convert while keeping the addressed element.
package raw
