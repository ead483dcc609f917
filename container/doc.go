// Package container provides allocator-parameterized containers: the
// fixed-capacity Array, the growable Vector, and the FixedStack, Stack and
// BarrierStack variants built on them.
//
// Every container is generic over its element type and its allocation
// strategy:
//
//	v, err := container.NewVector[int](alloc.Heap{})
//	if err != nil {
//		return err
//	}
//	defer v.Release()
//
// Element types must be fixed-layout (see raw.CheckLayout) because strategy
// memory may live outside the Go heap, where the garbage collector does not
// look for pointers.
//
// Containers are single-owner values. They are not safe for concurrent use,
// and iterators or descriptors taken from a container are invalidated by any
// operation that grows it or shifts its elements. Release returns the backing
// memory to the strategy; a runtime cleanup frees it as a last resort when a
// container becomes unreachable without being released.
package container
