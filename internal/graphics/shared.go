package graphics

// Releaser is anything that frees GPU memory on Release.
type Releaser interface {
	Release()
}

// Shared is a reference-counted owner for resources used by several holders,
// e.g. a texture referenced by many materials. The value is released when the
// last holder lets go.
type Shared[T Releaser] struct {
	_     noCopy
	value T
	refs  int
}

// Share wraps v with a single reference held by the caller.
func Share[T Releaser](v T) *Shared[T] {
	return &Shared[T]{value: v, refs: 1}
}

// Retain adds a reference and returns s for chaining.
func (s *Shared[T]) Retain() *Shared[T] {
	if s.refs > 0 {
		s.refs++
	}
	return s
}

// Release drops a reference. Releasing past zero does nothing.
func (s *Shared[T]) Release() {
	if s == nil || s.refs == 0 {
		return
	}
	s.refs--
	if s.refs == 0 {
		s.value.Release()
	}
}

// Get returns the wrapped value. It must not be used once Refs is 0.
func (s *Shared[T]) Get() T {
	return s.value
}

// Refs returns the number of live references.
func (s *Shared[T]) Refs() int {
	return s.refs
}
