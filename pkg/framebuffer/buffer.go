package framebuffer

// Buffer2D is a width×height grid of T that owns its storage. A zero-sized
// buffer is a valid empty state: reads return the zero value and writes are
// dropped.
type Buffer2D[T any] struct {
	width  int
	height int
	data   []T
}

// NewBuffer2D allocates a zeroed buffer
func NewBuffer2D[T any](width, height int) *Buffer2D[T] {
	b := &Buffer2D[T]{}
	b.Resize(width, height)
	return b
}

// Resize reallocates and zeroes the buffer. Resizing to the current
// resolution keeps the backing slice and its content, and reports false.
func (b *Buffer2D[T]) Resize(width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	if width == b.width && height == b.height && b.data != nil {
		return false
	}
	b.width, b.height = width, height
	b.data = make([]T, width*height)
	return true
}

// Width returns the number of columns
func (b *Buffer2D[T]) Width() int { return b.width }

// Height returns the number of rows
func (b *Buffer2D[T]) Height() int { return b.height }

// Len returns the number of elements
func (b *Buffer2D[T]) Len() int { return len(b.data) }

// Data exposes the row-major backing slice
func (b *Buffer2D[T]) Data() []T { return b.data }

// Index returns the row-major index of (x, y) with both clamped to the buffer
func (b *Buffer2D[T]) Index(x, y int) int {
	x = min(max(x, 0), b.width-1)
	y = min(max(y, 0), b.height-1)
	return y*b.width + x
}

// At returns the element at (x, y), clamped to the edges
func (b *Buffer2D[T]) At(x, y int) T {
	if len(b.data) == 0 {
		var zero T
		return zero
	}
	return b.data[b.Index(x, y)]
}

// Set stores v at (x, y), clamped to the edges
func (b *Buffer2D[T]) Set(x, y int, v T) {
	if len(b.data) == 0 {
		return
	}
	b.data[b.Index(x, y)] = v
}

// Ref returns a pointer to the element at (x, y), or nil for an empty buffer
func (b *Buffer2D[T]) Ref(x, y int) *T {
	if len(b.data) == 0 {
		return nil
	}
	return &b.data[b.Index(x, y)]
}

// Reset zeroes every element
func (b *Buffer2D[T]) Reset() {
	clear(b.data)
}

// CopyFrom makes b an element-wise copy of other
func (b *Buffer2D[T]) CopyFrom(other *Buffer2D[T]) {
	b.Resize(other.width, other.height)
	copy(b.data, other.data)
}
