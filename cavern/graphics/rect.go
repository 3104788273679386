package graphics

// Number is the set of coordinate types a Rect can hold.
type Number interface {
	~int | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Rect is an axis-aligned rectangle; Right and Bottom are exclusive.
type Rect[T Number] struct {
	Left, Top, Right, Bottom T
}

// NewRect builds a rect from its edges.
func NewRect[T Number](left, top, right, bottom T) Rect[T] {
	return Rect[T]{Left: left, Top: top, Right: right, Bottom: bottom}
}

// NewRectSize builds a rect from its origin and size.
func NewRectSize[T Number](x, y, width, height T) Rect[T] {
	return Rect[T]{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

func (r Rect[T]) Width() T {
	return r.Right - r.Left
}

func (r Rect[T]) Height() T {
	return r.Bottom - r.Top
}

// Empty reports whether the rect covers no area.
func (r Rect[T]) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate moves the rect by (dx, dy).
func (r Rect[T]) Translate(dx, dy T) Rect[T] {
	return Rect[T]{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the overlap of two rects, or an empty rect.
func (r Rect[T]) Intersect(o Rect[T]) Rect[T] {
	out := Rect[T]{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.Empty() {
		return Rect[T]{}
	}
	return out
}

// Contains reports whether o lies fully inside r.
func (r Rect[T]) Contains(o Rect[T]) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right <= r.Right && o.Bottom <= r.Bottom
}

// ConvertRect changes the coordinate type of a rect.
func ConvertRect[U, T Number](r Rect[T]) Rect[U] {
	return Rect[U]{Left: U(r.Left), Top: U(r.Top), Right: U(r.Right), Bottom: U(r.Bottom)}
}
