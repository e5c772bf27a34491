package window

// ZOrder issues stacking indices. Every value returned by Next is strictly
// greater than all values issued before it in the session; a later request
// always outranks an earlier one.
type ZOrder struct {
	last int
}

// NewZOrder creates an allocator whose first issued value is base+1.
func NewZOrder(base int) *ZOrder {
	return &ZOrder{last: base}
}

// Next returns the next top-most index.
func (z *ZOrder) Next() int {
	z.last++
	return z.last
}

// Peek returns the most recently issued index (the base if none was issued).
func (z *ZOrder) Peek() int {
	return z.last
}
