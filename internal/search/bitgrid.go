package search

import "math/bits"

// BitGrid is a fixed-size set of arena indices, one bit per tile.
type BitGrid struct {
	words []uint64
	size  int
}

// NewBitGrid returns an empty grid able to hold indices [0, size).
func NewBitGrid(size int) *BitGrid {
	return &BitGrid{words: make([]uint64, (size+63)/64), size: size}
}

// Has reports whether i is set.
func (b *BitGrid) Has(i int32) bool {
	return b.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Set adds i.
func (b *BitGrid) Set(i int32) {
	b.words[i>>6] |= 1 << (uint(i) & 63)
}

// Clear removes i.
func (b *BitGrid) Clear(i int32) {
	b.words[i>>6] &^= 1 << (uint(i) & 63)
}

// Reset removes every index.
func (b *BitGrid) Reset() {
	clear(b.words)
}

// Count returns the number of set indices.
func (b *BitGrid) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Size returns the capacity of the grid.
func (b *BitGrid) Size() int { return b.size }
