package energy

import (
	"fmt"
	"sort"
)

// A LookupError is returned when a table has no entry for a line size.
type LookupError struct {
	Table    string
	LineSize uint64
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("cannot resolve %s for line size %d bytes",
		e.Table, e.LineSize)
}

// A Table maps an access size in bytes to a value. Tables are immutable.
type Table struct {
	name    string
	unit    string
	entries map[uint64]float64
	sizes   []uint64
}

// NewTable creates a table. The entries are copied.
func NewTable(name, unit string, entries map[uint64]float64) Table {
	t := Table{
		name:    name,
		unit:    unit,
		entries: make(map[uint64]float64, len(entries)),
		sizes:   make([]uint64, 0, len(entries)),
	}

	for size, value := range entries {
		t.entries[size] = value
		t.sizes = append(t.sizes, size)
	}

	sort.Slice(t.sizes, func(i, j int) bool { return t.sizes[i] < t.sizes[j] })

	return t
}

// Name returns the name of the table.
func (t Table) Name() string {
	return t.name
}

// Unit returns the unit of the values.
func (t Table) Unit() string {
	return t.unit
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.sizes)
}

// Sizes returns the access sizes in increasing order.
func (t Table) Sizes() []uint64 {
	sizes := make([]uint64, len(t.sizes))
	copy(sizes, t.sizes)

	return sizes
}

// Lookup returns the value of the exact access size.
func (t Table) Lookup(size uint64) (float64, error) {
	value, ok := t.entries[size]
	if !ok {
		return 0, &LookupError{Table: t.name, LineSize: size}
	}

	return value, nil
}

// LookupAtLeast returns the value of the smallest access size that is no
// smaller than both size and floor. The access size used is also returned.
func (t Table) LookupAtLeast(size, floor uint64) (float64, uint64, error) {
	want := size
	if floor > want {
		want = floor
	}

	i := sort.Search(len(t.sizes), func(i int) bool {
		return t.sizes[i] >= want
	})
	if i == len(t.sizes) {
		return 0, 0, &LookupError{Table: t.name, LineSize: size}
	}

	found := t.sizes[i]

	return t.entries[found], found, nil
}
