package stats

import (
	"fmt"
	"io"
)

// A ProfileEntry is the counter vector of one instruction.
type ProfileEntry struct {
	Key      uint64
	Counters HitMiss
}

// A Profile keeps a counter vector for every instruction address it has
// seen. Addresses are mapped to dense indices on first sight; the mapping
// only grows.
type Profile struct {
	keyName     string
	counterName string
	threshold   HitMiss

	indices  map[uint64]int
	keys     []uint64
	counters []HitMiss
}

// NewProfile creates an empty profile.
func NewProfile() *Profile {
	return &Profile{
		keyName:     "iaddr",
		counterName: "miss hit",
		indices:     make(map[uint64]int),
	}
}

// SetKeyName sets the header of the key column in the report.
func (p *Profile) SetKeyName(name string) {
	p.keyName = name
}

// SetCounterName sets the header of the counter columns in the report.
func (p *Profile) SetCounterName(name string) {
	p.counterName = name
}

// SetThreshold sets the minimum counts for an entry to be reported.
func (p *Profile) SetThreshold(threshold HitMiss) {
	p.threshold = threshold
}

// Threshold returns the reporting threshold.
func (p *Profile) Threshold() HitMiss {
	return p.threshold
}

// Map returns the dense index of an instruction address, assigning the next
// free index if the address is new.
func (p *Profile) Map(key uint64) int {
	index, ok := p.indices[key]
	if ok {
		return index
	}

	index = len(p.keys)
	p.indices[key] = index
	p.keys = append(p.keys, key)
	p.counters = append(p.counters, HitMiss{})

	return index
}

// Record counts one access of the instruction at the index.
func (p *Profile) Record(index int, hit bool) {
	p.counters[index].Record(hit)
}

// Len returns the number of mapped instructions.
func (p *Profile) Len() int {
	return len(p.keys)
}

// Key returns the instruction address at the index.
func (p *Profile) Key(index int) uint64 {
	return p.keys[index]
}

// Counters returns the counters of the instruction at the index.
func (p *Profile) Counters(index int) HitMiss {
	return p.counters[index]
}

// Total sums the counters of all the instructions.
func (p *Profile) Total() HitMiss {
	total := HitMiss{}
	for _, c := range p.counters {
		total = total.Add(c)
	}

	return total
}

// Reported tells if the instruction at the index passes the threshold.
func (p *Profile) Reported(index int) bool {
	return !p.counters[index].Below(p.threshold)
}

// Entries returns the entries that pass the threshold, in the order the
// instructions were first mapped.
func (p *Profile) Entries() []ProfileEntry {
	entries := make([]ProfileEntry, 0, len(p.keys))

	for i, key := range p.keys {
		if !p.Reported(i) {
			continue
		}

		entries = append(entries, ProfileEntry{
			Key:      key,
			Counters: p.counters[i],
		})
	}

	return entries
}

// WriteTo writes the reported entries as a table.
func (p *Profile) WriteTo(w io.Writer) (int64, error) {
	var written int64

	n, err := fmt.Fprintf(w, "# %-18s %s\n", p.keyName, p.counterName)
	written += int64(n)
	if err != nil {
		return written, err
	}

	for _, e := range p.Entries() {
		n, err = fmt.Fprintf(w, "0x%016x %12d %12d\n",
			e.Key, e.Counters.Misses(), e.Counters.Hits())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
