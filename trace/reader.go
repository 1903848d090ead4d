// Package trace reads memory access traces and replays them.
//
// A trace has one event per line. Numbers are decimal or hexadecimal with a
// 0x prefix. Blank lines and lines starting with # are ignored. An access
// may not touch more than MaxAccessSize bytes.
//
//	L <ip> <addr> <size>                        load
//	S <ip> <addr> <size>                        store
//	LS <ip> <raddr> <rsize> <waddr> <wsize>     load+store
//	N <ip>                                      no memory access
//	E <routine>                                 routine entered
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/hbsim/tracker"
)

// MaxAccessSize is the largest number of bytes one access may touch.
const MaxAccessSize = 4096

// EventKind tells what an event reports.
type EventKind int

// The kinds of events in a trace.
const (
	EventAccess EventKind = iota
	EventEnter
)

// An Event is one line of a trace.
type Event struct {
	Kind    EventKind
	Access  tracker.Access
	Routine string
	Line    int
}

// A ParseError reports a malformed line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// A Reader reads events from a trace.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	event   Event
	err     error
}

// NewReader creates a reader.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return &Reader{scanner: scanner}
}

// Next reads the next event. It returns false at the end of the trace or on
// the first error.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		event, err := parseLine(text)
		if err != nil {
			r.err = &ParseError{Line: r.line, Text: text, Msg: err.Error()}
			return false
		}

		event.Line = r.line
		r.event = event

		return true
	}

	r.err = r.scanner.Err()

	return false
}

// Event returns the event read by the last call to Next.
func (r *Reader) Event() Event {
	return r.event
}

// Err returns the error that stopped the reader, if any.
func (r *Reader) Err() error {
	return r.err
}

var accessKinds = map[string]struct {
	kind   tracker.Kind
	fields int
}{
	"L":  {tracker.KindLoad, 4},
	"S":  {tracker.KindStore, 4},
	"LS": {tracker.KindLoadStore, 6},
	"N":  {tracker.KindNone, 2},
}

func parseLine(text string) (Event, error) {
	fields := strings.Fields(text)

	if fields[0] == "E" {
		if len(fields) != 2 {
			return Event{}, fmt.Errorf("expecting 1 routine name, got %d fields",
				len(fields)-1)
		}

		return Event{Kind: EventEnter, Routine: fields[1]}, nil
	}

	format, ok := accessKinds[fields[0]]
	if !ok {
		return Event{}, fmt.Errorf("unknown event %q", fields[0])
	}

	if len(fields) != format.fields {
		return Event{}, fmt.Errorf("%s expects %d numbers, got %d",
			fields[0], format.fields-1, len(fields)-1)
	}

	numbers := make([]uint64, len(fields)-1)
	for i, f := range fields[1:] {
		n, err := parseNumber(f)
		if err != nil {
			return Event{}, err
		}

		numbers[i] = n
	}

	a := tracker.Access{IP: numbers[0], Kind: format.kind}

	switch format.kind {
	case tracker.KindLoad, tracker.KindStore:
		a.Addr, a.Size = numbers[1], numbers[2]
	case tracker.KindLoadStore:
		a.Addr, a.Size = numbers[1], numbers[2]
		a.WriteAddr, a.WriteSize = numbers[3], numbers[4]
	}

	if a.Size > MaxAccessSize || a.WriteSize > MaxAccessSize {
		return Event{}, fmt.Errorf("access size exceeds %d bytes",
			MaxAccessSize)
	}

	return Event{Kind: EventAccess, Access: a}, nil
}

func parseNumber(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}

	return strconv.ParseUint(s, 10, 64)
}
